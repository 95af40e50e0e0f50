package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"attendance-engine/internal/config"
	"attendance-engine/internal/database"
	"attendance-engine/internal/device"
	"attendance-engine/internal/poller"
	"attendance-engine/internal/router"
)

func main() {
	// Load environment variables
	config.LoadConfig()

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatal("Invalid engine configuration: ", err)
	}

	// Initialize database
	database.SetupDatabase()

	// Start device ingestion
	p := poller.New(settings.Devices, settings.PollInterval, settings.Realtime, func(cfg device.Config) device.Client {
		return device.NewHTTPClient(cfg)
	})
	p.Start()

	// Setup the router
	r := router.SetupRouter()

	srv := &http.Server{Addr: ":8080", Handler: r}
	go func() {
		log.Println("Starting server on :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Stop polling and drain device connections before exiting.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down...")
	p.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Server shutdown error:", err)
	}
}
