package router

import (
	"net/http"

	"attendance-engine/internal/handlers"
	"attendance-engine/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes the Gin router and defines all API endpoints.
func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// A simple health check route
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Attendance Engine API is running."})
	})

	// Public Endpoint to Seed Data
	r.POST("/seed", handlers.SeedDatabase)

	// Engine API consumed by the thin outer API layer. Reconciliation
	// and backfill are deliberately absent: they run through the
	// operator CLI only, never request traffic.
	api := r.Group("/api")
	{
		api.GET("/punches", handlers.ListPunches)
		api.GET("/attendance/daily", handlers.GetDailyAttendance)
		api.GET("/leave-balance", handlers.GetLeaveBalance)
		api.POST("/leave-status-changed", handlers.NotifyLeaveStatusChanged)
		api.GET("/audit-logs", handlers.GetAuditLogs)
	}

	return r
}
