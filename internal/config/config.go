package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"attendance-engine/internal/device"

	"github.com/joho/godotenv"
)

// LoadConfig loads environment variables from .env file.
func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables.")
	}
}

// Settings holds the engine configuration parsed from the environment.
type Settings struct {
	Devices      []device.Config
	PollInterval time.Duration
	Realtime     bool
}

// LoadSettings parses the engine settings. An empty or malformed
// device list is an error: with no devices the poller has nothing to
// do, and the caller is expected to refuse to start.
func LoadSettings() (*Settings, error) {
	devices, err := parseDeviceList(os.Getenv("DEVICES"))
	if err != nil {
		return nil, err
	}

	interval := time.Minute
	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		interval, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_INTERVAL %q: %w", raw, err)
		}
	}

	return &Settings{
		Devices:      devices,
		PollInterval: interval,
		Realtime:     os.Getenv("REALTIME") == "true",
	}, nil
}

// parseDeviceList parses a comma-separated list of
// host:port:timeout_ms[:inbound_port] entries.
func parseDeviceList(raw string) ([]device.Config, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("DEVICES is empty: at least one device must be configured")
	}

	var devices []device.Config
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		parts := strings.Split(entry, ":")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("invalid device entry %q: want host:port:timeout_ms[:inbound_port]", entry)
		}

		port, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid port in device entry %q: %w", entry, err)
		}
		timeoutMs, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid timeout in device entry %q: %w", entry, err)
		}

		cfg := device.Config{
			Host:    parts[0],
			Port:    port,
			Timeout: time.Duration(timeoutMs) * time.Millisecond,
		}
		if len(parts) == 4 {
			inbound, err := strconv.Atoi(parts[3])
			if err != nil {
				return nil, fmt.Errorf("invalid inbound port in device entry %q: %w", entry, err)
			}
			cfg.InboundPort = inbound
		}
		devices = append(devices, cfg)
	}

	return devices, nil
}
