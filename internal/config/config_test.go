package config

import (
	"testing"
	"time"
)

func TestParseDeviceList(t *testing.T) {
	t.Run("parses multiple devices", func(t *testing.T) {
		devices, err := parseDeviceList("192.168.1.10:4370:5000, 192.168.1.11:4370:3000:9090")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(devices) != 2 {
			t.Fatalf("Expected 2 devices, got %d", len(devices))
		}

		first := devices[0]
		if first.Host != "192.168.1.10" || first.Port != 4370 {
			t.Errorf("Unexpected first device: %+v", first)
		}
		if first.Timeout != 5*time.Second {
			t.Errorf("Expected 5s timeout, got %s", first.Timeout)
		}
		if first.InboundPort != 0 {
			t.Errorf("Expected no inbound port, got %d", first.InboundPort)
		}

		second := devices[1]
		if second.InboundPort != 9090 {
			t.Errorf("Expected inbound port 9090, got %d", second.InboundPort)
		}
	})

	t.Run("rejects an empty list", func(t *testing.T) {
		if _, err := parseDeviceList("  "); err == nil {
			t.Error("Expected an error for an empty device list")
		}
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		cases := []string{
			"hostonly",
			"host:notaport:5000",
			"host:4370:notatimeout",
			"host:4370:5000:notaport",
			"host:4370:5000:9090:extra",
		}
		for _, raw := range cases {
			if _, err := parseDeviceList(raw); err == nil {
				t.Errorf("Expected an error for %q", raw)
			}
		}
	})
}
