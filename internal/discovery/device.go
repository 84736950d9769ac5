package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device represents a controller found on the network
type Device struct {
	// Instance is the mDNS service instance name (e.g., "LightControl")
	Instance string

	// Hostname is the mDNS hostname (e.g., "lightcontrol-3f2a1c.local.")
	Hostname string

	// ID is the chip suffix of the hostname when it has one (e.g., "3f2a1c")
	ID string

	// IP is the device address, IPv4 when one was advertised
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("LightControl %s (%s) at %s:%d", d.DisplayName(), d.Hostname, d.IP, d.Port)
}

// DisplayName returns the instance name, falling back to the hostname.
func (d *Device) DisplayName() string {
	if d.Instance != "" {
		return d.Instance
	}
	return d.Hostname
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
