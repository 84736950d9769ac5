package config

import (
	"strings"
	"time"

	"github.com/muurk/lightctl/internal/field"
)

// Defaults applied to missing or zero preferences.
const (
	DefaultDiscoverTimeout = 5   // seconds
	DefaultDebounceMillis  = 300 // milliseconds
	DefaultLivePort        = 81
)

// Registry represents the entire user configuration file.
// This stores user-defined metadata for controllers and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by host or discovery ID
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single controller.
type Device struct {
	Nickname    string    `yaml:"nickname,omitempty"`     // User-friendly name, usable as --device
	LastAddress string    `yaml:"last_address,omitempty"` // Last known IP address or hostname
	Port        int       `yaml:"port,omitempty"`         // HTTP port when not 80
	LastSeen    time.Time `yaml:"last_seen,omitempty"`    // Last discovery/connection time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool   `yaml:"auto_discover"`            // Use mDNS when no device is given
	DiscoverTimeout int    `yaml:"discover_timeout"`         // mDNS discovery timeout in seconds
	DefaultDevice   string `yaml:"default_device,omitempty"` // Nickname or address used when no device is given
	DebounceMillis  int    `yaml:"debounce_ms"`              // Quiet period for slider and swatch edits
	LiveSync        bool   `yaml:"live_sync"`                // Follow device-pushed state over the websocket
	LivePort        int    `yaml:"live_port"`                // Controller websocket port
	ColorField      string `yaml:"color_field,omitempty"`    // Endpoint solid colors are posted to

	// PatternOrder replaces the built-in pattern display list when set.
	// Only patterns named here are shown.
	PatternOrder []string `yaml:"pattern_order,omitempty"`
}

// DefaultPreferences returns the preferences used when none are stored.
func DefaultPreferences() *Preferences {
	return &Preferences{
		AutoDiscover:    true,
		DiscoverTimeout: DefaultDiscoverTimeout,
		DebounceMillis:  DefaultDebounceMillis,
		LivePort:        DefaultLivePort,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: DefaultPreferences(),
	}
}

// normalize fills in maps and zero-valued preferences after loading.
func (r *Registry) normalize() {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if r.Preferences == nil {
		r.Preferences = DefaultPreferences()
		return
	}
	p := r.Preferences
	if p.DiscoverTimeout <= 0 {
		p.DiscoverTimeout = DefaultDiscoverTimeout
	}
	if p.DebounceMillis <= 0 {
		p.DebounceMillis = DefaultDebounceMillis
	}
	if p.LivePort <= 0 {
		p.LivePort = DefaultLivePort
	}
}

// PatternOrderOrDefault returns the configured pattern display list, or the
// built-in one.
func (p *Preferences) PatternOrderOrDefault() []string {
	if p == nil || len(p.PatternOrder) == 0 {
		return field.DefaultPatternOrder
	}
	return p.PatternOrder
}

// ColorFieldName returns the color endpoint name.
func (p *Preferences) ColorFieldName() string {
	if p == nil || p.ColorField == "" {
		return field.NameSolidColor
	}
	return p.ColorField
}

// DebounceDelay returns the debounce window as a duration.
func (p *Preferences) DebounceDelay() time.Duration {
	if p == nil || p.DebounceMillis <= 0 {
		return DefaultDebounceMillis * time.Millisecond
	}
	return time.Duration(p.DebounceMillis) * time.Millisecond
}

// DiscoverTimeoutDuration returns the mDNS timeout as a duration.
func (p *Preferences) DiscoverTimeoutDuration() time.Duration {
	if p == nil || p.DiscoverTimeout <= 0 {
		return DefaultDiscoverTimeout * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// GetDevice retrieves device metadata by key.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(key string) *Device {
	return r.Devices[key]
}

// EnsureDevice ensures a device entry exists in the registry.
// If the device doesn't exist, creates a new entry with default values.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(key string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[key]; exists {
		return device
	}

	device := &Device{}
	r.Devices[key] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp and address for a device.
func (r *Registry) UpdateDeviceLastSeen(key, address string, port int) {
	device := r.EnsureDevice(key)
	device.LastSeen = time.Now()
	device.LastAddress = address
	if port != 0 && port != 80 {
		device.Port = port
	} else {
		device.Port = 0
	}
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(key, nickname string) {
	device := r.EnsureDevice(key)
	device.Nickname = nickname
}

// Lookup resolves name to a stored device, matching the registry key first
// and then nicknames (case-insensitive).
func (r *Registry) Lookup(name string) (string, *Device) {
	if d, ok := r.Devices[name]; ok {
		return name, d
	}
	for key, d := range r.Devices {
		if d.Nickname != "" && strings.EqualFold(d.Nickname, name) {
			return key, d
		}
	}
	return "", nil
}
