package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/lightctl/internal/logging"
)

const (
	// ServiceType is the mDNS service type the controller's web server
	// advertises
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default HTTP port for controllers
	DefaultPort = 80
)

// DefaultHostPattern matches the hostnames ESP8266 controllers use, e.g.
// "lightcontrol.local.", "lightcontrol-3f2a1c.local." or "esp-3f2a1c.local.".
// The optional suffix is captured as the device ID.
var DefaultHostPattern = regexp.MustCompile(`(?i)^(?:lightcontrol|esp8266|esp)(?:[-_]([0-9a-z]+))?\.local\.?$`)

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration

	// HostPattern selects which advertised hosts are controllers. A nil
	// pattern accepts every HTTP service.
	HostPattern *regexp.Regexp
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:     DefaultScanTimeout,
		HostPattern: DefaultHostPattern,
	}
}

// Scan discovers all controllers on the local network until the timeout
// elapses or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	var mu sync.Mutex
	devices := make([]*Device, 0)
	seen := make(map[string]bool)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			device := s.parseServiceEntry(entry)
			if device == nil {
				continue
			}
			key := device.Hostname + "|" + device.IP
			mu.Lock()
			if !seen[key] {
				seen[key] = true
				devices = append(devices, device)
				logging.Debug("Discovered controller",
					zap.String("hostname", device.Hostname),
					zap.String("ip", device.IP),
					zap.Int("port", device.Port),
				)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]*Device(nil), devices...), nil
}

// Find waits for a controller whose instance name, hostname or ID equals
// name (case-insensitive).
func (s *Scanner) Find(ctx context.Context, name string) (*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	deviceChan := make(chan *Device, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			device := s.parseServiceEntry(entry)
			if device != nil && device.Matches(name) {
				select {
				case deviceChan <- device:
				default:
				}
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case device := <-deviceChan:
		return device, nil
	case <-ctx.Done():
		select {
		case device := <-deviceChan:
			return device, nil
		default:
		}
		return nil, fmt.Errorf("controller %q not found within %s", name, s.Timeout)
	}
}

// Matches reports whether name identifies the device.
func (d *Device) Matches(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".")
	for _, candidate := range []string{d.Instance, d.Hostname, d.ID} {
		c := strings.TrimSuffix(strings.ToLower(candidate), ".")
		if c != "" && (c == name || strings.TrimSuffix(c, ".local") == name) {
			return true
		}
	}
	return false
}

// parseServiceEntry converts a zeroconf service entry to a Device
// Returns nil if the entry is not a controller
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}

	var id string
	if s.HostPattern != nil {
		matches := s.HostPattern.FindStringSubmatch(hostname)
		if matches == nil {
			return nil
		}
		if len(matches) > 1 {
			id = strings.ToLower(matches[1])
		}
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Device{
		Instance:     entry.Instance,
		Hostname:     hostname,
		ID:           id,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForDevices is a convenience function to scan for devices with a custom timeout
func ScanForDevices(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}

// QuickScan performs a fast scan with a 2-second timeout
func QuickScan(ctx context.Context) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = 2 * time.Second
	return scanner.Scan(ctx)
}
