package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantID   string
		wantIP   string
		wantPort int
	}{
		{
			name: "lightcontrol host with chip suffix",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "LightControl"},
				HostName:      "lightcontrol-3f2a1c.local.",
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.42")},
				Text:          []string{"path=/"},
			},
			wantID:   "3f2a1c",
			wantIP:   "192.168.1.42",
			wantPort: 80,
		},
		{
			name: "plain lightcontrol host without trailing dot",
			entry: &zeroconf.ServiceEntry{
				HostName: "lightcontrol.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantIP:   "10.0.0.5",
			wantPort: 80,
		},
		{
			name: "esp8266 default hostname, custom port",
			entry: &zeroconf.ServiceEntry{
				HostName: "ESP-A1B2C3.local.",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.100")},
			},
			wantID:   "a1b2c3",
			wantIP:   "192.168.1.100",
			wantPort: 8080,
		},
		{
			name: "no port specified (should default to 80)",
			entry: &zeroconf.ServiceEntry{
				HostName: "esp8266-01.local",
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantID:   "01",
			wantIP:   "172.16.0.1",
			wantPort: 80,
		},
		{
			name: "other http service",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "prefix lookalike",
			entry: &zeroconf.ServiceEntry{
				HostName: "espresso.local.",
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.9")},
			},
			wantNil: true,
		},
		{
			name: "empty hostname",
			entry: &zeroconf.ServiceEntry{
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				HostName: "lightcontrol.local.",
				Port:     80,
			},
			wantNil: true,
		},
		{
			name: "IPv6 only device",
			entry: &zeroconf.ServiceEntry{
				HostName: "lightcontrol-2.local.",
				Port:     80,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantID:   "2",
			wantIP:   "fe80::1",
			wantPort: 80,
		},
		{
			name: "both IPv4 and IPv6 (should prefer IPv4)",
			entry: &zeroconf.ServiceEntry{
				HostName: "lightcontrol-3.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantID:   "3",
			wantIP:   "192.168.1.50",
			wantPort: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}

			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil device")
			}
			if device.ID != tt.wantID {
				t.Errorf("device.ID = %v, want %v", device.ID, tt.wantID)
			}
			if device.IP != tt.wantIP {
				t.Errorf("device.IP = %v, want %v", device.IP, tt.wantIP)
			}
			if device.Port != tt.wantPort {
				t.Errorf("device.Port = %v, want %v", device.Port, tt.wantPort)
			}
			if device.Hostname != tt.entry.HostName {
				t.Errorf("device.Hostname = %v, want %v", device.Hostname, tt.entry.HostName)
			}
			if time.Since(device.DiscoveredAt) > time.Second {
				t.Errorf("device.DiscoveredAt is not recent: %v", device.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_AnyHost(t *testing.T) {
	scanner := NewScanner()
	scanner.HostPattern = nil

	device := scanner.parseServiceEntry(&zeroconf.ServiceEntry{
		HostName: "living-room-leds.local.",
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.77")},
	})
	if device == nil {
		t.Fatal("nil HostPattern should accept any host")
	}
	if device.ID != "" {
		t.Errorf("device.ID = %q, want empty", device.ID)
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		HostName: "lightcontrol.local",
		Port:     80,
		AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
		Text:     []string{"path=/", "board=d1_mini", "flag", "version=1.0"},
	}

	device := scanner.parseServiceEntry(entry)
	if device == nil {
		t.Fatal("parseServiceEntry() = nil, want device")
	}

	expectedMetadata := map[string]string{
		"path":    "/",
		"board":   "d1_mini",
		"flag":    "",
		"version": "1.0",
	}

	if len(device.Metadata) != len(expectedMetadata) {
		t.Errorf("device.Metadata has %d entries, want %d", len(device.Metadata), len(expectedMetadata))
	}
	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := device.Metadata[key]; !ok {
			t.Errorf("device.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("device.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
	if scanner.HostPattern != DefaultHostPattern {
		t.Error("HostPattern should default to DefaultHostPattern")
	}
}
