package discovery

import (
	"testing"
)

func TestDevice_String(t *testing.T) {
	device := &Device{
		Instance: "LightControl",
		Hostname: "lightcontrol-3f2a1c.local.",
		IP:       "192.168.1.42",
		Port:     80,
	}

	expected := "LightControl LightControl (lightcontrol-3f2a1c.local.) at 192.168.1.42:80"
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDevice_DisplayName(t *testing.T) {
	if got := (&Device{Hostname: "esp-1.local."}).DisplayName(); got != "esp-1.local." {
		t.Errorf("DisplayName() = %q, want hostname fallback", got)
	}
}

func TestDevice_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{"standard HTTP port", &Device{IP: "192.168.4.16", Port: 80}, "http://192.168.4.16:80"},
		{"custom port", &Device{IP: "10.0.0.5", Port: 8080}, "http://10.0.0.5:8080"},
		{"ipv6", &Device{IP: "fe80::1", Port: 80}, "http://[fe80::1]:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.BaseURL(); got != tt.expected {
				t.Errorf("Device.BaseURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDevice_Matches(t *testing.T) {
	device := &Device{Instance: "Porch Lights", Hostname: "lightcontrol-3f2a1c.local.", ID: "3f2a1c"}

	tests := []struct {
		name string
		want bool
	}{
		{"porch lights", true},
		{"lightcontrol-3f2a1c", true},
		{"lightcontrol-3f2a1c.local", true},
		{"LIGHTCONTROL-3F2A1C.local.", true},
		{"3f2a1c", true},
		{"lightcontrol", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := device.Matches(tt.name); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDevice_GetMetadata(t *testing.T) {
	device := &Device{Metadata: map[string]string{"path": "/"}}

	if got := device.GetMetadata("path"); got != "/" {
		t.Errorf("GetMetadata(path) = %q", got)
	}
	if got := device.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %q", got)
	}
	if got := (&Device{}).GetMetadata("anything"); got != "" {
		t.Errorf("GetMetadata() with nil map = %q", got)
	}
}
