package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/lightctl/internal/field"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}

	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(base, "lightctl"); configDir != want {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, want)
	}
}

func TestGetConfigDir_HomeFallback(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses LOCALAPPDATA on Windows")
	}

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(home, ".config", "lightctl"); configDir != want {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if !reg.Preferences.AutoDiscover {
		t.Error("AutoDiscover should be true by default")
	}
	if reg.Preferences.DebounceDelay() != 300*time.Millisecond {
		t.Errorf("DebounceDelay() = %v, want 300ms", reg.Preferences.DebounceDelay())
	}
	if reg.Preferences.LivePort != 81 {
		t.Errorf("LivePort = %d, want 81", reg.Preferences.LivePort)
	}
}

func TestPreferences_Fallbacks(t *testing.T) {
	var nilPrefs *Preferences

	if got := nilPrefs.PatternOrderOrDefault(); !reflect.DeepEqual(got, field.DefaultPatternOrder) {
		t.Error("nil preferences should use the built-in pattern order")
	}
	if got := nilPrefs.ColorFieldName(); got != field.NameSolidColor {
		t.Errorf("ColorFieldName() = %q", got)
	}
	if got := nilPrefs.DiscoverTimeoutDuration(); got != 5*time.Second {
		t.Errorf("DiscoverTimeoutDuration() = %v", got)
	}

	p := &Preferences{PatternOrder: []string{"Fire"}, ColorField: "rgb", DebounceMillis: 50}
	if got := p.PatternOrderOrDefault(); !reflect.DeepEqual(got, []string{"Fire"}) {
		t.Errorf("PatternOrderOrDefault() = %v", got)
	}
	if got := p.ColorFieldName(); got != "rgb" {
		t.Errorf("ColorFieldName() = %q", got)
	}
	if got := p.DebounceDelay(); got != 50*time.Millisecond {
		t.Errorf("DebounceDelay() = %v", got)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := &Registry{}

	device := reg.EnsureDevice("192.168.1.42")
	if device == nil {
		t.Fatal("EnsureDevice() returned nil")
	}
	if again := reg.EnsureDevice("192.168.1.42"); again != device {
		t.Error("EnsureDevice() should return the existing entry")
	}
}

func TestRegistryUpdateDeviceLastSeen(t *testing.T) {
	reg := NewRegistry()
	reg.UpdateDeviceLastSeen("3f2a1c", "192.168.1.42", 80)

	device := reg.GetDevice("3f2a1c")
	if device.LastAddress != "192.168.1.42" || device.Port != 0 {
		t.Errorf("device = %+v", device)
	}
	if time.Since(device.LastSeen) > time.Second {
		t.Error("LastSeen should be recent")
	}

	reg.UpdateDeviceLastSeen("3f2a1c", "192.168.1.43", 8080)
	if device.Port != 8080 {
		t.Errorf("Port = %d, want 8080", device.Port)
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	reg.SetDeviceNickname("192.168.1.42", "Porch")

	if key, d := reg.Lookup("porch"); key != "192.168.1.42" || d == nil {
		t.Errorf("Lookup(porch) = %q, %v", key, d)
	}
	if key, d := reg.Lookup("192.168.1.42"); key != "192.168.1.42" || d == nil {
		t.Errorf("Lookup(key) = %q, %v", key, d)
	}
	if _, d := reg.Lookup("garage"); d != nil {
		t.Error("Lookup(garage) should miss")
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.SetDeviceNickname("192.168.1.42", "Porch")
	reg.Preferences.PatternOrder = []string{"Fire", "Water"}
	reg.Preferences.LiveSync = true

	if err := reg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# lightctl configuration file") {
		t.Error("saved file should start with the header comment")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if d := loaded.GetDevice("192.168.1.42"); d == nil || d.Nickname != "Porch" {
		t.Errorf("loaded device = %+v", d)
	}
	if !reflect.DeepEqual(loaded.Preferences.PatternOrder, []string{"Fire", "Water"}) {
		t.Errorf("PatternOrder = %v", loaded.Preferences.PatternOrder)
	}
	if !loaded.Preferences.LiveSync {
		t.Error("LiveSync should round-trip")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, r *Registry)
	}{
		{
			name:    "zero preferences get defaults",
			content: "version: 1\npreferences:\n  auto_discover: false\n",
			check: func(t *testing.T, r *Registry) {
				if r.Preferences.AutoDiscover {
					t.Error("AutoDiscover should stay false")
				}
				if r.Preferences.DebounceMillis != 300 || r.Preferences.DiscoverTimeout != 5 {
					t.Errorf("preferences = %+v", r.Preferences)
				}
			},
		},
		{
			name:    "missing preferences",
			content: "version: 1\n",
			check: func(t *testing.T, r *Registry) {
				if r.Preferences == nil || r.Devices == nil {
					t.Error("normalize should fill preferences and devices")
				}
			},
		},
		{name: "wrong version", content: "version: 2\n", wantErr: true},
		{name: "invalid yaml", content: "version: [1\n", wantErr: true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "config"+string(rune('a'+i))+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			reg, err := LoadFile(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, reg)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	reg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if reg.Version != 1 {
		t.Error("missing file should yield a default registry")
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice("192.168.1.42")
	}
}
