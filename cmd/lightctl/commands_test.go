package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muurk/lightctl/internal/config"
	"github.com/muurk/lightctl/internal/discovery"
	"github.com/muurk/lightctl/internal/events"
	"github.com/muurk/lightctl/internal/palette"
)

const mockAll = `[
	{"name":"power","label":"Power","type":"Boolean","value":1},
	{"name":"brightness","label":"Brightness","type":"Number","value":50,"min":0,"max":255},
	{"name":"pattern","label":"Pattern","type":"Select","value":0,"options":["Pride","Unknown","Color Waves"]}
]`

func TestMain(m *testing.M) {
	// Keep the registry the commands load and save out of the real home.
	dir, err := os.MkdirTemp("", "lightctl-test")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Setenv("XDG_CONFIG_HOME", dir)

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type posted struct {
	path  string
	value string
	query string
}

func newFakeController(t *testing.T) (*httptest.Server, <-chan posted) {
	t.Helper()
	received := make(chan posted, 4)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/all" {
			_, _ = io.WriteString(w, mockAll)
			return
		}
		_ = r.ParseForm()
		received <- posted{path: r.URL.Path, value: r.PostForm.Get("value"), query: r.URL.RawQuery}
		_, _ = fmt.Fprintf(w, `{"name":%q}`, strings.TrimPrefix(r.URL.Path, "/"))
	}))
	t.Cleanup(server.Close)

	return server, received
}

// execute runs the root command. Flags are package globals, so every call
// passes the ones it relies on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func expectPost(t *testing.T, received <-chan posted) posted {
	t.Helper()
	select {
	case p := <-received:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no update received")
		return posted{}
	}
}

func TestParsePower(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"ON", true, false},
		{"1", true, false},
		{"true", true, false},
		{"off", false, false},
		{" 0 ", false, false},
		{"false", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePower(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePower(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parsePower(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	swatches := palette.Generate()

	tests := []struct {
		name    string
		in      string
		want    palette.RGB
		wantErr bool
	}{
		{name: "rgb", in: "rgb(255, 120, 0)", want: palette.RGB{R: 255, G: 120, B: 0}},
		{name: "hex", in: "#ff7800", want: palette.RGB{R: 255, G: 120, B: 0}},
		{name: "first swatch", in: "swatch:0", want: swatches[0].RGB()},
		{name: "last swatch", in: "swatch:249", want: swatches[249].RGB()},
		{name: "swatch out of range", in: "swatch:250", wantErr: true},
		{name: "swatch not a number", in: "swatch:x", wantErr: true},
		{name: "garbage", in: "orange", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func testResolver(registry *config.Registry, found []*discovery.Device) (*resolver, *[]string) {
	var finds []string
	r := newResolver(registry, io.Discard)
	r.scan = func(ctx context.Context, timeout time.Duration) ([]*discovery.Device, error) {
		return found, nil
	}
	r.find = func(ctx context.Context, name string, timeout time.Duration) (*discovery.Device, error) {
		finds = append(finds, name)
		for _, dev := range found {
			if dev.Matches(name) {
				return dev, nil
			}
		}
		return nil, errors.New("not found")
	}
	return r, &finds
}

func TestResolve(t *testing.T) {
	strip := &discovery.Device{Instance: "lightcontrol-a1b2", Hostname: "lightcontrol-a1b2.local.", IP: "192.168.1.20", Port: 80}
	desk := &discovery.Device{Instance: "esp-desk", Hostname: "esp-desk.local.", IP: "192.168.1.21", Port: 8080}

	stored := config.NewRegistry()
	stored.UpdateDeviceLastSeen("lightcontrol-a1b2.local", "192.168.1.30", 80)
	stored.SetDeviceNickname("lightcontrol-a1b2.local", "shelf")

	noDiscover := config.NewRegistry()
	noDiscover.Preferences.AutoDiscover = false

	withDefault := config.NewRegistry()
	withDefault.Preferences.DefaultDevice = "10.0.0.5"

	tests := []struct {
		name     string
		registry *config.Registry
		found    []*discovery.Device
		flags    targetFlags
		want     target
		wantErr  string
		wantFind bool
	}{
		{
			name:     "url",
			registry: config.NewRegistry(),
			flags:    targetFlags{URL: "http://192.168.10.1:8080", Device: "ignored"},
			want:     target{Key: "192.168.10.1", Host: "192.168.10.1", Port: 8080, URL: "http://192.168.10.1:8080"},
		},
		{
			name:     "bad url",
			registry: config.NewRegistry(),
			flags:    targetFlags{URL: "192.168.10.1"},
			wantErr:  "invalid --url",
		},
		{
			name:     "address",
			registry: config.NewRegistry(),
			flags:    targetFlags{Device: "192.168.10.1", Port: 80},
			want:     target{Key: "192.168.10.1", Host: "192.168.10.1", Port: 80},
		},
		{
			name:     "explicit port wins",
			registry: stored,
			flags:    targetFlags{Device: "shelf", Port: 81, PortSet: true},
			want:     target{Key: "lightcontrol-a1b2.local", Host: "192.168.1.30", Port: 81},
		},
		{
			name:     "nickname",
			registry: stored,
			flags:    targetFlags{Device: "shelf", Port: 80},
			want:     target{Key: "lightcontrol-a1b2.local", Host: "192.168.1.30", Port: 80},
		},
		{
			name:     "mdns name",
			registry: config.NewRegistry(),
			found:    []*discovery.Device{strip, desk},
			flags:    targetFlags{Device: "esp-desk", Port: 80},
			want:     target{Key: "esp-desk.local", Host: "192.168.1.21", Port: 8080},
			wantFind: true,
		},
		{
			name:     "default device",
			registry: withDefault,
			flags:    targetFlags{Port: 80},
			want:     target{Key: "10.0.0.5", Host: "10.0.0.5", Port: 80},
		},
		{
			name:     "single discovered",
			registry: config.NewRegistry(),
			found:    []*discovery.Device{strip},
			flags:    targetFlags{Port: 80},
			want:     target{Key: "lightcontrol-a1b2.local", Host: "192.168.1.20", Port: 80},
		},
		{
			name:     "none discovered",
			registry: config.NewRegistry(),
			flags:    targetFlags{Port: 80},
			wantErr:  "no controllers found",
		},
		{
			name:     "several discovered",
			registry: config.NewRegistry(),
			found:    []*discovery.Device{strip, desk},
			flags:    targetFlags{Port: 80},
			wantErr:  "multiple controllers",
		},
		{
			name:     "discovery disabled",
			registry: noDiscover,
			found:    []*discovery.Device{strip},
			flags:    targetFlags{Port: 80},
			wantErr:  "no controller given",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, finds := testResolver(tt.registry, tt.found)

			got, err := r.resolve(context.Background(), tt.flags)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("resolve() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
			if tt.wantFind != (len(*finds) > 0) {
				t.Errorf("mDNS lookups = %v, wantFind %v", *finds, tt.wantFind)
			}
		})
	}
}

func TestResolverRemember(t *testing.T) {
	registry := config.NewRegistry()
	r, _ := testResolver(registry, nil)

	r.remember(target{Key: "esp-desk.local", Host: "192.168.1.21", Port: 8080})

	dev := registry.GetDevice("esp-desk.local")
	if dev == nil || dev.LastAddress != "192.168.1.21" || dev.Port != 8080 {
		t.Fatalf("stored device = %+v", dev)
	}
	if dev.LastSeen.IsZero() {
		t.Error("LastSeen not set")
	}
}

func TestShowCommand(t *testing.T) {
	server, _ := newFakeController(t)

	tests := []struct {
		format string
		want   []string
	}{
		{"detailed", []string{"=== Controller Fields ===", "Brightness:", "0-255", "=== Patterns ===", "Color Waves"}},
		{"compact", []string{"Power:", "Brightness:", "50"}},
		{"json", []string{`"name": "brightness"`, `"max": 255`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := execute(t, "show", "--url", server.URL, "--format", tt.format)
			if err != nil {
				t.Fatalf("show error = %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
		})
	}

	if _, err := execute(t, "show", "--url", server.URL, "--format", "yaml"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestSetCommands(t *testing.T) {
	server, received := newFakeController(t)

	tests := []struct {
		name      string
		args      []string
		wantPath  string
		wantValue string
		wantQuery string
	}{
		{name: "power off", args: []string{"set", "power", "off"}, wantPath: "/power", wantValue: "0"},
		{name: "power on", args: []string{"set", "power", "on"}, wantPath: "/power", wantValue: "1"},
		{name: "brightness clamps", args: []string{"set", "brightness", "300"}, wantPath: "/brightness", wantValue: "255"},
		{name: "pattern name", args: []string{"set", "pattern", "Color", "Waves"}, wantPath: "/patternName", wantValue: "Color Waves"},
		{name: "pattern index", args: []string{"set", "pattern", "2"}, wantPath: "/pattern", wantValue: "2"},
		{name: "color", args: []string{"set", "color", "#ff7800"}, wantPath: "/solidColor", wantQuery: "b=0&g=120&r=255"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--url", server.URL)
			out, err := execute(t, args...)
			if err != nil {
				t.Fatalf("%v error = %v", tt.args, err)
			}

			p := expectPost(t, received)
			if p.path != tt.wantPath {
				t.Errorf("path = %q, want %q", p.path, tt.wantPath)
			}
			if tt.wantValue != "" && p.value != tt.wantValue {
				t.Errorf("value = %q, want %q", p.value, tt.wantValue)
			}
			if tt.wantQuery != "" && p.query != tt.wantQuery {
				t.Errorf("query = %q, want %q", p.query, tt.wantQuery)
			}
			if !strings.Contains(out, "SUCCESS") {
				t.Errorf("output missing result box:\n%s", out)
			}
		})
	}
}

func TestSetBrightnessRejectsText(t *testing.T) {
	server, received := newFakeController(t)

	if _, err := execute(t, "set", "brightness", "bright", "--url", server.URL); err == nil {
		t.Fatal("non-numeric brightness should fail")
	}
	select {
	case p := <-received:
		t.Errorf("unexpected update %+v", p)
	default:
	}
}

func TestSwatchesCommand(t *testing.T) {
	var grid bytes.Buffer
	if err := writeSwatches(&grid, "grid"); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(strings.TrimRight(grid.String(), "\n"), "\n") + 1; n != palette.Levels {
		t.Errorf("grid has %d rows, want %d", n, palette.Levels)
	}

	var list bytes.Buffer
	if err := writeSwatches(&list, "list"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(list.String(), "hsla(0, 100%, 20%, 1)") {
		t.Errorf("list missing first swatch:\n%s", list.String()[:200])
	}

	if err := writeSwatches(io.Discard, "table"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestPanelFallsBackToShow(t *testing.T) {
	server, _ := newFakeController(t)

	prev := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdoutIsTerminal = prev })
	outputFormat = "detailed"

	out, err := execute(t, "--url", server.URL)
	if err != nil {
		t.Fatalf("root command error = %v", err)
	}
	if !strings.Contains(out, "Brightness:") {
		t.Errorf("expected field listing, got:\n%s", out)
	}
}

func TestHintLines(t *testing.T) {
	lines := hintLines(errors.New("plain"))
	for _, line := range lines {
		if line == "Troubleshooting:" {
			t.Error("heading should be dropped")
		}
	}
}

func TestWatchConfigPublishesPatternOrder(t *testing.T) {
	path, err := config.GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}

	bus := events.New()
	orders := make(chan []string, 4)
	unsub := bus.Subscribe(func(e events.PatternOrderChangedEvent) { orders <- e.Order })
	defer unsub()

	stop := watchConfig(bus)
	if stop == nil {
		t.Fatal("watchConfig() did not start")
	}
	defer stop()

	reg := config.NewRegistry()
	reg.Preferences.PatternOrder = []string{"Fire", "Water"}
	if err := reg.SaveFile(path); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-orders:
		if len(got) != 2 || got[0] != "Fire" || got[1] != "Water" {
			t.Errorf("order = %v, want [Fire Water]", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no pattern order published after the config changed")
	}
}
