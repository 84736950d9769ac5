package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/lightctl/internal/config"
	"github.com/muurk/lightctl/internal/device"
	"github.com/muurk/lightctl/internal/discovery"
	"github.com/muurk/lightctl/internal/logging"
)

// target is the controller a command talks to.
type target struct {
	// Key identifies the controller in the registry.
	Key  string
	Host string
	Port int

	// URL overrides Host and Port when --url was given.
	URL string
}

// Label names the controller for headers and messages.
func (t target) Label() string {
	if t.URL != "" {
		return t.URL
	}
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// Client returns an HTTP client for the controller.
func (t target) Client() *device.Client {
	if t.URL != "" {
		return device.NewClientWithURL(t.URL)
	}
	return device.NewClient(t.Host, t.Port)
}

// targetFlags are the command line choices that pick a controller.
type targetFlags struct {
	Device  string
	URL     string
	Port    int
	PortSet bool
}

// resolver turns targetFlags into a target, consulting the registry and
// falling back to mDNS discovery.
type resolver struct {
	registry *config.Registry
	out      io.Writer

	scan func(ctx context.Context, timeout time.Duration) ([]*discovery.Device, error)
	find func(ctx context.Context, name string, timeout time.Duration) (*discovery.Device, error)
}

func newResolver(registry *config.Registry, out io.Writer) *resolver {
	return &resolver{
		registry: registry,
		out:      out,
		scan:     discovery.ScanForDevices,
		find: func(ctx context.Context, name string, timeout time.Duration) (*discovery.Device, error) {
			s := discovery.NewScanner()
			s.Timeout = timeout
			return s.Find(ctx, name)
		},
	}
}

func (r *resolver) resolve(ctx context.Context, flags targetFlags) (target, error) {
	prefs := r.registry.Preferences

	if flags.URL != "" {
		u, err := url.Parse(flags.URL)
		if err != nil || u.Host == "" {
			return target{}, fmt.Errorf("invalid --url %q: expected e.g. http://192.168.10.1", flags.URL)
		}
		port, _ := strconv.Atoi(u.Port())
		if port == 0 {
			port = device.DefaultPort
		}
		return target{Key: u.Hostname(), Host: u.Hostname(), Port: port, URL: flags.URL}, nil
	}

	name := flags.Device
	if name == "" && prefs != nil {
		name = prefs.DefaultDevice
	}
	if name != "" {
		return r.named(ctx, name, flags)
	}

	if prefs != nil && !prefs.AutoDiscover {
		return target{}, fmt.Errorf("no controller given. Use --device or --url, or set default_device in the config file")
	}
	return r.discover(ctx, flags)
}

// named resolves a registry key, nickname, address or mDNS name.
func (r *resolver) named(ctx context.Context, name string, flags targetFlags) (target, error) {
	if key, stored := r.registry.Lookup(name); stored != nil && stored.LastAddress != "" {
		logging.Debug("Using stored controller", zap.String("key", key), zap.String("address", stored.LastAddress))
		return target{Key: key, Host: stored.LastAddress, Port: pickPort(flags, stored.Port)}, nil
	}

	if looksLikeAddress(name) {
		return target{Key: name, Host: name, Port: pickPort(flags, 0)}, nil
	}

	fmt.Fprintf(r.out, "Looking for %s on the network...\n", name)
	dev, err := r.find(ctx, name, r.registry.Preferences.DiscoverTimeoutDuration())
	if err != nil {
		return target{}, fmt.Errorf("discovery failed: %w", err)
	}
	return fromDiscovered(dev, flags), nil
}

func (r *resolver) discover(ctx context.Context, flags targetFlags) (target, error) {
	fmt.Fprintln(r.out, "No controller specified, attempting auto-discovery...")

	devices, err := r.scan(ctx, r.registry.Preferences.DiscoverTimeoutDuration())
	if err != nil {
		return target{}, fmt.Errorf("discovery failed: %w", err)
	}

	switch len(devices) {
	case 0:
		return target{}, fmt.Errorf("no controllers found. Use --device to specify the address manually (192.168.10.1 in AP mode)")
	case 1:
		dev := devices[0]
		fmt.Fprintf(r.out, "Found controller: %s (%s)\n", dev.DisplayName(), dev.IP)
		return fromDiscovered(dev, flags), nil
	default:
		fmt.Fprintf(r.out, "Found %d controllers:\n", len(devices))
		for i, dev := range devices {
			fmt.Fprintf(r.out, "%d. %s (%s)\n", i+1, dev.DisplayName(), dev.IP)
		}
		return target{}, fmt.Errorf("multiple controllers found. Use --device to specify which one")
	}
}

// remember records where the controller was reached.
func (r *resolver) remember(t target) {
	if t.Key == "" {
		return
	}
	r.registry.UpdateDeviceLastSeen(t.Key, t.Host, t.Port)
}

func fromDiscovered(dev *discovery.Device, flags targetFlags) target {
	key := strings.TrimSuffix(dev.Hostname, ".")
	if key == "" {
		key = dev.IP
	}
	return target{Key: key, Host: dev.IP, Port: pickPort(flags, dev.Port)}
}

// pickPort prefers an explicit --port, then a known port, then the default.
func pickPort(flags targetFlags, known int) int {
	switch {
	case flags.PortSet && flags.Port > 0:
		return flags.Port
	case known > 0:
		return known
	case flags.Port > 0:
		return flags.Port
	default:
		return device.DefaultPort
	}
}

func looksLikeAddress(name string) bool {
	return net.ParseIP(name) != nil || strings.Contains(name, ".")
}
