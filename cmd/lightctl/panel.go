package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/lightctl/internal/config"
	"github.com/muurk/lightctl/internal/dispatch"
	"github.com/muurk/lightctl/internal/events"
	"github.com/muurk/lightctl/internal/livesync"
	"github.com/muurk/lightctl/internal/logging"
	"github.com/muurk/lightctl/internal/panel"
	"github.com/muurk/lightctl/internal/ui"
)

// panelCmd launches the interactive control panel
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Launch the interactive control panel (default)",
	Long: `Launch the interactive control panel.

The panel loads every field from the controller, then shows:
- An On/Off power toggle, sent as soon as it is pressed
- A brightness slider with a numeric input, sent once the value settles
- A grid of animation patterns
- A palette of 250 solid colors

Status messages reflect each update as the controller acknowledges it.`,
	Example: `  # Launch with auto-discovery
  lightctl panel
  # Or simply (panel is default):
  lightctl

  # Launch for a specific controller, following changes made elsewhere
  lightctl --device 192.168.10.1 --live

  # Expose update metrics while the panel runs
  lightctl --metrics-addr :9090`,
	RunE: runPanel,
}

// stdoutIsTerminal is swapped in tests.
var stdoutIsTerminal = func() bool { return ui.IsTerminal(os.Stdout) }

func runPanel(cmd *cobra.Command, args []string) error {
	if !stdoutIsTerminal() {
		logging.Info("stdout is not a terminal, printing fields instead of the panel")
		return runShow(cmd, args)
	}

	registry := loadRegistry()
	t, err := resolveTarget(cmd, registry)
	if err != nil {
		return err
	}
	rememberTarget(registry, t)
	prefs := registry.Preferences

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	bus := events.New()
	client := newClient(t)
	dispatcher := dispatch.New(client, bus, dispatch.WithDelay(prefs.DebounceDelay()))
	defer dispatcher.Stop()

	live := prefs.LiveSync
	if cmd.Flags().Changed("live") {
		live = liveSync
	}
	if live {
		listener := livesync.New(t.Host, prefs.LivePort, bus)
		go func() {
			if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logging.Warn("Live sync stopped", zap.Error(err))
			}
		}()
	}

	if stop := watchConfig(bus); stop != nil {
		defer stop()
	}

	if metricsAddr != "" {
		srv := serveMetrics(metricsAddr)
		defer shutdown(srv)
	}

	model := panel.New(panel.Config{
		Fetcher:      client,
		Dispatcher:   dispatcher,
		Bus:          bus,
		Target:       t.Label(),
		PatternOrder: prefs.PatternOrderOrDefault(),
		ColorField:   prefs.ColorFieldName(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("panel error: %w", err)
	}
	return nil
}

// watchConfig republishes the pattern list whenever the config file
// changes, and reports a file that no longer parses on the status line. It
// returns nil when the file cannot be watched.
func watchConfig(bus *events.Bus) func() {
	path, err := config.GetConfigPath()
	if err != nil {
		logging.Debug("Config watch disabled", zap.Error(err))
		return nil
	}

	w := config.NewRegistryWatcher(path, func(r *config.Registry) {
		bus.Publish(events.PatternOrderChangedEvent{Order: r.Preferences.PatternOrderOrDefault()})
	}, config.WithErrorHandler(func(err error) {
		bus.Publish(events.StatusEvent{Text: "Fail: config reload: " + err.Error(), Level: events.StatusFailure, Timestamp: time.Now()})
	}))
	if err := w.Start(); err != nil {
		logging.Debug("Config watch disabled", zap.String("path", path), zap.Error(err))
		return nil
	}

	return func() {
		if err := w.Stop(); err != nil {
			logging.Debug("Config watcher stop failed", zap.Error(err))
		}
	}
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logging.Info("Serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Debug("Metrics server shutdown failed", zap.Error(err))
	}
}
