package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/lightctl/internal/config"
	"github.com/muurk/lightctl/internal/device"
	"github.com/muurk/lightctl/internal/discovery"
	"github.com/muurk/lightctl/internal/field"
	"github.com/muurk/lightctl/internal/logging"
	"github.com/muurk/lightctl/internal/palette"
	"github.com/muurk/lightctl/internal/ui"
	"github.com/muurk/lightctl/internal/view"
)

// Command flags
var (
	deviceName     string
	devicePort     int
	deviceURL      string
	logLevel       string
	metricsAddr    string
	liveSync       bool
	scanTimeout    int
	outputFormat   string
	swatchFormat   string
	requestTimeout time.Duration
)

func init() {
	// Common flags for device commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&deviceName, "device", "", "Controller address, nickname or mDNS name (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", device.DefaultPort, "Controller HTTP port")
	rootCmd.PersistentFlags().StringVar(&deviceURL, "url", "", "Controller base URL, e.g. http://192.168.10.1 (overrides --device)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logs go to $"+logging.LogFileEnvVar+" or stderr")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "request-timeout", device.DefaultTimeout, "HTTP request timeout")

	panelCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	panelCmd.Flags().BoolVar(&liveSync, "live", false, "Follow changes pushed by the controller over its websocket")
	rootCmd.Flags().AddFlagSet(panelCmd.Flags())

	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(swatchesCmd)
}

// loadRegistry returns the user's registry, or a default one when the file
// cannot be read. The commands work without a config file.
func loadRegistry() *config.Registry {
	registry, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Ignoring unreadable config file", zap.Error(err))
		return config.NewRegistry()
	}
	return registry
}

// resolveTarget picks the controller from flags, config or discovery. Any
// progress is written to stderr so stdout stays parseable.
func resolveTarget(cmd *cobra.Command, registry *config.Registry) (target, error) {
	r := newResolver(registry, cmd.ErrOrStderr())
	t, err := r.resolve(cmd.Context(), targetFlags{
		Device:  deviceName,
		URL:     deviceURL,
		Port:    devicePort,
		PortSet: cmd.Flags().Changed("port"),
	})
	if err != nil {
		return target{}, err
	}
	logging.Info("Using controller", zap.String("key", t.Key), zap.String("address", t.Label()))
	return t, nil
}

// rememberTarget stores where a controller was reached. Failing to save is
// not worth failing the command for.
func rememberTarget(registry *config.Registry, t target) {
	newResolver(registry, io.Discard).remember(t)
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
}

func newClient(t target) *device.Client {
	client := t.Client()
	client.SetTimeout(requestTimeout)
	return client
}

// scanCmd discovers controllers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for LightControl controllers on the network",
	Long: `Scan for LightControl controllers using mDNS/DNS-SD discovery.

Controllers advertise an HTTP service under a lightcontrol-*, esp8266-* or
esp-* hostname. Found controllers are remembered in the config file, so they
can be addressed by hostname later.`,
	Example: `  # Scan for 5 seconds (default)
  lightctl scan

  # Longer scan for slow networks
  lightctl scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", config.DefaultDiscoverTimeout, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for controllers (timeout: %ds)...\n\n", scanTimeout)

	devices, err := discovery.ScanForDevices(cmd.Context(), time.Duration(scanTimeout)*time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printDevices(out, devices)
	if len(devices) == 0 {
		return nil
	}

	registry := loadRegistry()
	for _, dev := range devices {
		registry.UpdateDeviceLastSeen(fromDiscovered(dev, targetFlags{}).Key, dev.IP, dev.Port)
	}
	if err := registry.Save(); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
	return nil
}

func printDevices(out io.Writer, devices []*discovery.Device) {
	if len(devices) == 0 {
		fmt.Fprintln(out, "No controllers found.")
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Ensure the controller is powered on and joined to your WiFi")
		fmt.Fprintln(out, "  - In AP mode, join LightControlAP and use --device 192.168.10.1")
		fmt.Fprintln(out, "  - Try increasing --timeout for slower networks")
		return
	}

	fmt.Fprintf(out, "Found %d controller(s):\n\n", len(devices))

	rows := make([][]string, len(devices))
	for i, dev := range devices {
		rows[i] = []string{dev.DisplayName(), dev.Hostname, fmt.Sprintf("%s:%d", dev.IP, dev.Port), dev.ID}
	}
	fmt.Fprint(out, ui.RenderTable([]string{"NAME", "HOSTNAME", "ADDRESS", "ID"}, rows))

	fmt.Fprintln(out, "\nUse 'lightctl --device <address>' to open the panel")
}

// showCmd prints the controller's current state
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the controller's fields",
	Long: `Print the controller's current power, brightness and pattern.

The detailed format also lists the patterns the panel would offer.`,
	Example: `  # Show with auto-discovery
  lightctl show

  # JSON output for scripting
  lightctl show --device 192.168.10.1 --format json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	registry := loadRegistry()
	t, err := resolveTarget(cmd, registry)
	if err != nil {
		return err
	}

	descriptors, err := newClient(t).All(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get fields from %s: %w", t.Label(), err)
	}
	rememberTarget(registry, t)

	return writeFields(cmd.OutOrStdout(), descriptors, outputFormat, registry.Preferences.PatternOrderOrDefault())
}

func writeFields(out io.Writer, descriptors []field.Descriptor, format string, order []string) error {
	switch format {
	case "compact":
		fmt.Fprint(out, field.FormatCompact(field.Decode(descriptors)))
	case "json":
		data, err := json.MarshalIndent(descriptors, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "detailed", "":
		fmt.Fprint(out, field.FormatDetailed(field.Decode(descriptors), order))
	default:
		return fmt.Errorf("unknown format %q (expected detailed, compact or json)", format)
	}
	return nil
}

// setCmd groups the direct update commands
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change a field on the controller",
	Long: `Send a single update to the controller without opening the panel.

Updates are sent once; a failure is reported and the exit status is 1.`,
}

func init() {
	setCmd.AddCommand(setPowerCmd, setBrightnessCmd, setPatternCmd, setColorCmd)
}

var setPowerCmd = &cobra.Command{
	Use:       "power on|off",
	Short:     "Turn the strip on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := parsePower(args[0])
		if err != nil {
			return err
		}
		t := view.NewToggle(&field.Descriptor{Name: field.NamePower})
		return sendValue(cmd, field.NamePower, t.Select(on))
	},
}

var setBrightnessCmd = &cobra.Command{
	Use:   "brightness N",
	Short: "Set the brightness, clamped to the controller's range",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetBrightness,
}

var setPatternCmd = &cobra.Command{
	Use:   "pattern NAME|INDEX",
	Short: "Select an animation pattern by name or device index",
	Example: `  lightctl set pattern "Color Waves"
  lightctl set pattern 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		if _, err := strconv.Atoi(name); err == nil {
			return sendValue(cmd, field.NamePattern, name)
		}
		return sendValue(cmd, field.NamePatternName, name)
	},
}

var setColorCmd = &cobra.Command{
	Use:   "color rgb(r, g, b)|#rrggbb|swatch:N",
	Short: "Show a solid color",
	Example: `  lightctl set color "rgb(255, 120, 0)"
  lightctl set color '#ff7800'
  lightctl set color swatch:42`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, err := parseColor(strings.Join(args, " "))
		if err != nil {
			return err
		}

		registry := loadRegistry()
		t, err := resolveTarget(cmd, registry)
		if err != nil {
			return err
		}

		name := registry.Preferences.ColorFieldName()
		reply, err := newClient(t).PostColor(cmd.Context(), name, color)
		if err != nil {
			return fmt.Errorf("failed to set %s on %s: %w", name, t.Label(), err)
		}
		rememberTarget(registry, t)

		printSet(cmd.OutOrStdout(), t, name, color.String(), reply.Text())
		return nil
	},
}

func runSetBrightness(cmd *cobra.Command, args []string) error {
	registry := loadRegistry()
	t, err := resolveTarget(cmd, registry)
	if err != nil {
		return err
	}
	client := newClient(t)

	// The controller's min/max/step apply exactly as they do in the panel.
	descriptors, err := client.All(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get fields from %s: %w", t.Label(), err)
	}
	entry := field.Find(field.Decode(descriptors), field.NameBrightness)
	if entry == nil {
		return fmt.Errorf("controller at %s has no %s field", t.Label(), field.NameBrightness)
	}

	value, err := view.NewRange(entry.Descriptor).SetInput(args[0])
	if err != nil {
		return err
	}
	return postValue(cmd, registry, t, client, field.NameBrightness, value)
}

func sendValue(cmd *cobra.Command, name, value string) error {
	registry := loadRegistry()
	t, err := resolveTarget(cmd, registry)
	if err != nil {
		return err
	}
	return postValue(cmd, registry, t, newClient(t), name, value)
}

func postValue(cmd *cobra.Command, registry *config.Registry, t target, client *device.Client, name, value string) error {
	reply, err := client.PostValue(cmd.Context(), name, value)
	if err != nil {
		return fmt.Errorf("failed to set %s on %s: %w", name, t.Label(), err)
	}
	rememberTarget(registry, t)

	printSet(cmd.OutOrStdout(), t, name, value, reply.Text())
	return nil
}

func printSet(out io.Writer, t target, name, value, reply string) {
	result := ui.NewSuccessResult("Set " + name).
		AddDetail("Controller", t.Label()).
		AddDetail("Value", value).
		AddDetail("Reply", reply)
	ui.NewPrinter(out).PrintResult(result)
}

func parsePower(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid power state %q (expected on or off)", s)
}

// parseColor accepts rgb(r, g, b), #rrggbb or swatch:N.
func parseColor(s string) (palette.RGB, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "swatch:"); ok {
		swatches := palette.Generate()
		i, err := strconv.Atoi(rest)
		if err != nil || i < 0 || i >= len(swatches) {
			return palette.RGB{}, fmt.Errorf("invalid swatch %q (expected 0-%d)", rest, len(swatches)-1)
		}
		return swatches[i].RGB(), nil
	}

	color, err := palette.Parse(s)
	if err != nil {
		return palette.RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color, nil
}

// swatchesCmd prints the palette
var swatchesCmd = &cobra.Command{
	Use:   "swatches",
	Short: "Print the solid color palette",
	Long: `Print the panel's solid color palette: 25 hues at 10 lightness levels,
fully saturated. Use the index with 'lightctl set color swatch:N'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeSwatches(cmd.OutOrStdout(), swatchFormat)
	},
}

func init() {
	swatchesCmd.Flags().StringVar(&swatchFormat, "format", "grid", "Output format (grid, list)")
}

func writeSwatches(out io.Writer, format string) error {
	swatches := palette.Generate()
	switch format {
	case "grid":
		fmt.Fprint(out, ui.RenderSwatchGrid(swatches, palette.Hues))
	case "list":
		rows := make([][]string, len(swatches))
		for i, s := range swatches {
			rgb := s.RGB()
			rows[i] = []string{strconv.Itoa(s.Index), s.CSS(), rgb.String(), rgb.Hex()}
		}
		fmt.Fprint(out, ui.RenderTable([]string{"INDEX", "HSL", "RGB", "HEX"}, rows))
	default:
		return fmt.Errorf("unknown format %q (expected grid or list)", format)
	}
	return nil
}
