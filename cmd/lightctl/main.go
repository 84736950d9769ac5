// Lightctl is a terminal control panel for LightControl LED strip
// controllers.
//
// It reads the controller's configurable fields (power, brightness, pattern),
// renders them as interactive terminal controls and sends each edit back to
// the controller. A palette of solid colors is available alongside the
// controller's animation patterns.
//
// Usage:
//
//	lightctl [command] [flags]
//
// Running without arguments launches the interactive panel.
// See 'lightctl --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/lightctl/internal/device"
	"github.com/muurk/lightctl/internal/logging"
	"github.com/muurk/lightctl/internal/ui"
	"github.com/muurk/lightctl/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints err, with troubleshooting advice when it came from the
// controller.
func reportError(err error) {
	var devErr *device.DeviceError
	if !errors.As(err, &devErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	p := ui.NewPrinter(os.Stderr)
	p.PrintError(device.ShortMessage(err), err, hintLines(err))
}

// hintLines splits a troubleshooting hint into box lines, dropping its own
// heading since the result box adds one.
func hintLines(err error) []string {
	var lines []string
	for _, line := range strings.Split(device.TroubleshootingHint(err), "\n") {
		if line != "Troubleshooting:" {
			lines = append(lines, line)
		}
	}
	return lines
}

var rootCmd = &cobra.Command{
	Use:   "lightctl",
	Short: "LightControl LED strip control panel",
	Long: `A terminal control panel for LightControl LED strip controllers.

Shows the controller's power, brightness and pattern as interactive controls
plus a palette of solid colors, and sends every change straight back to the
controller.

If no command is specified, the interactive panel launches automatically.
When stdout is not a terminal, the current state is printed instead.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(logLevel); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the panel when no subcommand provided
		return runPanel(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lightctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
