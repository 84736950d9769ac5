// Package ui renders the non-interactive output of the lightctl CLI.
//
// Commands print through a Printer: result boxes for `set`, aligned tables
// for `scan` and `show`, and the colored palette for `swatches`. Unlike the
// panel, nothing here reads input.
//
// # Logging Integration
//
// This package expects logging to be controlled via the LIGHTCTL_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated output to be displayed cleanly.
package ui
