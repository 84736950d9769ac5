// Package logging provides structured logging for lightctl.
//
// It wraps a global zap logger with convenience functions and a few
// domain-specific helpers for device requests, field updates and live
// websocket traffic.
//
// # Silent by Default
//
// The interactive panel draws on the terminal, so logging is disabled unless
// LIGHTCTL_LOG_LEVEL (or the --log-level flag) is set. When logging the panel,
// also set LIGHTCTL_LOG_FILE so entries go to a file instead of stderr:
//
//	LIGHTCTL_LOG_LEVEL=debug LIGHTCTL_LOG_FILE=/tmp/lightctl.log lightctl
//
// # Structured Logging
//
//	logging.Info("Controller discovered",
//	    zap.String("host", "lightcontrol.local."),
//	    zap.String("ip", "192.168.10.1"),
//	)
//
// All functions are safe for concurrent use.
package logging
