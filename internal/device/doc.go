// Package device is an HTTP client for the LightControl LED controller.
//
// The controller exposes a small REST-like API:
//
//	GET  /all                     JSON array of field descriptors
//	POST /<field>                 form body name=<field>&value=<v>
//	POST /<color>?r=..&g=..&b=..  form body name, r, g, b
//
// Update replies are either a JSON object echoing the field name or plain
// text. See Reply.
//
// # Retries
//
// Only the field list fetch (All) is retried, with exponential backoff.
// Updates are sent exactly once; the dispatcher decides what to do with a
// failure.
//
// # Errors
//
// All methods return *DeviceError values classified by ErrorType, so callers
// can pick a short status line (ShortMessage, StatusText) or a longer hint
// for the CLI (TroubleshootingHint).
package device
