// Package view holds the panel's control state: which button is highlighted,
// what the slider and text input show, which swatch is selected.
//
// Build turns decoded field entries into a Panel. Controls never talk to the
// controller themselves; selection methods return the value to send and the
// caller hands it to the dispatcher. Apply takes device-pushed values and
// updates the controls without producing anything to send.
//
// Nothing here is safe for concurrent use. The bubbletea update loop owns it.
package view
