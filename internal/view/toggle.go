package view

import (
	"github.com/muurk/lightctl/internal/field"
)

// Toggle is a pair of mutually exclusive On/Off buttons for a boolean field.
type Toggle struct {
	Field *field.Descriptor
}

// NewToggle creates a toggle for d.
func NewToggle(d *field.Descriptor) *Toggle {
	return &Toggle{Field: d}
}

// Name returns the field name.
func (t *Toggle) Name() string { return t.Field.Name }

// On reports whether the On button is highlighted. It follows the field
// value's truthiness.
func (t *Toggle) On() bool {
	return t.Field.Value.Truthy()
}

// Select sets the field to 1 (on) or 0 (off) and returns the value to send.
func (t *Toggle) Select(on bool) string {
	v := 0.0
	if on {
		v = 1
	}
	t.Field.Value = field.NumberValue(v)
	return t.Field.Value.String()
}

// Flip selects whichever button is not highlighted.
func (t *Toggle) Flip() string {
	return t.Select(!t.On())
}

// Apply stores a device-pushed value.
func (t *Toggle) Apply(v field.Value) {
	t.Field.Value = v
}
