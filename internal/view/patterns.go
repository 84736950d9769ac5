package view

import (
	"github.com/muurk/lightctl/internal/field"
)

// PatternGrid is one button per displayable pattern.
type PatternGrid struct {
	Field    *field.Descriptor
	Patterns []field.Pattern

	// Active is the highlighted button's position in Patterns, or -1.
	Active int
}

// NewPatternGrid creates the grid for d, showing the controller's options
// that appear in order.
func NewPatternGrid(d *field.Descriptor, order []string) *PatternGrid {
	g := &PatternGrid{Field: d}
	g.SetOrder(order)
	return g
}

// Name returns the field name.
func (g *PatternGrid) Name() string { return g.Field.Name }

// Labels returns the button labels in display order.
func (g *PatternGrid) Labels() []string {
	labels := make([]string, len(g.Patterns))
	for i, p := range g.Patterns {
		labels[i] = p.Name
	}
	return labels
}

// SetOrder rebuilds the buttons for a new display order. The highlight
// follows the field value.
func (g *PatternGrid) SetOrder(order []string) {
	g.Patterns = field.FilterPatterns(g.Field.Options, order)
	g.Active = field.ActivePattern(g.Patterns, g.Field.Value)
}

// Select highlights button i and returns the pattern name to send.
func (g *PatternGrid) Select(i int) (string, bool) {
	if i < 0 || i >= len(g.Patterns) {
		return "", false
	}
	g.Active = i
	g.Field.Value = field.NumberValue(float64(g.Patterns[i].DeviceIndex))
	return g.Patterns[i].Name, true
}

// Clear removes the highlight without touching the field value.
func (g *PatternGrid) Clear() {
	g.Active = -1
}

// Apply stores a device-pushed pattern index and moves the highlight.
func (g *PatternGrid) Apply(v field.Value) {
	g.Field.Value = v
	g.Active = field.ActivePattern(g.Patterns, v)
}
