package view

import (
	"github.com/muurk/lightctl/internal/field"
	"github.com/muurk/lightctl/internal/palette"
)

// Control is one focusable element of the panel.
type Control interface {
	Name() string
}

// Panel is the whole view tree.
type Panel struct {
	// Controls are in controller order, with the swatch grid last.
	Controls []Control

	Patterns *PatternGrid // nil when the controller has no pattern field
	Swatches *SwatchGrid
}

// Build creates one control per entry, dispatching on its kind, and
// appends the swatch grid. Unknown kinds are skipped.
func Build(entries []field.Entry, order []string, colorField string) *Panel {
	p := &Panel{Swatches: NewSwatchGrid(colorField)}

	for _, e := range entries {
		switch e.Kind {
		case field.KindBoolean:
			p.Controls = append(p.Controls, NewToggle(e.Descriptor))
		case field.KindNumber:
			p.Controls = append(p.Controls, NewRange(e.Descriptor))
		case field.KindPattern:
			p.Patterns = NewPatternGrid(e.Descriptor, order)
			p.Controls = append(p.Controls, p.Patterns)
		}
	}

	p.Controls = append(p.Controls, p.Swatches)
	return p
}

// Control returns the control for a field name, or nil.
func (p *Panel) Control(name string) Control {
	for _, c := range p.Controls {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// SelectPattern highlights pattern button i, clearing any swatch selection,
// and returns the pattern name to send.
func (p *Panel) SelectPattern(i int) (string, bool) {
	if p.Patterns == nil {
		return "", false
	}
	name, ok := p.Patterns.Select(i)
	if ok {
		p.Swatches.Clear()
	}
	return name, ok
}

// SelectSwatch highlights swatch i, clearing the pattern highlight, and
// returns the color to send.
func (p *Panel) SelectSwatch(i int) (palette.RGB, bool) {
	rgb, ok := p.Swatches.Select(i)
	if ok && p.Patterns != nil {
		p.Patterns.Clear()
	}
	return rgb, ok
}

// SetPatternOrder rebuilds the pattern buttons for a new display order.
func (p *Panel) SetPatternOrder(order []string) {
	if p.Patterns != nil {
		p.Patterns.SetOrder(order)
	}
}

// Apply stores a device-pushed value for name. It reports whether any
// control showed that field.
func (p *Panel) Apply(name string, v field.Value) bool {
	switch c := p.Control(name).(type) {
	case *Toggle:
		c.Apply(v)
	case *Range:
		c.Apply(v)
	case *PatternGrid:
		c.Apply(v)
		p.Swatches.Clear()
	default:
		return false
	}
	return true
}
