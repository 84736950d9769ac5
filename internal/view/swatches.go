package view

import (
	"github.com/muurk/lightctl/internal/palette"
)

// SwatchGrid is the fixed solid-color palette.
type SwatchGrid struct {
	// FieldName is the endpoint colors are posted to.
	FieldName string
	Swatches  []palette.Swatch

	// Selected is the highlighted swatch, or -1.
	Selected int
}

// NewSwatchGrid creates the palette grid posting to fieldName.
func NewSwatchGrid(fieldName string) *SwatchGrid {
	return &SwatchGrid{FieldName: fieldName, Swatches: palette.Generate(), Selected: -1}
}

// Name returns the color field name.
func (g *SwatchGrid) Name() string { return g.FieldName }

// Select highlights swatch i and returns the color to send.
func (g *SwatchGrid) Select(i int) (palette.RGB, bool) {
	if i < 0 || i >= len(g.Swatches) {
		return palette.RGB{}, false
	}
	g.Selected = i
	return g.Swatches[i].RGB(), true
}

// Clear removes the highlight.
func (g *SwatchGrid) Clear() {
	g.Selected = -1
}
