package palette

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Swatch grid geometry
const (
	Hues          = 25
	Levels        = 10
	MinLightness  = 20.0
	LightnessSpan = 60.0
	Saturation    = 100.0
)

// ErrMalformedColor is returned when a color string does not match the
// expected textual form.
var ErrMalformedColor = errors.New("malformed color")

var (
	rgbPattern = regexp.MustCompile(`^rgb\((\d+),\s*(\d+),\s*(\d+)\)$`)
	hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)
)

// RGB is a color as 8-bit components.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// String returns the color in the browser-native rgb(r, g, b) form.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Components returns "r,g,b", the form used in status messages.
func (c RGB) Components() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return "#" + componentToHex(c.R) + componentToHex(c.G) + componentToHex(c.B)
}

func componentToHex(c int) string {
	h := strconv.FormatInt(int64(c), 16)
	if len(h) == 1 {
		return "0" + h
	}
	return h
}

// ParseRGB parses the rgb(r, g, b) form. Anything else, including
// components outside 0-255, yields ErrMalformedColor.
func ParseRGB(s string) (RGB, error) {
	m := rgbPattern.FindStringSubmatch(s)
	if m == nil {
		return RGB{}, fmt.Errorf("%w: %q is not rgb(r, g, b)", ErrMalformedColor, s)
	}

	var comps [3]int
	for i := range comps {
		v, err := strconv.Atoi(m[i+1])
		if err != nil || v > 255 {
			return RGB{}, fmt.Errorf("%w: component %q out of range", ErrMalformedColor, m[i+1])
		}
		comps[i] = v
	}

	return RGB{R: comps[0], G: comps[1], B: comps[2]}, nil
}

// ParseHex parses #rrggbb (the leading # is optional).
func ParseHex(s string) (RGB, error) {
	m := hexPattern.FindStringSubmatch(s)
	if m == nil {
		return RGB{}, fmt.Errorf("%w: %q is not #rrggbb", ErrMalformedColor, s)
	}
	v, _ := strconv.ParseUint(m[1], 16, 32)
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Parse accepts either rgb(r, g, b) or #rrggbb.
func Parse(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "rgb(") {
		return ParseRGB(s)
	}
	return ParseHex(s)
}

// Swatch is one cell of the solid-color grid.
type Swatch struct {
	Index int
	H     float64 // degrees
	S     float64 // percent
	L     float64 // percent
}

// CSS returns the swatch's exact color as an hsla() string.
func (s Swatch) CSS() string {
	return fmt.Sprintf("hsla(%s, %s%%, %s%%, 1)", trimFloat(s.H), trimFloat(s.S), trimFloat(s.L))
}

// RGB returns the swatch color converted to 8-bit RGB.
func (s Swatch) RGB() RGB {
	r, g, b := colorful.Hsl(s.H, s.S/100, s.L/100).RGB255()
	return RGB{R: int(r), G: int(g), B: int(b)}
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Generate returns the swatch grid, row by row: one row per lightness level
// from dark to light, each row sweeping the full hue circle.
func Generate() []Swatch {
	hueStep := 360.0 / Hues
	levelStep := LightnessSpan / Levels

	swatches := make([]Swatch, 0, Hues*Levels)
	for level := 0; level < Levels; level++ {
		l := MinLightness + float64(level)*levelStep
		for h := 0; h < Hues; h++ {
			swatches = append(swatches, Swatch{
				Index: len(swatches),
				H:     float64(h) * hueStep,
				S:     Saturation,
				L:     l,
			})
		}
	}
	return swatches
}
