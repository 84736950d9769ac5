package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/muurk/lightctl/internal/field"
)

// Bounds used when the controller does not send them. These match an HTML
// range input with no attributes.
const (
	DefaultMin  = 0
	DefaultMax  = 100
	DefaultStep = 1
)

// Range is a slider with a linked numeric text input.
type Range struct {
	Field *field.Descriptor

	Min, Max, Step float64

	// Value is the slider position; Input is the text box contents. They
	// agree except while the user is typing.
	Value float64
	Input string
}

// NewRange creates a range control for d. min, max and step are applied
// only when non-zero, so a configured 0 falls back to the default.
func NewRange(d *field.Descriptor) *Range {
	r := &Range{Field: d, Min: DefaultMin, Max: DefaultMax, Step: DefaultStep}
	if d.Min != 0 {
		r.Min = d.Min
	}
	if d.Max != 0 {
		r.Max = d.Max
	}
	if d.Step != 0 {
		r.Step = math.Abs(d.Step)
	}

	v, _ := d.Value.Float()
	r.Value = r.clamp(v)
	r.Input = formatNumber(r.Value)
	return r
}

// Name returns the field name.
func (r *Range) Name() string { return r.Field.Name }

func (r *Range) clamp(v float64) float64 {
	lo, hi := r.Min, r.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func (r *Range) set(v float64) {
	r.Value = r.clamp(v)
	r.Input = formatNumber(r.Value)
	r.Field.Value = field.NumberValue(r.Value)
}

// Preview mirrors v into both controls without producing anything to send.
func (r *Range) Preview(v float64) {
	r.set(v)
}

// Apply stores a device-pushed value.
func (r *Range) Apply(v field.Value) {
	if f, ok := v.Float(); ok {
		r.Preview(f)
	}
}

// Commit moves the slider to v, mirrors it into the text input and returns
// the value to send.
func (r *Range) Commit(v float64) string {
	r.set(v)
	return r.Input
}

// Nudge moves the slider by n steps and returns the value to send.
func (r *Range) Nudge(n int) string {
	return r.Commit(r.Value + float64(n)*r.Step)
}

// Type replaces the text input contents without committing. The slider
// follows only once the text is a number.
func (r *Range) Type(text string) {
	r.Input = text
}

// SetInput commits the text input. Non-numeric text is rejected and both
// controls are left showing the previous value.
func (r *Range) SetInput(text string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		r.Input = formatNumber(r.Value)
		return "", fmt.Errorf("%s: %q is not a number", r.Field.Name, text)
	}
	return r.Commit(v), nil
}

// Fraction returns the slider position in [0, 1].
func (r *Range) Fraction() float64 {
	span := r.Max - r.Min
	if span == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, (r.Value-r.Min)/span))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
