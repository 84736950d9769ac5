package field

import (
	"fmt"
	"strings"
)

// FormatPower returns "on" or "off"
func FormatPower(v Value) string {
	if v.Truthy() {
		return "on"
	}
	return "off"
}

// FormatRange returns a value with whichever bounds the controller sent,
// e.g. "128 (0-255, step 1)".
func FormatRange(d *Descriptor) string {
	var bounds []string
	if d.Min != 0 || d.Max != 0 {
		bounds = append(bounds, fmt.Sprintf("%g-%g", d.Min, d.Max))
	}
	if d.Step != 0 {
		bounds = append(bounds, fmt.Sprintf("step %g", d.Step))
	}
	if len(bounds) == 0 {
		return d.Value.String()
	}
	return fmt.Sprintf("%s (%s)", d.Value.String(), strings.Join(bounds, ", "))
}

// FormatPattern returns the active pattern's name, or its raw index when the
// index is outside the option list.
func FormatPattern(d *Descriptor) string {
	idx := d.Value.Int()
	if idx >= 0 && idx < len(d.Options) {
		return d.Options[idx]
	}
	return fmt.Sprintf("#%s", d.Value.String())
}

// FormatCompact returns one line per known field
func FormatCompact(entries []Entry) string {
	var b strings.Builder

	for _, e := range entries {
		d := e.Descriptor
		switch e.Kind {
		case KindBoolean:
			b.WriteString(fmt.Sprintf("%-12s %s\n", d.DisplayLabel()+":", FormatPower(d.Value)))
		case KindNumber:
			b.WriteString(fmt.Sprintf("%-12s %s\n", d.DisplayLabel()+":", d.Value.String()))
		case KindPattern:
			b.WriteString(fmt.Sprintf("%-12s %s\n", d.DisplayLabel()+":", FormatPattern(d)))
		}
	}

	return b.String()
}

// FormatDetailed returns every known field with its metadata, and the
// patterns that would be offered given order.
func FormatDetailed(entries []Entry, order []string) string {
	var b strings.Builder

	b.WriteString("=== Controller Fields ===\n")
	for _, e := range entries {
		d := e.Descriptor
		switch e.Kind {
		case KindBoolean:
			b.WriteString(fmt.Sprintf("%-12s %s\n", d.DisplayLabel()+":", FormatPower(d.Value)))
		case KindNumber:
			b.WriteString(fmt.Sprintf("%-12s %s\n", d.DisplayLabel()+":", FormatRange(d)))
		case KindPattern:
			b.WriteString(fmt.Sprintf("%-12s %s\n", d.DisplayLabel()+":", FormatPattern(d)))
		}
	}

	if pattern := Find(entries, NamePattern); pattern != nil {
		patterns := FilterPatterns(pattern.Descriptor.Options, order)
		active := ActivePattern(patterns, pattern.Descriptor.Value)

		b.WriteString("\n=== Patterns ===\n")
		for i, p := range patterns {
			marker := " "
			if i == active {
				marker = "*"
			}
			b.WriteString(fmt.Sprintf("%s %2d  %s\n", marker, p.DeviceIndex, p.Name))
		}
		if hidden := len(pattern.Descriptor.Options) - len(patterns); hidden > 0 {
			b.WriteString(fmt.Sprintf("(%d pattern(s) reported by the controller are not in the display list)\n", hidden))
		}
	}

	return b.String()
}
