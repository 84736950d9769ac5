package field

import (
	"github.com/muurk/lightctl/internal/logging"
	"go.uber.org/zap"
)

// Names of the fields and update endpoints the panel knows about.
const (
	NamePower      = "power"
	NameBrightness = "brightness"
	NamePattern    = "pattern"

	// NamePatternName is the endpoint that selects a pattern by name.
	NamePatternName = "patternName"

	// NameSolidColor is the endpoint that sets a solid color from r/g/b.
	NameSolidColor = "solidColor"
)

// Descriptor is the controller's description of one configurable field,
// one element of the array returned by GET /all.
type Descriptor struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Value   Value    `json:"value"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Step    float64  `json:"step,omitempty"`
	Options []string `json:"options,omitempty"`
}

// DisplayLabel returns the label, or the name if the controller sent none.
func (d *Descriptor) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Name
}

// Kind identifies which control renders a field.
type Kind int

const (
	KindUnknown Kind = iota
	KindBoolean
	KindNumber
	KindPattern
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// KindOf maps a field name to its kind by exact match.
func KindOf(name string) Kind {
	switch name {
	case NamePower:
		return KindBoolean
	case NameBrightness:
		return KindNumber
	case NamePattern:
		return KindPattern
	default:
		return KindUnknown
	}
}

// Entry is a descriptor paired with the kind it was decoded to.
type Entry struct {
	Kind       Kind
	Descriptor *Descriptor
}

// Decode resolves each descriptor's kind once and drops fields the panel
// has no control for. Device order is preserved.
func Decode(descriptors []Descriptor) []Entry {
	entries := make([]Entry, 0, len(descriptors))
	for i := range descriptors {
		d := &descriptors[i]
		kind := KindOf(d.Name)
		if kind == KindUnknown {
			logging.Debug("Ignoring field without a control",
				zap.String("name", d.Name),
				zap.String("type", d.Type),
			)
			continue
		}
		entries = append(entries, Entry{Kind: kind, Descriptor: d})
	}
	return entries
}

// Find returns the first entry with the given name, or nil.
func Find(entries []Entry, name string) *Entry {
	for i := range entries {
		if entries[i].Descriptor.Name == name {
			return &entries[i]
		}
	}
	return nil
}
