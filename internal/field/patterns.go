package field

// DefaultPatternOrder lists the animation patterns the panel knows, in the
// order they are displayed. Patterns the controller reports that are not in
// this list are not shown.
var DefaultPatternOrder = []string{
	"Pride",
	"Color Waves",

	"Rainbow Twinkles",
	"Snow Twinkles",
	"Cloud Twinkles",
	"Incandescent Twinkles",

	"Retro C9 Twinkles",
	"Red & White Twinkles",
	"Blue & White Twinkles",
	"Red, Green & White Twinkles",
	"Fairy Light Twinkles",
	"Snow 2 Twinkles",
	"Holly Twinkles",
	"Ice Twinkles",
	"Party Twinkles",
	"Forest Twinkles",
	"Lava Twinkles",
	"Fire Twinkles",
	"Cloud 2 Twinkles",
	"Ocean Twinkles",

	"Rainbow",
	"Rainbow With Glitter",
	"Solid Rainbow",
	"Confetti",
	"Sinelon",
	"Beat",
	"Juggle",
	"Fire",
	"Water",
}

// Pattern is one selectable pattern.
type Pattern struct {
	Name string

	// DeviceIndex is the pattern's position in the controller's option list,
	// which is what the pattern field's value refers to.
	DeviceIndex int
}

// FilterPatterns returns the controller's options that appear in order,
// sorted by their position in order. Membership is an exact string match.
// When an option is reported more than once the first occurrence wins.
func FilterPatterns(options, order []string) []Pattern {
	index := make(map[string]int, len(options))
	for i, name := range options {
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	patterns := make([]Pattern, 0, len(options))
	listed := make(map[string]bool, len(order))
	for _, name := range order {
		if listed[name] {
			continue
		}
		listed[name] = true
		if i, ok := index[name]; ok {
			patterns = append(patterns, Pattern{Name: name, DeviceIndex: i})
		}
	}
	return patterns
}

// ActivePattern returns the position in patterns of the pattern whose device
// index equals value, or -1.
func ActivePattern(patterns []Pattern, value Value) int {
	idx := value.Int()
	if idx < 0 {
		return -1
	}
	for i, p := range patterns {
		if p.DeviceIndex == idx {
			return i
		}
	}
	return -1
}
