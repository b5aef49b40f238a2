// Package palette owns the visual styles and their gradient pairs.
package palette

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// VisualStyle selects one of the built-in palettes.
type VisualStyle string

const (
	StyleCosmic VisualStyle = "cosmic"
	StyleSunset VisualStyle = "sunset"
	StyleOcean  VisualStyle = "ocean"
	StyleNoir   VisualStyle = "noir"
)

// Gradient is the two-color pair behind one scene's background.
// The hex form is kept alongside the parsed colors for storyboard output.
type Gradient struct {
	FromHex string
	ToHex   string
	From    color.RGBA
	To      color.RGBA
}

var styles = map[VisualStyle][]Gradient{
	StyleCosmic: {
		pair("#1a0533", "#7b2ff7"),
		pair("#0b1e4b", "#3fd0d4"),
		pair("#2d0b45", "#c86dd7"),
		pair("#081b33", "#5a7bff"),
		pair("#230b3b", "#ff6ec7"),
	},
	StyleSunset: {
		pair("#ff7e5f", "#feb47b"),
		pair("#f83600", "#f9d423"),
		pair("#c31432", "#ffb88c"),
		pair("#8e2de2", "#ff6a88"),
		pair("#f56217", "#fdc830"),
	},
	StyleOcean: {
		pair("#02aab0", "#00cdac"),
		pair("#0f2027", "#2c5364"),
		pair("#1a2980", "#26d0ce"),
		pair("#000046", "#1cb5e0"),
		pair("#136a8a", "#267871"),
	},
	StyleNoir: {
		pair("#232526", "#414345"),
		pair("#000000", "#434343"),
		pair("#16222a", "#3a6073"),
		pair("#1f1c2c", "#928dab"),
		pair("#0f0c29", "#302b63"),
	},
}

func pair(from, to string) Gradient {
	a, err := ParseHex(from)
	if err != nil {
		panic(err)
	}
	b, err := ParseHex(to)
	if err != nil {
		panic(err)
	}
	return Gradient{FromHex: from, ToHex: to, From: a, To: b}
}

// ParseHex parses a "#rrggbb" color.
func ParseHex(s string) (color.RGBA, error) {
	var r, g, b uint8
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("bad hex color %q (expected #rrggbb)", s)
	}
	if _, err := fmt.Sscanf(strings.ToLower(s), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("bad hex color %q: %v", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// ParseStyle validates a style name. Unknown styles are a configuration
// error, not a silent fallback.
func ParseStyle(s string) (VisualStyle, error) {
	style := VisualStyle(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := styles[style]; !ok {
		return "", fmt.Errorf("unknown style %q (expected one of: %s)", s, strings.Join(Styles(), ", "))
	}
	return style, nil
}

// Styles lists the known style names, sorted.
func Styles() []string {
	names := make([]string, 0, len(styles))
	for s := range styles {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// Assign returns the gradient pair for scene index i, cycling through the
// style's list when scenes outnumber palette entries.
func Assign(style VisualStyle, i int) (Gradient, error) {
	pairs, ok := styles[style]
	if !ok {
		return Gradient{}, fmt.Errorf("unknown style %q", style)
	}
	if i < 0 {
		return Gradient{}, fmt.Errorf("negative scene index %d", i)
	}
	return pairs[i%len(pairs)], nil
}

// Count reports how many gradient pairs a style owns.
func Count(style VisualStyle) int {
	return len(styles[style])
}
