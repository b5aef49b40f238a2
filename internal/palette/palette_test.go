package palette

import (
	"testing"
)

func TestParseStyle(t *testing.T) {
	for _, name := range Styles() {
		style, err := ParseStyle(name)
		if err != nil {
			t.Errorf("ParseStyle(%q) failed: %v", name, err)
		}
		if string(style) != name {
			t.Errorf("ParseStyle(%q) = %q", name, style)
		}
	}

	if _, err := ParseStyle("vaporwave"); err == nil {
		t.Error("Expected error for unknown style")
	}
	if _, err := ParseStyle(""); err == nil {
		t.Error("Expected error for empty style")
	}

	// Case and whitespace are forgiven, unknown names are not
	if _, err := ParseStyle(" Cosmic "); err != nil {
		t.Errorf("ParseStyle(' Cosmic ') failed: %v", err)
	}
}

func TestAssignCycling(t *testing.T) {
	for _, name := range Styles() {
		style, _ := ParseStyle(name)
		k := Count(style)
		if k < 4 {
			t.Errorf("Style %s has %d pairs, want at least 4", name, k)
		}

		for i := 0; i < 3*k; i++ {
			got, err := Assign(style, i)
			if err != nil {
				t.Fatalf("Assign(%s, %d) failed: %v", name, i, err)
			}
			base, _ := Assign(style, i%k)
			if got != base {
				t.Errorf("Assign(%s, %d) != Assign(%s, %d)", name, i, name, i%k)
			}
		}
	}
}

func TestAssignErrors(t *testing.T) {
	if _, err := Assign(VisualStyle("nope"), 0); err == nil {
		t.Error("Expected error for unknown style")
	}
	if _, err := Assign(StyleCosmic, -1); err == nil {
		t.Error("Expected error for negative index")
	}
}

func TestGradientPairsDistinct(t *testing.T) {
	for _, name := range Styles() {
		style, _ := ParseStyle(name)
		seen := map[string]bool{}
		for i := 0; i < Count(style); i++ {
			g, _ := Assign(style, i)
			key := g.FromHex + "/" + g.ToHex
			if seen[key] {
				t.Errorf("Style %s repeats gradient %s", name, key)
			}
			seen[key] = true
		}
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff7e5f")
	if err != nil {
		t.Fatalf("ParseHex failed: %v", err)
	}
	if c.R != 0xff || c.G != 0x7e || c.B != 0x5f || c.A != 255 {
		t.Errorf("ParseHex(#ff7e5f) = %v", c)
	}

	for _, bad := range []string{"", "ff7e5f", "#ff7e5", "#gg0000", "#ff7e5f00"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}
