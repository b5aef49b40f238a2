// Package timeline builds the ordered scene sequence for one render run.
package timeline

import (
	"github.com/ivlev/prompt2video/internal/palette"
)

// Scene is one animated beat: a single sentence bound to a gradient pair.
// Scenes are immutable once built.
type Scene struct {
	Text    string
	Index   int
	Palette palette.Gradient
}

// Timeline is the full ordered scene sequence. It is rebuilt wholesale when
// the prompt or style changes, never patched in place.
type Timeline []Scene

// Build maps sentences onto scenes, binding one gradient pair per index.
// Deterministic for identical inputs; no side effects.
func Build(sentences []string, style palette.VisualStyle) (Timeline, error) {
	tl := make(Timeline, 0, len(sentences))
	for i, s := range sentences {
		g, err := palette.Assign(style, i)
		if err != nil {
			return nil, err
		}
		tl = append(tl, Scene{Text: s, Index: i, Palette: g})
	}
	return tl, nil
}
