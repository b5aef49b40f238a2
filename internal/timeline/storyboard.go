package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/prompt2video/internal/palette"
)

// Storyboard is the YAML-serialized render plan for a timeline. A dumped
// storyboard can be hand-edited (texts, colors) and fed back into a render.
type Storyboard struct {
	Version      string            `yaml:"version"`
	Style        string            `yaml:"style"`
	FPS          int               `yaml:"fps"`
	SceneSeconds float64           `yaml:"scene_seconds"`
	Scenes       []StoryboardScene `yaml:"scenes"`
}

// StoryboardScene is one scene entry in the plan.
type StoryboardScene struct {
	ID     int      `yaml:"id"`
	Text   string   `yaml:"text"`
	Colors []string `yaml:"colors"` // two #rrggbb values, gradient start and end
}

// FromTimeline captures a timeline and its render parameters as a plan.
func FromTimeline(tl Timeline, style palette.VisualStyle, fps int, sceneSeconds float64) *Storyboard {
	scenes := make([]StoryboardScene, len(tl))
	for i, s := range tl {
		scenes[i] = StoryboardScene{
			ID:     s.Index + 1,
			Text:   s.Text,
			Colors: []string{s.Palette.FromHex, s.Palette.ToHex},
		}
	}
	return &Storyboard{
		Version:      "1.0",
		Style:        string(style),
		FPS:          fps,
		SceneSeconds: sceneSeconds,
		Scenes:       scenes,
	}
}

// Timeline rebuilds scenes from the plan. The style must name a known
// palette; the colors themselves come from the stored hex values, so edited
// storyboards may carry gradient pairs no style owns.
func (sb *Storyboard) Timeline() (Timeline, error) {
	if _, err := palette.ParseStyle(sb.Style); err != nil {
		return nil, err
	}
	if len(sb.Scenes) == 0 {
		return nil, fmt.Errorf("storyboard has no scenes")
	}
	tl := make(Timeline, 0, len(sb.Scenes))
	for i, sc := range sb.Scenes {
		if sc.Text == "" {
			return nil, fmt.Errorf("scene %d has empty text", i+1)
		}
		if len(sc.Colors) != 2 {
			return nil, fmt.Errorf("scene %d needs exactly 2 colors, got %d", i+1, len(sc.Colors))
		}
		from, err := palette.ParseHex(sc.Colors[0])
		if err != nil {
			return nil, fmt.Errorf("scene %d: %v", i+1, err)
		}
		to, err := palette.ParseHex(sc.Colors[1])
		if err != nil {
			return nil, fmt.Errorf("scene %d: %v", i+1, err)
		}
		tl = append(tl, Scene{
			Text:  sc.Text,
			Index: i,
			Palette: palette.Gradient{
				FromHex: sc.Colors[0],
				ToHex:   sc.Colors[1],
				From:    from,
				To:      to,
			},
		})
	}
	return tl, nil
}

// WriteStoryboard writes a plan to a YAML file.
func WriteStoryboard(sb *Storyboard, path string) error {
	data, err := yaml.Marshal(sb)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadStoryboard reads a plan from a YAML file.
func ReadStoryboard(path string) (*Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sb Storyboard
	if err := yaml.Unmarshal(data, &sb); err != nil {
		return nil, err
	}
	return &sb, nil
}
