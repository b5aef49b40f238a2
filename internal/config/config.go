package config

import (
	"fmt"
	"time"
)

type Config struct {
	InputPath     string
	PromptText    string
	OutputVideo   string
	Style         string
	Title         string
	Width         int
	Height        int
	FPS           int
	SceneSeconds  float64
	Quality       int
	BitrateKbps   int
	VideoEncoder  string
	QRLink        string
	StoryboardIn  string
	StoryboardOut string
	Realtime      bool
	ShowStats     bool
	BuildVersion  string
}

// Render is the immutable per-run snapshot of the values the frame loop
// depends on. Config changes after a run has started must not affect it.
type Render struct {
	Width        int
	Height       int
	FPS          int
	SceneSeconds float64
}

// Snapshot copies the render-relevant fields out of the live config.
func (c *Config) Snapshot() Render {
	return Render{
		Width:        c.Width,
		Height:       c.Height,
		FPS:          c.FPS,
		SceneSeconds: c.SceneSeconds,
	}
}

// FramesPerScene is fps * seconds-per-scene rounded down, never below 1.
func (r Render) FramesPerScene() int {
	n := int(float64(r.FPS) * r.SceneSeconds)
	if n < 1 {
		n = 1
	}
	return n
}

// FrameInterval is the real-time pacing delay between two consecutive frames.
func (r Render) FrameInterval() time.Duration {
	return time.Second / time.Duration(r.FPS)
}

// Validate rejects out-of-range values before anything is rendered.
func (c *Config) Validate() error {
	if c.FPS < 12 || c.FPS > 60 {
		return fmt.Errorf("fps %d out of range (12-60)", c.FPS)
	}
	if c.SceneSeconds < 2 || c.SceneSeconds > 6 {
		return fmt.Errorf("scene-seconds %.2f out of range (2-6)", c.SceneSeconds)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", c.Width, c.Height)
	}
	// yuv420p requires even dimensions
	if c.Width%2 != 0 || c.Height%2 != 0 {
		return fmt.Errorf("resolution %dx%d must be even", c.Width, c.Height)
	}
	return nil
}
