// Package engine orchestrates one prompt-to-video run end to end:
// segment the prompt, build the timeline, start the capture session, drive
// the frame loop, finalize the encode and adopt the artifact. All failures
// funnel into the session's terminal error phase.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ivlev/prompt2video/internal/compositor"
	"github.com/ivlev/prompt2video/internal/config"
	"github.com/ivlev/prompt2video/internal/palette"
	"github.com/ivlev/prompt2video/internal/renderer"
	"github.com/ivlev/prompt2video/internal/script"
	"github.com/ivlev/prompt2video/internal/session"
	"github.com/ivlev/prompt2video/internal/system"
	"github.com/ivlev/prompt2video/internal/timeline"
	"github.com/ivlev/prompt2video/internal/video"
)

// ErrNoScenes marks a prompt that segments to nothing. Generation never
// starts in this case; the session stays idle.
var ErrNoScenes = errors.New("prompt contains no sentences")

type Project struct {
	Config  *config.Config
	Session *session.Session
	Encoder video.VideoEncoder
}

func NewProject(cfg *config.Config, sess *session.Session, enc video.VideoEncoder) *Project {
	return &Project{
		Config:  cfg,
		Session: sess,
		Encoder: enc,
	}
}

// Run renders prompt into Config.OutputVideo, driving the session through
// preparing, rendering, encoding and complete.
func (p *Project) Run(ctx context.Context, prompt string) error {
	startTime := time.Now()
	cfg := p.Config

	// The plan is built before the session is claimed: an empty prompt or a
	// broken storyboard must never enter the preparing phase.
	tl, style, err := p.buildPlan(prompt)
	if err != nil {
		return err
	}

	if cfg.StoryboardOut != "" {
		sb := timeline.FromTimeline(tl, style, cfg.FPS, cfg.SceneSeconds)
		if err := timeline.WriteStoryboard(sb, cfg.StoryboardOut); err != nil {
			return fmt.Errorf("write storyboard: %w", err)
		}
		fmt.Printf("[*] Storyboard saved: %s\n", cfg.StoryboardOut)
		return nil
	}

	run, err := p.Session.Begin()
	if err != nil {
		return err
	}

	fail := func(err error) error {
		p.Session.Fail(run, err.Error())
		return err
	}

	// Copy-on-start: a config change mid-run cannot reach the frame loop
	rc := cfg.Snapshot()

	comp, err := compositor.New(rc.Width, rc.Height, compositor.Options{
		Title:  cfg.Title,
		QRLink: cfg.QRLink,
	})
	if err != nil {
		return fail(fmt.Errorf("compositor unavailable: %w", err))
	}

	capture, err := p.Encoder.Start(ctx, video.SessionSpec{
		Width:       rc.Width,
		Height:      rc.Height,
		FPS:         rc.FPS,
		OutputPath:  cfg.OutputVideo,
		Encoder:     cfg.VideoEncoder,
		Quality:     cfg.Quality,
		BitrateKbps: cfg.BitrateKbps,
	})
	if err != nil {
		return fail(fmt.Errorf("capture session: %w", err))
	}

	if err := p.Session.Advance(run, session.PhaseRendering); err != nil {
		capture.Abort()
		return fail(err)
	}

	renderStart := time.Now()
	lastPct := -1
	driver := &renderer.Driver{
		Timeline:   tl,
		Render:     rc,
		Compositor: comp,
		Sink:       capture,
		Realtime:   cfg.Realtime,
		OnProgress: func(f float64) {
			p.Session.ReportProgress(run, f)
			if pct := int(f * 100); pct != lastPct {
				lastPct = pct
				fmt.Printf("\r[>] Rendering: %3d%%", pct)
			}
		},
	}

	totalFrames := driver.TotalFrames()
	fmt.Println("--- [PROMPT MOTION ENGINE] ---")
	fmt.Printf("[*] Scenes: %d | Style: %s\n", len(tl), style)
	fmt.Printf("[*] Resolution: %dx%d @ %d FPS | %d frames\n", rc.Width, rc.Height, rc.FPS, totalFrames)
	fmt.Println("------------------------------")

	if err := driver.Run(ctx); err != nil {
		fmt.Println()
		capture.Abort()
		return fail(fmt.Errorf("render loop: %w", err))
	}
	fmt.Println()
	renderTime := time.Since(renderStart)

	if err := p.Session.Advance(run, session.PhaseEncoding); err != nil {
		capture.Abort()
		return fail(err)
	}

	encodeStart := time.Now()
	if err := capture.Close(); err != nil {
		return fail(fmt.Errorf("recording failed: %w", err))
	}
	encodeTime := time.Since(encodeStart)

	if err := p.Session.Complete(run, cfg.OutputVideo); err != nil {
		return fail(err)
	}

	if cfg.ShowStats {
		p.printStats(totalFrames, time.Since(startTime), renderTime, encodeTime)
	}

	return nil
}

// buildPlan resolves the timeline either from a storyboard file or by
// segmenting the prompt. Storyboard fps/scene-seconds override the config.
func (p *Project) buildPlan(prompt string) (timeline.Timeline, palette.VisualStyle, error) {
	cfg := p.Config

	if cfg.StoryboardIn != "" {
		sb, err := timeline.ReadStoryboard(cfg.StoryboardIn)
		if err != nil {
			return nil, "", fmt.Errorf("read storyboard: %w", err)
		}
		tl, err := sb.Timeline()
		if err != nil {
			return nil, "", fmt.Errorf("storyboard %s: %w", cfg.StoryboardIn, err)
		}
		style, err := palette.ParseStyle(sb.Style)
		if err != nil {
			return nil, "", fmt.Errorf("storyboard %s: %w", cfg.StoryboardIn, err)
		}
		if sb.FPS > 0 {
			cfg.FPS = sb.FPS
		}
		if sb.SceneSeconds > 0 {
			cfg.SceneSeconds = sb.SceneSeconds
		}
		if err := cfg.Validate(); err != nil {
			return nil, "", fmt.Errorf("storyboard %s: %w", cfg.StoryboardIn, err)
		}
		fmt.Printf("[*] Using storyboard: %s\n", cfg.StoryboardIn)
		return tl, style, nil
	}

	sentences := script.Segment(prompt)
	if len(sentences) == 0 {
		return nil, "", ErrNoScenes
	}

	style, err := palette.ParseStyle(cfg.Style)
	if err != nil {
		return nil, "", err
	}

	tl, err := timeline.Build(sentences, style)
	if err != nil {
		return nil, "", err
	}
	return tl, style, nil
}

func (p *Project) printStats(frames int, total, render, encode time.Duration) {
	st := system.CaptureStats()
	fps := float64(frames) / total.Seconds()
	fmt.Println("--- [PERFORMANCE REPORT] ---")
	fmt.Printf("Build: %s\n", p.Config.BuildVersion)
	fmt.Printf("Total Time: %.2fs\n", total.Seconds())
	fmt.Printf("Rendering: %.2fs\n", render.Seconds())
	fmt.Printf("Encode Finalize: %.2fs\n", encode.Seconds())
	fmt.Printf("Effective FPS: %.2f\n", fps)
	fmt.Printf("Host: %s\n", st)
	fmt.Println("----------------------------")
}
