// Package renderer drives the frame loop for one render run.
//
// Frames are produced strictly in increasing global-frame order: a single
// producer goroutine composites into a bounded channel and a single consumer
// hands each frame to the sink, so frame i is fully written before frame i+1
// is observed. There is no reordering and no skipping.
package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/prompt2video/internal/config"
	"github.com/ivlev/prompt2video/internal/system"
	"github.com/ivlev/prompt2video/internal/timeline"
)

// Compositor renders one frame deterministically.
type Compositor interface {
	Render(dst *image.RGBA, scene timeline.Scene, progress float64)
}

// FrameSink consumes rendered frames in order. The sink must not retain the
// buffer after WriteFrame returns; it is recycled for later frames.
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
}

// FrameState locates a global frame inside the timeline.
type FrameState struct {
	GlobalFrame int
	SceneIndex  int
	Progress    float64 // intra-scene, [0, 1)
}

// StateAt derives the frame state for a global frame index.
func StateAt(frame, framesPerScene int) FrameState {
	return FrameState{
		GlobalFrame: frame,
		SceneIndex:  frame / framesPerScene,
		Progress:    float64(frame%framesPerScene) / float64(framesPerScene),
	}
}

// Driver runs the frame loop for a single render run. All fields are set
// before Run and not mutated afterwards.
type Driver struct {
	Timeline   timeline.Timeline
	Render     config.Render
	Compositor Compositor
	Sink       FrameSink

	// OnProgress receives the completed fraction after each frame reaches
	// the sink. Reports are monotonically non-decreasing and end at 1.
	OnProgress func(completed float64)

	// Realtime paces production to the presentation rate so a live sink
	// observes frames as they would play back.
	Realtime bool
}

// TotalFrames is framesPerScene * sceneCount.
func (d *Driver) TotalFrames() int {
	return d.Render.FramesPerScene() * len(d.Timeline)
}

// Run produces every frame in order and returns when the last one has been
// accepted by the sink. Cancelling ctx stops the loop early; frames already
// handed to the sink are not recalled.
func (d *Driver) Run(ctx context.Context) error {
	if len(d.Timeline) == 0 {
		return fmt.Errorf("empty timeline: nothing to render")
	}

	framesPerScene := d.Render.FramesPerScene()
	total := d.TotalFrames()
	bounds := image.Rect(0, 0, d.Render.Width, d.Render.Height)

	frames := make(chan *image.RGBA, 1)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(frames)

		var tick *time.Ticker
		if d.Realtime {
			tick = time.NewTicker(d.Render.FrameInterval())
			defer tick.Stop()
		}

		for i := 0; i < total; i++ {
			st := StateAt(i, framesPerScene)
			buf := system.GetFrame(bounds)
			d.Compositor.Render(buf, d.Timeline[st.SceneIndex], st.Progress)

			select {
			case frames <- buf:
			case <-ctx.Done():
				system.PutFrame(buf)
				return ctx.Err()
			}

			if tick != nil {
				select {
				case <-tick.C:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return nil
	})

	g.Go(func() error {
		done := 0
		for buf := range frames {
			err := d.Sink.WriteFrame(buf)
			system.PutFrame(buf)
			if err != nil {
				return fmt.Errorf("sink rejected frame %d: %w", done, err)
			}
			done++
			if d.OnProgress != nil {
				d.OnProgress(float64(done) / float64(total))
			}
		}
		return nil
	})

	return g.Wait()
}
