package renderer

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"testing"

	"github.com/ivlev/prompt2video/internal/config"
	"github.com/ivlev/prompt2video/internal/palette"
	"github.com/ivlev/prompt2video/internal/timeline"
)

// stampCompositor writes the scene index and progress into the first pixels
// so the sink can verify ordering without real drawing.
type stampCompositor struct{}

func (stampCompositor) Render(dst *image.RGBA, scene timeline.Scene, progress float64) {
	dst.Pix[0] = uint8(scene.Index)
	dst.Pix[1] = uint8(progress * 250)
}

type recordingSink struct {
	mu     sync.Mutex
	stamps [][2]uint8
	failAt int // fail on this frame index; -1 disables
}

func (s *recordingSink) WriteFrame(img *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt >= 0 && len(s.stamps) == s.failAt {
		return fmt.Errorf("simulated sink failure")
	}
	s.stamps = append(s.stamps, [2]uint8{img.Pix[0], img.Pix[1]})
	return nil
}

func buildTimeline(t *testing.T, sceneCount int) timeline.Timeline {
	t.Helper()
	sentences := make([]string, sceneCount)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("scene %d", i)
	}
	tl, err := timeline.Build(sentences, palette.StyleCosmic)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return tl
}

func TestStateAt(t *testing.T) {
	tests := []struct {
		frame, perScene int
		wantScene       int
		wantProgress    float64
	}{
		{0, 72, 0, 0},
		{71, 72, 0, 71.0 / 72.0},
		{72, 72, 1, 0},
		{100, 72, 1, 28.0 / 72.0},
		{359, 72, 4, 71.0 / 72.0},
	}

	for _, tt := range tests {
		st := StateAt(tt.frame, tt.perScene)
		if st.SceneIndex != tt.wantScene {
			t.Errorf("StateAt(%d, %d).SceneIndex = %d, want %d", tt.frame, tt.perScene, st.SceneIndex, tt.wantScene)
		}
		if math.Abs(st.Progress-tt.wantProgress) > 1e-9 {
			t.Errorf("StateAt(%d, %d).Progress = %f, want %f", tt.frame, tt.perScene, st.Progress, tt.wantProgress)
		}
		if st.Progress < 0 || st.Progress >= 1 {
			t.Errorf("Progress %f outside [0, 1)", st.Progress)
		}
	}
}

func TestTotalFrames(t *testing.T) {
	d := &Driver{
		Timeline: buildTimeline(t, 5),
		Render:   config.Render{Width: 64, Height: 36, FPS: 24, SceneSeconds: 3},
	}
	if got := d.TotalFrames(); got != 360 {
		t.Errorf("TotalFrames = %d, want 360 (24 fps * 3 s * 5 scenes)", got)
	}
}

func TestFramesPerSceneFloor(t *testing.T) {
	r := config.Render{Width: 64, Height: 36, FPS: 12, SceneSeconds: 2}
	if got := r.FramesPerScene(); got != 24 {
		t.Errorf("FramesPerScene = %d, want 24", got)
	}
}

func TestRunOrderingAndProgress(t *testing.T) {
	sink := &recordingSink{failAt: -1}
	var reports []float64

	d := &Driver{
		Timeline:   buildTimeline(t, 3),
		Render:     config.Render{Width: 64, Height: 36, FPS: 12, SceneSeconds: 2},
		Compositor: stampCompositor{},
		Sink:       sink,
		OnProgress: func(f float64) { reports = append(reports, f) },
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	total := d.TotalFrames()
	if len(sink.stamps) != total {
		t.Fatalf("Sink got %d frames, want %d", len(sink.stamps), total)
	}

	// Frames arrive in strict global order: scene index never decreases and
	// progress resets exactly at scene boundaries.
	perScene := d.Render.FramesPerScene()
	for i, stamp := range sink.stamps {
		wantScene := uint8(i / perScene)
		if stamp[0] != wantScene {
			t.Fatalf("Frame %d carries scene %d, want %d", i, stamp[0], wantScene)
		}
	}

	// Progress is monotonic and ends at exactly 1
	if len(reports) != total {
		t.Fatalf("Got %d progress reports, want %d", len(reports), total)
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] < reports[i-1] {
			t.Fatalf("Progress regressed at report %d: %f < %f", i, reports[i], reports[i-1])
		}
	}
	if final := reports[len(reports)-1]; final != 1.0 {
		t.Errorf("Final progress = %f, want exactly 1", final)
	}
}

func TestRunEmptyTimeline(t *testing.T) {
	d := &Driver{
		Timeline:   nil,
		Render:     config.Render{Width: 64, Height: 36, FPS: 24, SceneSeconds: 3},
		Compositor: stampCompositor{},
		Sink:       &recordingSink{failAt: -1},
	}
	if err := d.Run(context.Background()); err == nil {
		t.Error("Expected error for empty timeline")
	}
}

func TestRunSinkFailureStopsLoop(t *testing.T) {
	sink := &recordingSink{failAt: 5}
	d := &Driver{
		Timeline:   buildTimeline(t, 4),
		Render:     config.Render{Width: 64, Height: 36, FPS: 24, SceneSeconds: 3},
		Compositor: stampCompositor{},
		Sink:       sink,
	}

	err := d.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error from failing sink")
	}
	if len(sink.stamps) != 5 {
		t.Errorf("Sink accepted %d frames before failing, want 5", len(sink.stamps))
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	sink := &recordingSink{failAt: -1}
	var once sync.Once
	d := &Driver{
		Timeline:   buildTimeline(t, 5),
		Render:     config.Render{Width: 64, Height: 36, FPS: 24, SceneSeconds: 3},
		Compositor: stampCompositor{},
		Sink:       sink,
		OnProgress: func(f float64) {
			if f >= 0.1 {
				once.Do(cancel)
			}
		},
	}

	err := d.Run(ctx)
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if len(sink.stamps) >= d.TotalFrames() {
		t.Errorf("Loop ran to completion despite cancellation (%d frames)", len(sink.stamps))
	}
}
