// Package session tracks the lifecycle of render runs: phase, progress,
// error message and the exported artifact. It is the single mutable piece of
// state in the pipeline; the segmenter, palette, timeline and compositor
// stay referentially transparent and never touch it.
package session

import (
	"fmt"
	"os"
	"sync"
)

// Phase is the generation lifecycle state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePreparing Phase = "preparing"
	PhaseRendering Phase = "rendering"
	PhaseEncoding  Phase = "encoding"
	PhaseComplete  Phase = "complete"
	PhaseError     Phase = "error"
)

// Transitions never skip a stage; error is reachable from any active phase.
var nextPhase = map[Phase]Phase{
	PhasePreparing: PhaseRendering,
	PhaseRendering: PhaseEncoding,
	PhaseEncoding:  PhaseComplete,
}

// Session is the single-writer state machine for render runs. Each run gets
// a run id; reports carrying a stale id are ignored, so a cancelled run that
// limps to completion in the background cannot corrupt newer state.
type Session struct {
	mu       sync.Mutex
	phase    Phase
	progress float64
	message  string
	runID    uint64
	active   bool
	artifact string
}

func New() *Session {
	return &Session{phase: PhaseIdle}
}

// Begin claims the session for a new run and enters preparing. It refuses
// while another run is active, and releases any previous run's artifact
// before the new run produces anything.
func (s *Session) Begin() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return 0, fmt.Errorf("a render is already in progress (phase %s)", s.phase)
	}

	s.releaseArtifactLocked()
	s.runID++
	s.active = true
	s.phase = PhasePreparing
	s.progress = 0
	s.message = ""
	return s.runID, nil
}

// Advance moves the run to the next phase. Skipping stages is a programming
// error; stale run ids are ignored.
func (s *Session) Advance(run uint64, next Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.runID || !s.active {
		return nil
	}
	if nextPhase[s.phase] != next {
		return fmt.Errorf("illegal transition %s -> %s", s.phase, next)
	}
	s.phase = next
	return nil
}

// ReportProgress records the completed fraction. Progress never decreases
// within a run.
func (s *Session) ReportProgress(run uint64, f float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.runID || !s.active {
		return
	}
	if f > 1 {
		f = 1
	}
	if f > s.progress {
		s.progress = f
	}
}

// Fail funnels any run failure into the terminal error phase. Cleanup of the
// previous artifact happens before the error becomes visible.
func (s *Session) Fail(run uint64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.runID || !s.active {
		return
	}
	s.releaseArtifactLocked()
	s.phase = PhaseError
	s.message = msg
	s.active = false
}

// Complete adopts the finished artifact. A stale run id means the session
// was reset while rendering: the late result is discarded, not adopted.
func (s *Session) Complete(run uint64, artifact string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run != s.runID {
		os.Remove(artifact)
		return nil
	}
	if s.phase != PhaseEncoding {
		return fmt.Errorf("cannot complete from phase %s", s.phase)
	}
	s.artifact = artifact
	s.phase = PhaseComplete
	s.progress = 1
	s.active = false
	return nil
}

// Reset discards all visible state and returns to idle. Idempotent; also
// invalidates any in-flight run so its late completion is ignored.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runID++
	s.active = false
	s.phase = PhaseIdle
	s.progress = 0
	s.message = ""
	s.releaseArtifactLocked()
}

// releaseArtifactLocked removes the exported file exactly once.
func (s *Session) releaseArtifactLocked() {
	if s.artifact == "" {
		return
	}
	os.Remove(s.artifact)
	s.artifact = ""
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Artifact returns the exported file path, empty unless phase is complete.
func (s *Session) Artifact() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact
}
