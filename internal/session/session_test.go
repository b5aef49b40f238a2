package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLifecycle(t *testing.T) {
	s := New()
	if s.Phase() != PhaseIdle {
		t.Fatalf("New session phase = %s, want idle", s.Phase())
	}

	run, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if s.Phase() != PhasePreparing {
		t.Errorf("Phase after Begin = %s, want preparing", s.Phase())
	}

	if err := s.Advance(run, PhaseRendering); err != nil {
		t.Fatalf("Advance to rendering failed: %v", err)
	}
	if err := s.Advance(run, PhaseEncoding); err != nil {
		t.Fatalf("Advance to encoding failed: %v", err)
	}
	if err := s.Complete(run, "clip.mp4"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if s.Phase() != PhaseComplete {
		t.Errorf("Phase = %s, want complete", s.Phase())
	}
	if s.Progress() != 1 {
		t.Errorf("Progress = %f, want 1", s.Progress())
	}
	if s.Artifact() != "clip.mp4" {
		t.Errorf("Artifact = %q", s.Artifact())
	}
}

func TestNoStageSkipping(t *testing.T) {
	s := New()
	run, _ := s.Begin()

	if err := s.Advance(run, PhaseEncoding); err == nil {
		t.Error("Expected error skipping rendering")
	}
	if err := s.Advance(run, PhaseComplete); err == nil {
		t.Error("Expected error skipping to complete")
	}
	if err := s.Complete(run, "x.mp4"); err == nil {
		t.Error("Complete from preparing should fail")
	}
}

func TestBeginWhileActive(t *testing.T) {
	s := New()
	if _, err := s.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := s.Begin(); err == nil {
		t.Error("Second Begin while active should be refused")
	}
}

func TestFailFromAnyActivePhase(t *testing.T) {
	for _, stop := range []Phase{PhasePreparing, PhaseRendering, PhaseEncoding} {
		s := New()
		run, _ := s.Begin()
		for s.Phase() != stop {
			if err := s.Advance(run, nextPhase[s.Phase()]); err != nil {
				t.Fatalf("Advance failed: %v", err)
			}
		}

		s.Fail(run, "boom")
		if s.Phase() != PhaseError {
			t.Errorf("Fail from %s: phase = %s, want error", stop, s.Phase())
		}
		if s.Message() != "boom" {
			t.Errorf("Message = %q", s.Message())
		}

		// A failed run is over; a new one may begin
		if _, err := s.Begin(); err != nil {
			t.Errorf("Begin after failure from %s: %v", stop, err)
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	s := New()
	run, _ := s.Begin()
	s.Advance(run, PhaseRendering)
	s.ReportProgress(run, 0.5)

	for i := 0; i < 3; i++ {
		s.Reset()
		if s.Phase() != PhaseIdle {
			t.Errorf("Reset %d: phase = %s, want idle", i, s.Phase())
		}
		if s.Progress() != 0 {
			t.Errorf("Reset %d: progress = %f, want 0", i, s.Progress())
		}
		if s.Message() != "" || s.Artifact() != "" {
			t.Errorf("Reset %d: leftover message/artifact", i)
		}
	}
}

func TestProgressMonotonic(t *testing.T) {
	s := New()
	run, _ := s.Begin()
	s.Advance(run, PhaseRendering)

	s.ReportProgress(run, 0.3)
	s.ReportProgress(run, 0.7)
	s.ReportProgress(run, 0.5) // late, lower report must not regress
	if s.Progress() != 0.7 {
		t.Errorf("Progress = %f, want 0.7", s.Progress())
	}

	s.ReportProgress(run, 1.5) // clamped
	if s.Progress() != 1 {
		t.Errorf("Progress = %f, want 1", s.Progress())
	}
}

func TestStaleRunIgnored(t *testing.T) {
	s := New()
	run, _ := s.Begin()
	s.Advance(run, PhaseRendering)
	s.Reset()

	// The old run keeps reporting after reset; nothing may change
	s.ReportProgress(run, 0.9)
	s.Fail(run, "late failure")
	if s.Phase() != PhaseIdle || s.Progress() != 0 || s.Message() != "" {
		t.Errorf("Stale run corrupted state: phase=%s progress=%f msg=%q",
			s.Phase(), s.Progress(), s.Message())
	}

	// A stale completion is discarded, artifact file and all
	stale := filepath.Join(t.TempDir(), "stale.mp4")
	os.WriteFile(stale, []byte("x"), 0644)
	if err := s.Complete(run, stale); err != nil {
		t.Fatalf("Stale Complete returned error: %v", err)
	}
	if s.Phase() != PhaseIdle || s.Artifact() != "" {
		t.Error("Stale completion was adopted")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Stale artifact file was not removed")
	}
}

func TestArtifactReleasedOnceOnNewRun(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.mp4")
	os.WriteFile(first, []byte("x"), 0644)

	s := New()
	run, _ := s.Begin()
	s.Advance(run, PhaseRendering)
	s.Advance(run, PhaseEncoding)
	if err := s.Complete(run, first); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	// Starting the next run revokes the previous artifact
	if _, err := s.Begin(); err != nil {
		t.Fatalf("Second Begin failed: %v", err)
	}
	if _, err := os.Stat(first); !os.IsNotExist(err) {
		t.Error("Previous artifact was not released")
	}
	if s.Artifact() != "" {
		t.Error("Artifact still exposed after new run began")
	}
}
