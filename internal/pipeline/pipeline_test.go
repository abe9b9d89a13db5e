package pipeline

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDisplayFiles(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "src", "lib.rs"),
		filepath.Join(base, "src", "model.rs"),
		filepath.Join(base, "src", "..", "src", "lib.rs"),
		"",
	}
	got := DisplayFiles(files, base)
	want := []string{"src/lib.rs", "src/model.rs"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DisplayFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	tm.Add(StageParse, 2*time.Millisecond)
	tm.Add(StageParse, 3*time.Millisecond)
	tm.Add(StageEmit, time.Millisecond)
	if !tm.Has(StageParse) || tm.Has(StageWrite) {
		t.Fatal("Has reports wrong stages")
	}
	if got := tm.Duration(StageParse); got != 5*time.Millisecond {
		t.Errorf("parse = %v", got)
	}
	if got := tm.Sum(StageParse, StageEmit, StageWrite); got != 6*time.Millisecond {
		t.Errorf("sum = %v", got)
	}
	var nilTimings *Timings
	nilTimings.Add(StageLoad, time.Second)
}

func TestRecorderLast(t *testing.T) {
	var r Recorder
	Emit(&r, Event{File: "a.rs", Stage: StageParse, Status: StatusWorking})
	Emit(&r, Event{File: "a.rs", Stage: StageParse, Status: StatusDone})
	Emit(nil, Event{File: "ignored"})
	last := r.Last()
	if last["a.rs"][StageParse] != StatusDone {
		t.Errorf("last status = %v", last["a.rs"][StageParse])
	}
	if len(r.Events()) != 2 {
		t.Errorf("expected 2 events, got %d", len(r.Events()))
	}
}
