// Package pipeline describes generation progress: stages, per-file events
// and the sinks that consume them.
package pipeline

import "time"

// Stage describes a high-level generation phase.
type Stage string

const (
	// StageLoad reads the input from disk.
	StageLoad Stage = "load"
	// StageParse lexes and parses one input file.
	StageParse Stage = "parse"
	// StageItems turns annotated items into parsed records.
	StageItems Stage = "items"
	// StagePlan builds the shared binding plan.
	StagePlan Stage = "plan"
	// StageEmit renders the host, client and runtime sources.
	StageEmit Stage = "emit"
	// StageWrite stores the outputs.
	StageWrite Stage = "write"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageLoad, StageParse, StageItems, StagePlan, StageEmit, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusCached marks a stage skipped because the disk cache had the result.
	StatusCached Status = "cached"
	StatusError  Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; files are parsed in parallel.
type ProgressSink interface {
	OnEvent(Event)
}

// Emit sends evt to sink when sink is set.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add accumulates a duration for the given stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
