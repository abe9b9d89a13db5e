// Package observ measures the duration of generation phases.
package observ

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Phase is one measured step of a run. Dur stays zero until the phase ends.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects phases. A nil *Timer accepts every call and records nothing.
type Timer struct {
	mu     sync.Mutex
	now    func() time.Time
	phases []Phase
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Begin opens a phase and returns the handle End expects.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return len(t.phases) - 1
}

// End closes the phase opened by Begin. Unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Note = note
}

// Measure times fn; its return value becomes the phase note.
func (t *Timer) Measure(name string, fn func() string) {
	idx := t.Begin(name)
	t.End(idx, fn())
}

// PhaseReport is the serialized form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Share      float64 `json:"share"`
	Note       string  `json:"note,omitempty"`
}

// Report is a snapshot of the timer. TotalMS sums the phases; WallMS spans
// the first start to the last finish and is smaller when phases overlap.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	WallMS  float64       `json:"wall_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	phases := append([]Phase(nil), t.phases...)
	t.mu.Unlock()
	if len(phases) == 0 {
		return Report{}
	}

	var total time.Duration
	first, last := phases[0].Start, phases[0].Start
	for _, p := range phases {
		total += p.Dur
		if p.Start.Before(first) {
			first = p.Start
		}
		if end := p.Start.Add(p.Dur); end.After(last) {
			last = end
		}
	}

	r := Report{
		TotalMS: millis(total),
		WallMS:  millis(last.Sub(first)),
		Phases:  make([]PhaseReport, 0, len(phases)),
	}
	for _, p := range phases {
		pr := PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note}
		if total > 0 {
			pr.Share = float64(p.Dur) / float64(total)
		}
		r.Phases = append(r.Phases, pr)
	}
	return r
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-20s %7.2f ms %5.1f%%", p.Name, p.DurationMS, p.Share*100)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		sb.WriteString(line + "\n")
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	if r.WallMS > 0 && r.WallMS < r.TotalMS {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "wall", r.WallMS)
	}
	return sb.String()
}

// WriteJSON writes the report as indented JSON.
func (t *Timer) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.Report())
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
