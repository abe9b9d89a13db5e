package observ

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.Measure("parse", func() string { return "2 files" })
	idx := tm.Begin("emit")
	tm.End(idx, "")
	tm.End(99, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "parse" || report.Phases[0].Note != "2 files" {
		t.Errorf("unexpected first phase: %+v", report.Phases[0])
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Error("total must cover every phase")
	}

	summary := tm.Summary()
	for _, want := range []string{"timings:", "parse", "// 2 files", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	var buf bytes.Buffer
	if err := tm.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || len(decoded.Phases) != 2 {
		t.Errorf("bad JSON report: %v %s", err, buf.String())
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Measure("x", func() string { return "" })
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Error("nil timer must report nothing")
	}
}

func TestReportShareAndWall(t *testing.T) {
	base := time.Unix(0, 0)
	clock := []time.Duration{0, 10, 5, 15}
	tm := NewTimer()
	tm.now = func() time.Time {
		d := clock[0]
		clock = clock[1:]
		return base.Add(d * time.Millisecond)
	}

	parse := tm.Begin("parse")
	tm.End(parse, "")
	emit := tm.Begin("emit")
	tm.End(emit, "")

	r := tm.Report()
	if r.TotalMS != 20 {
		t.Errorf("total = %v, want 20", r.TotalMS)
	}
	if r.WallMS != 15 {
		t.Errorf("wall = %v, want 15", r.WallMS)
	}
	if r.Phases[0].Share != 0.5 || r.Phases[1].Share != 0.5 {
		t.Errorf("shares = %v %v, want 0.5 each", r.Phases[0].Share, r.Phases[1].Share)
	}
	if !strings.Contains(tm.Summary(), "wall") {
		t.Errorf("overlapping phases should print a wall line:\n%s", tm.Summary())
	}
}
