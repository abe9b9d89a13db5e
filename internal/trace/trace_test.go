package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeItem, false},
		{LevelDebug, ScopeItem, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Errorf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, pass := StartSpan(ctx, ScopePass, "parse")
	_, file := StartSpan(ctx, ScopeFile, "file:lib.rs")
	_, item := StartSpan(ctx, ScopeItem, "item:Todo")
	item.End("")
	file.WithExtra("items", "3").End("")
	Point(ctx, ScopeFile, "cache", "miss")
	pass.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 events, got %d:\n%s", len(lines), buf.String())
	}
	var first, last struct {
		Kind     string            `json:"kind"`
		Name     string            `json:"name"`
		SpanID   uint64            `json:"span_id"`
		ParentID uint64            `json:"parent_id"`
		Detail   string            `json:"detail"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &first); err != nil {
		t.Fatal(err)
	}
	if first.Kind != "begin" || first.Name != "file:lib.rs" || first.ParentID != pass.ID() {
		t.Errorf("unexpected nested begin: %+v", first)
	}
	if err := json.Unmarshal([]byte(lines[4]), &last); err != nil {
		t.Fatal(err)
	}
	if last.Kind != "end" || last.Detail != "ok" {
		t.Errorf("unexpected end: %+v", last)
	}
}

func TestRingTracerKeepsLatest(t *testing.T) {
	r := NewRingTracer(2, LevelError)
	for _, name := range []string{"a", "b", "c"} {
		Begin(r, ScopePass, name, 0)
	}
	Begin(r, ScopeFile, "dropped", 0)
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "→ c") {
		t.Errorf("dump missing event:\n%s", buf.String())
	}
}

func TestChromeFormatIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatChrome)
	Begin(tr, ScopeDriver, "generate", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		TraceEvents []map[string]any `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome trace: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 2 || doc.TraceEvents[0]["ph"] != "B" || doc.TraceEvents[1]["ph"] != "E" {
		t.Errorf("unexpected events: %+v", doc.TraceEvents)
	}
}

func TestNewAndRing(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must give a disabled tracer: %v", err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "emit", 0).End("")
	if Ring(tr) == nil || len(Ring(tr).Snapshot()) != 2 {
		t.Error("both mode must keep a ring")
	}
	if !strings.Contains(buf.String(), "emit") {
		t.Errorf("stream output missing event: %q", buf.String())
	}
	if FromContext(context.Background()) != Nop {
		t.Error("empty context must yield Nop")
	}
}

func TestWithTracerKeepsOpenSpan(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelPhase, FormatText))
	ctx, pass := StartSpan(ctx, ScopePass, "emit")
	if got := CurrentSpan(ctx).SpanID; got != pass.ID() || got == 0 {
		t.Fatalf("CurrentSpan = %d, want %d", got, pass.ID())
	}
	swapped := WithTracer(ctx, Nop)
	if CurrentSpan(swapped).SpanID != pass.ID() {
		t.Errorf("replacing the tracer dropped the open span")
	}
	if FromContext(swapped) != Nop {
		t.Errorf("tracer was not replaced")
	}
	if CurrentSpan(context.Background()).SpanID != 0 {
		t.Errorf("root context must have no span")
	}
}

func TestParseModeAndFormat(t *testing.T) {
	for _, m := range []StorageMode{ModeStream, ModeRing, ModeBoth} {
		got, err := ParseMode(strings.ToUpper(m.String()))
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m, got, err)
		}
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Error("ParseMode(disk) should fail")
	}
	for path, want := range map[string]Format{
		"run.ndjson": FormatNDJSON,
		"run.json":   FormatChrome,
		"-":          FormatText,
		"":           FormatText,
	} {
		if got := formatFor(path); got != want {
			t.Errorf("formatFor(%q) = %v, want %v", path, got, want)
		}
	}
}
