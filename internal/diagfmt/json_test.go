package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rid/internal/diag"
	"rid/internal/source"
)

const todoSource = "#[rid::modle]\npub struct Todo {\n    done: Bool,\n}\n"

func decodeJSON(t *testing.T, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	t.Helper()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	return out
}

func TestJSONLocation(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("model.rs", []byte(todoSource))
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.TypUnsupportedField, source.Span{File: id, Start: 42, End: 46}, "unsupported field type `Bool`"))

	tests := []struct {
		name      string
		positions bool
		want      LocationJSON
	}{
		{"bytes only", false, LocationJSON{File: "model.rs", StartByte: 42, EndByte: 46}},
		{"with positions", true, LocationJSON{File: "model.rs", StartByte: 42, EndByte: 46, StartLine: 3, StartCol: 11, EndLine: 3, EndCol: 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := decodeJSON(t, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludePositions: tt.positions})
			if out.Count != 1 {
				t.Fatalf("count = %d, want 1", out.Count)
			}
			got := out.Diagnostics[0]
			if got.Severity != "ERROR" || got.Code != "TYP5013" {
				t.Errorf("severity/code = %s/%s", got.Severity, got.Code)
			}
			if diff := cmp.Diff(tt.want, got.Location); diff != "" {
				t.Errorf("location mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONNotesAndFixesAreOptIn(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("model.rs", []byte(todoSource))
	attr := source.Span{File: id, Start: 7, End: 12}
	d := diag.NewError(diag.AtrUnknown, attr, "unknown attribute `rid::modle`").
		WithNote(attr, "did you mean `rid::model`?").
		WithFix("replace with `rid::model`", diag.FixEdit{Span: attr, NewText: "model", OldText: "modle"})
	bag := diag.NewBag(4)
	bag.Add(d)

	plain := decodeJSON(t, bag, fs, JSONOpts{PathMode: PathModeBasename})
	if len(plain.Diagnostics[0].Notes) != 0 || len(plain.Diagnostics[0].Fixes) != 0 {
		t.Fatalf("notes/fixes leaked without opt-in: %+v", plain.Diagnostics[0])
	}

	full := decodeJSON(t, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true, IncludeFixes: true})
	got := full.Diagnostics[0]
	if len(got.Notes) != 1 || got.Notes[0].Message != "did you mean `rid::model`?" {
		t.Errorf("notes = %+v", got.Notes)
	}
	want := []FixJSON{{
		Title:         "replace with `rid::model`",
		Applicability: "always-safe",
		Edits: []FixEditJSON{{
			Location: LocationJSON{File: "model.rs", StartByte: 7, EndByte: 12},
			NewText:  "model",
			OldText:  "modle",
		}},
	}}
	if diff := cmp.Diff(want, got.Fixes); diff != "" {
		t.Errorf("fixes mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("model.rs", []byte(todoSource))
	bag := diag.NewBag(10)
	for i := range 5 {
		bag.Add(diag.NewError(diag.LexUnknownChar, source.Span{File: id, Start: uint32(i), End: uint32(i + 1)}, "unknown character"))
	}
	for _, tt := range []struct{ max, want int }{{0, 5}, {3, 3}, {9, 5}} {
		out := decodeJSON(t, bag, fs, JSONOpts{Max: tt.max})
		if out.Count != tt.want || len(out.Diagnostics) != tt.want {
			t.Errorf("Max=%d: count=%d len=%d, want %d", tt.max, out.Count, len(out.Diagnostics), tt.want)
		}
	}
}

func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/work/todo_app")
	id := fs.AddVirtual("/work/todo_app/src/model.rs", []byte(todoSource))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.AtrUnknown, source.Span{File: id, Start: 7, End: 12}, "unknown attribute"))

	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, "/work/todo_app/src/model.rs"},
		{PathModeRelative, "src/model.rs"},
		{PathModeBasename, "model.rs"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			out := decodeJSON(t, bag, fs, JSONOpts{PathMode: tt.mode})
			if got := out.Diagnostics[0].Location.File; got != tt.want {
				t.Errorf("file = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("model.rs", []byte(todoSource))
	attr := source.Span{File: id, Start: 7, End: 12}

	tests := []struct {
		name   string
		edit   diag.FixEdit
		before []string
		after  []string
	}{
		{
			name:   "replace",
			edit:   diag.FixEdit{Span: attr, NewText: "model", OldText: "modle"},
			before: []string{"#[rid::modle]"},
			after:  []string{"#[rid::model]"},
		},
		{
			name:   "insert across lines",
			edit:   diag.FixEdit{Span: source.Span{File: id, Start: 13, End: 13}, NewText: "\n#[repr(C)]"},
			before: []string{"#[rid::modle]"},
			after:  []string{"#[rid::modle]", "#[repr(C)]"},
		},
		{
			name: "stale edit has no preview",
			edit: diag.FixEdit{Span: attr, NewText: "model", OldText: "store"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diag.NewError(diag.AtrUnknown, attr, "unknown attribute").WithFix("fix", tt.edit)
			bag := diag.NewBag(1)
			bag.Add(d)
			out := decodeJSON(t, bag, fs, JSONOpts{IncludeFixes: true, IncludePreviews: true})
			e := out.Diagnostics[0].Fixes[0].Edits[0]
			if diff := cmp.Diff(tt.before, e.BeforeLines); diff != "" {
				t.Errorf("before (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.after, e.AfterLines); diff != "" {
				t.Errorf("after (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONPreferredFixFirst(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte("pub struct S { t: T }"))
	sp := source.Span{File: id, Start: 18, End: 19}
	d := diag.NewError(diag.TypMissingInfo, sp, "missing info for type T").
		WithFixSuggestion(diag.Fix{Title: "register `T` as an enum", Applicability: diag.FixApplicabilityManualReview}).
		WithFixSuggestion(diag.Fix{Title: "register `T` as a struct", IsPreferred: true})
	bag := diag.NewBag(1)
	bag.Add(d)

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeFixes: true})
	if err != nil {
		t.Fatal(err)
	}
	fixes := out.Diagnostics[0].Fixes
	if len(fixes) != 2 || !fixes[0].IsPreferred || fixes[1].Applicability != "manual-review" {
		t.Fatalf("unexpected fix order: %+v", fixes)
	}
}
