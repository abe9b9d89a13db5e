package fix

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"rid/internal/diag"
	"rid/internal/source"
)

func TestBuilders(t *testing.T) {
	sp := source.Span{File: 1, Start: 4, End: 9}
	tests := []struct {
		name  string
		fix   diag.Fix
		want  []diag.FixEdit
		app   diag.FixApplicability
		prefd bool
	}{
		{
			name: "insert",
			fix:  InsertText("borrow", sp, "&", ""),
			want: []diag.FixEdit{{Span: source.Span{File: 1, Start: 4, End: 4}, NewText: "&"}},
			app:  diag.FixApplicabilityAlwaysSafe,
		},
		{
			name: "delete",
			fix:  DeleteSpan("drop", sp, "model"),
			want: []diag.FixEdit{{Span: sp, OldText: "model"}},
			app:  diag.FixApplicabilityAlwaysSafe,
		},
		{
			name:  "replace",
			fix:   ReplaceSpan("rename", sp, "enums", "types", Preferred()),
			want:  []diag.FixEdit{{Span: sp, NewText: "enums", OldText: "types"}},
			app:   diag.FixApplicabilityAlwaysSafe,
			prefd: true,
		},
		{
			name: "wrap",
			fix:  WrapWith("wrap", sp, "Option<", ">"),
			want: []diag.FixEdit{
				{Span: source.Span{File: 1, Start: 4, End: 4}, NewText: "Option<"},
				{Span: source.Span{File: 1, Start: 9, End: 9}, NewText: ">"},
			},
			app: diag.FixApplicabilitySafeWithHeuristics,
		},
		{
			name: "attr",
			fix:  InsertAttr("register", sp, "structs", "Todo", "    ", WithApplicability(diag.FixApplicabilityManualReview)),
			want: []diag.FixEdit{{Span: source.Span{File: 1, Start: 4, End: 4}, NewText: "#[rid::structs(Todo)]\n    "}},
			app:  diag.FixApplicabilityManualReview,
		},
		{
			name: "attr without args",
			fix:  InsertAttr("derive model", sp, "model", "", "", nil, PreferredIf(false)),
			want: []diag.FixEdit{{Span: source.Span{File: 1, Start: 4, End: 4}, NewText: "#[rid::model]\n"}},
			app:  diag.FixApplicabilitySafeWithHeuristics,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.fix.Edits); diff != "" {
				t.Errorf("edits mismatch (-want +got):\n%s", diff)
			}
			if tt.fix.Applicability != tt.app {
				t.Errorf("applicability = %s, want %s", tt.fix.Applicability, tt.app)
			}
			if tt.fix.IsPreferred != tt.prefd {
				t.Errorf("preferred = %v, want %v", tt.fix.IsPreferred, tt.prefd)
			}
		})
	}
}

func TestMakeFixID(t *testing.T) {
	got := MakeFixID(diag.TypMissingInfo, source.Span{File: 2, Start: 17, End: 21})
	if got != "TYP5001-2-17" {
		t.Errorf("MakeFixID = %q", got)
	}
	f := InsertText("x", source.Span{}, "y", "", WithID(got))
	if f.ID != got {
		t.Errorf("WithID not applied: %q", f.ID)
	}
}
