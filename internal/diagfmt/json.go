package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"rid/internal/diag"
	"rid/internal/source"
)

// LocationJSON is a span rendered for machine consumers. Line and column
// fields are set only with JSONOpts.IncludePositions.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON carries the edit itself and, with previews on, the affected
// lines before and after it.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Applicability string        `json:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the document written by JSON.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// jsonBuilder holds what every location conversion needs.
type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (jb jsonBuilder) location(span source.Span) LocationJSON {
	loc := LocationJSON{
		File:      displayPath(jb.fs, span.File, jb.opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if jb.opts.IncludePositions {
		start, end := jb.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (jb jsonBuilder) notes(d diag.Diagnostic) []NoteJSON {
	// timing reports keep their notes: the per-phase numbers live there
	if len(d.Notes) == 0 || (!jb.opts.IncludeNotes && d.Code != diag.ObsTimings) {
		return nil
	}
	out := make([]NoteJSON, 0, len(d.Notes))
	for _, n := range d.Notes {
		out = append(out, NoteJSON{Message: n.Msg, Location: jb.location(n.Span)})
	}
	return out
}

func (jb jsonBuilder) edit(e diag.FixEdit) FixEditJSON {
	out := FixEditJSON{
		Location: jb.location(e.Span),
		NewText:  e.NewText,
		OldText:  e.OldText,
	}
	if jb.opts.IncludePreviews {
		// stale or out-of-range edits are reported without a preview
		if p, err := buildFixEditPreview(jb.fs, e); err == nil {
			out.BeforeLines = p.before
			out.AfterLines = p.after
		}
	}
	return out
}

func (jb jsonBuilder) fixes(d diag.Diagnostic) []FixJSON {
	if !jb.opts.IncludeFixes || len(d.Fixes) == 0 {
		return nil
	}
	out := make([]FixJSON, 0, len(d.Fixes))
	for _, fix := range sortedFixes(d.Fixes) {
		fj := FixJSON{
			ID:            fix.ID,
			Title:         fix.Title,
			Applicability: fix.Applicability.String(),
			IsPreferred:   fix.IsPreferred,
		}
		for _, e := range fix.Edits {
			fj.Edits = append(fj.Edits, jb.edit(e))
		}
		out = append(out, fj)
	}
	return out
}

// BuildDiagnosticsOutput converts the first opts.Max diagnostics of bag
// (all of them when Max is 0) without serializing.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) (DiagnosticsOutput, error) {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	jb := jsonBuilder{fs: fs, opts: opts}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: jb.location(d.Primary),
			Notes:    jb.notes(d),
			Fixes:    jb.fixes(d),
		})
	}
	out.Count = len(out.Diagnostics)
	return out, nil
}

// JSON writes the bag as an indented DiagnosticsOutput document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// sortedFixes orders preferred fixes first, then by applicability and title.
func sortedFixes(fixes []diag.Fix) []diag.Fix {
	out := append([]diag.Fix(nil), fixes...)
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := out[i], out[j]
		if fi.IsPreferred != fj.IsPreferred {
			return fi.IsPreferred
		}
		if fi.Applicability != fj.Applicability {
			return fi.Applicability < fj.Applicability
		}
		if fi.Title != fj.Title {
			return fi.Title < fj.Title
		}
		return fi.ID < fj.ID
	})
	return out
}
