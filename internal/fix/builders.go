package fix

import (
	"fmt"

	"rid/internal/diag"
	"rid/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// PreferredIf marks fix as preferred when cond holds.
func PreferredIf(cond bool) Option {
	return func(f *diag.Fix) {
		f.IsPreferred = f.IsPreferred || cond
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

// MakeFixID builds a stable id from the diagnostic code and the span start.
func MakeFixID(code diag.Code, sp source.Span) string {
	return fmt.Sprintf("%s-%d-%d", code.ID(), sp.File, sp.Start)
}

func build(title string, app diag.FixApplicability, edits []diag.FixEdit, opts []Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Applicability: app,
		Edits:         edits,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText creates fix that inserts text at span (Span.Start == Span.End).
func InsertText(title string, at source.Span, text string, guard string, opts ...Option) diag.Fix {
	return build(title, diag.FixApplicabilityAlwaysSafe,
		[]diag.FixEdit{{Span: at.At(), NewText: text, OldText: guard}}, opts)
}

// DeleteSpan removes text covered by span.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	return build(title, diag.FixApplicabilityAlwaysSafe,
		[]diag.FixEdit{{Span: span, OldText: expect}}, opts)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	return build(title, diag.FixApplicabilityAlwaysSafe,
		[]diag.FixEdit{{Span: span, NewText: newText, OldText: expect}}, opts)
}

// WrapWith surrounds span with prefix and suffix insertions.
func WrapWith(title string, span source.Span, prefix, suffix string, opts ...Option) diag.Fix {
	edits := []diag.FixEdit{
		{Span: source.Span{File: span.File, Start: span.Start, End: span.Start}, NewText: prefix},
		{Span: source.Span{File: span.File, Start: span.End, End: span.End}, NewText: suffix},
	}
	return build(title, diag.FixApplicabilitySafeWithHeuristics, edits, opts)
}

// InsertAttr puts `#[rid::<attr>(<args>)]` on its own line before the item
// whose first attribute or keyword starts at `at`. indent repeats the item's
// leading whitespace so the following line keeps its column.
func InsertAttr(title string, at source.Span, attr, args, indent string, opts ...Option) diag.Fix {
	text := "#[rid::" + attr
	if args != "" {
		text += "(" + args + ")"
	}
	text += "]\n" + indent
	return build(title, diag.FixApplicabilitySafeWithHeuristics,
		[]diag.FixEdit{{Span: at.At(), NewText: text}}, opts)
}
