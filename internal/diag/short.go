package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"rid/internal/source"
)

// shortLine is one row of the short format.
type shortLine struct {
	label, code, path string
	line, col         uint32
	msg               string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.col, l.msg)
}

func compareShort(a, b shortLine) int {
	return cmp.Or(
		strings.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		strings.Compare(a.label, b.label),
		strings.Compare(a.code, b.code),
		strings.Compare(a.msg, b.msg),
	)
}

// FormatShortDiagnostics renders diagnostics one per line as
// "<severity> <CODE> <path>:<line>:<col> <message>", sorted by position.
// Notes become "note" lines carrying their parent's code. The output is
// stable and shared by `rid diag --format short` and tests.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	add := func(label string, code Code, sp source.Span, msg string) {
		f := fs.Get(sp.File)
		if f == nil {
			return
		}
		start, _ := fs.Resolve(sp)
		lines = append(lines, shortLine{
			label: label,
			code:  code.ID(),
			path:  shortPath(f.FormatPath("relative", fs.BaseDir())),
			line:  start.Line,
			col:   start.Col,
			msg:   oneLine(msg),
		})
	}
	for _, d := range diags {
		add(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}
	slices.SortStableFunc(lines, compareShort)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func shortPath(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

// oneLine folds line breaks of any style into spaces.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.Join(strings.FieldsFunc(msg, func(r rune) bool {
		return r == '\n' || r == '\r'
	}), " "))
}
