package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rid/internal/diag"
	"rid/internal/source"
)

type palette struct {
	err, warn, info, loc, caret, note, fix *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:   mk(color.FgRed, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		info:  mk(color.FgCyan, color.Bold),
		loc:   mk(color.Bold),
		caret: mk(color.FgGreen, color.Bold),
		note:  mk(color.FgBlue),
		fix:   mk(color.FgMagenta),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprintf("%s:%d:%d", displayPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			truncate(d.Message, opts.Width))
		writeContext(w, fs, d.Primary, opts.Context, p)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				ns, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
					displayPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col, n.Msg)
			}
		}
		if opts.ShowFixes {
			for i, f := range sortedFixes(d.Fixes) {
				writeFix(w, fs, i+1, f, opts, p)
			}
		}
	}
}

func writeFix(w io.Writer, fs *source.FileSet, n int, f diag.Fix, opts PrettyOpts, p palette) {
	meta := f.Applicability.String()
	if f.ID != "" {
		meta += ", id=" + f.ID
	}
	if f.IsPreferred {
		meta += ", preferred"
	}
	fmt.Fprintf(w, "  %s %s (%s)\n", p.fix.Sprintf("fix #%d:", n), f.Title, meta)
	for _, e := range f.Edits {
		es, _ := fs.Resolve(e.Span)
		fmt.Fprintf(w, "    edit %s:%d:%d apply=%q\n", displayPath(fs, e.Span.File, opts.PathMode), es.Line, es.Col, e.NewText)
		if !opts.ShowPreview {
			continue
		}
		preview, err := buildFixEditPreview(fs, e)
		if err != nil {
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, l := range preview.before {
			fmt.Fprintf(w, "      - %s\n", l)
		}
		for _, l := range preview.after {
			fmt.Fprintf(w, "      + %s\n", l)
		}
	}
}

// writeContext prints the primary line, context lines around it and a
// caret underline aligned by display width.
func writeContext(w io.Writer, fs *source.FileSet, sp source.Span, ctx int8, p palette) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	first := int64(start.Line) - int64(max(ctx, 0))
	if first < 1 {
		first = 1
	}
	last := int64(start.Line) + int64(max(ctx, 0))
	gutter := len(fmt.Sprint(last))
	for ln := first; ln <= last; ln++ {
		line := f.GetLine(uint32(ln))
		if ln > int64(start.Line) && line == "" {
			break
		}
		fmt.Fprintf(w, "  %*d | %s\n", gutter, ln, line)
		if ln != int64(start.Line) {
			continue
		}
		prefix := line[:min(int(start.Col-1), len(line))]
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			span := line[min(int(start.Col-1), len(line)):min(int(end.Col-1), len(line))]
			width = max(runewidth.StringWidth(span), 1)
		}
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "  %*s | %s%s\n", gutter, "", strings.Repeat(" ", runewidth.StringWidth(prefix)), p.caret.Sprint(marker))
	}
}

func truncate(msg string, width uint8) string {
	if width == 0 {
		return msg
	}
	return runewidth.Truncate(msg, int(width), "…")
}
