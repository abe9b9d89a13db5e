package format

import (
	"fmt"
	"strings"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
	// DocPrefix starts every doc-comment line ("///" for both targets).
	DocPrefix string
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	if o.DocPrefix == "" {
		o.DocPrefix = "///"
	}
	return o
}

// Writer accumulates generated output line by line.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a new writer positioned at the start of a line.
func NewWriter(opt Options) *Writer {
	return &Writer{
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, 4096),
		atLineStart: true,
	}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) String() string {
	return string(w.buf)
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		spaceCount := w.indentLevel * w.opt.IndentWidth
		for range spaceCount {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes s, indenting after every newline it contains.
func (w *Writer) WriteString(s string) {
	for s != "" {
		line, rest, nl := strings.Cut(s, "\n")
		if line != "" {
			w.writeIndent()
			w.buf = append(w.buf, line...)
		}
		if nl {
			w.buf = append(w.buf, '\n')
			w.atLineStart = true
		}
		s = rest
	}
}

// Line writes s as one line.
func (w *Writer) Line(s string) {
	w.WriteString(s)
	w.Newline()
}

// Linef writes one formatted line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Newline ends the current line if it has content.
func (w *Writer) Newline() {
	if !w.atLineStart {
		w.buf = append(w.buf, '\n')
		w.atLineStart = true
	}
}

// Blank writes an empty separator line; repeated calls collapse into one.
func (w *Writer) Blank() {
	w.Newline()
	n := len(w.buf)
	if n == 0 || (n >= 2 && w.buf[n-1] == '\n' && w.buf[n-2] == '\n') {
		return
	}
	w.buf = append(w.buf, '\n')
}

// Open writes header followed by " {" and indents the body.
func (w *Writer) Open(header string) {
	w.Line(header + " {")
	w.IndentPush()
}

// Openf is Open with a formatted header.
func (w *Writer) Openf(format string, args ...any) {
	w.Open(fmt.Sprintf(format, args...))
}

// Close dedents and writes closer, "}" by default.
func (w *Writer) Close(closer ...string) {
	w.IndentPop()
	if len(closer) > 0 {
		w.Line(closer[0])
		return
	}
	w.Line("}")
}

// Doc writes doc-comment lines.
func (w *Writer) Doc(lines []string) {
	for _, l := range lines {
		if l == "" {
			w.Line(w.opt.DocPrefix)
			continue
		}
		w.Linef("%s %s", w.opt.DocPrefix, l)
	}
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// Commas joins parts with ", ".
func Commas(parts []string) string {
	return strings.Join(parts, ", ")
}
