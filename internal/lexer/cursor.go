package lexer

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"rid/internal/source"
)

// Cursor walks the bytes of one file.
type Cursor struct {
	File  *source.File
	Off   uint32
	limit uint32
}

func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s is too large: %w", f.Path, err))
	}
	return Cursor{File: f, limit: limit}
}

func (c *Cursor) EOF() bool { return c.Off >= c.limit }

// rest is the unread input.
func (c *Cursor) rest() []byte { return c.File.Content[c.Off:c.limit] }

// Peek returns the current byte, or 0 at the end.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt returns the byte n positions ahead, or 0 past the end.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return bytes.HasPrefix(c.rest(), []byte(s))
}

// EatPrefix consumes s when the unread input starts with it.
func (c *Cursor) EatPrefix(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.Off += uint32(len(s)) // #nosec G115 -- s is a short literal
	return true
}

// Eat consumes b when it is the next byte.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.File.Content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Bump consumes and returns the next byte, or 0 at the end.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	c.Off++
	return c.File.Content[c.Off-1]
}

// Mark is a saved offset; SpanFrom turns it into the span read since.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

func (c *Cursor) SkipToEnd() { c.Off = c.limit }
