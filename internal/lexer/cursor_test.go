package lexer

import (
	"testing"

	"rid/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rs", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("Peek = %q, want %q", got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatalf("expected EOF state at the end")
	}
}

func TestPrefixHelpers(t *testing.T) {
	cursor := NewCursor(createFile("r#\"x\""))
	tests := []struct {
		prefix string
		eat    bool
		off    uint32
	}{
		{"r##", false, 0},
		{"r#", true, 2},
		{"\"x\"!", false, 2},
		{"\"x\"", true, 5},
		{"", true, 5},
	}
	for _, tt := range tests {
		if got := cursor.EatPrefix(tt.prefix); got != tt.eat || cursor.Off != tt.off {
			t.Fatalf("EatPrefix(%q) = %v at %d, want %v at %d", tt.prefix, got, cursor.Off, tt.eat, tt.off)
		}
	}
	if cursor.HasPrefix("\"") || cursor.PeekAt(0) != 0 {
		t.Fatalf("exhausted cursor must not match")
	}
}

func TestMarkResetSpan(t *testing.T) {
	file := createFile("struct Todo;")
	cursor := NewCursor(file)
	m := cursor.Mark()
	for range 6 {
		cursor.Bump()
	}
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 6 || sp.File != file.ID {
		t.Fatalf("SpanFrom = %v", sp)
	}
	cursor.Reset(m)
	if cursor.Off != 0 {
		t.Fatalf("Reset did not rewind: %d", cursor.Off)
	}
	if !cursor.Eat('s') || cursor.Eat('s') {
		t.Fatalf("Eat must consume only matching bytes")
	}
	cursor.SkipToEnd()
	if !cursor.EOF() {
		t.Fatalf("SkipToEnd must reach EOF")
	}
}
