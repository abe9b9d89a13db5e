package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"rid/internal/source"
	"rid/internal/token"
)

// TokenOutput is one token as printed by `rid tokenize`.
type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Start   string      `json:"start"`
	End     string      `json:"end"`
	Leading []string    `json:"leading,omitempty"`
}

// tokenRecords converts tokens up to and including EOF.
func tokenRecords(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		rec := TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Span:  tok.Span,
			Start: fmt.Sprintf("%d:%d", start.Line, start.Col),
			End:   fmt.Sprintf("%d:%d", end.Line, end.Col),
		}
		for _, tv := range tok.Leading {
			rec.Leading = append(rec.Leading, tv.Kind.String())
		}
		out = append(out, rec)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// FormatTokensPretty prints one numbered token per line.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, rec := range tokenRecords(tokens, fs) {
		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %-15s", i+1, rec.Kind)
		if rec.Text != "" {
			fmt.Fprintf(&b, " %q", rec.Text)
		}
		fmt.Fprintf(&b, " at %s-%s", rec.Start, rec.End)
		if len(rec.Leading) > 0 {
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(rec.Leading, ", "))
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenRecords(tokens, fs))
}
