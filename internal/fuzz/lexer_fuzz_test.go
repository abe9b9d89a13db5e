package fuzztests

import (
	"testing"

	"rid/internal/diag"
	"rid/internal/lexer"
	"rid/internal/source"
	"rid/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.rs", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var prevEnd uint32
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %d span %v overlaps previous end %d", i, tok.Span, prevEnd)
			}
			prevEnd = tok.Span.End
			if i > len(input)+1 {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
		}
	})
}
