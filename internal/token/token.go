package token

import (
	"strings"

	"rid/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, char or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, RawStringLit, CharLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= Tilde
}

// IsKeyword reports whether the token is a strict keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwAs && t.Kind <= KwWhile
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Ident returns the identifier name with any raw "r#" prefix removed.
func (t Token) Ident() string {
	return strings.TrimPrefix(t.Text, "r#")
}

// DocComments returns the text of outer doc comments in the leading trivia.
func (t Token) DocComments() []string {
	var out []string
	for _, tv := range t.Leading {
		switch tv.Kind {
		case TriviaDocLine:
			out = append(out, strings.TrimSpace(strings.TrimPrefix(tv.Text, "///")))
		case TriviaDocBlock:
			body := strings.TrimSuffix(strings.TrimPrefix(tv.Text, "/**"), "*/")
			out = append(out, strings.TrimSpace(body))
		}
	}
	return out
}
