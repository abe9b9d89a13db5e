package token

import "rid/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine  // "///" outer doc
	TriviaDocBlock // "/** */" outer doc
	TriviaInnerDoc // "//!" and "/*! */"
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

var triviaNames = [...]string{
	TriviaSpace:        "space",
	TriviaNewline:      "newline",
	TriviaLineComment:  "line-comment",
	TriviaBlockComment: "block-comment",
	TriviaDocLine:      "doc-line",
	TriviaDocBlock:     "doc-block",
	TriviaInnerDoc:     "inner-doc",
}

func (k TriviaKind) String() string {
	if int(k) < len(triviaNames) {
		return triviaNames[k]
	}
	return "trivia?"
}
