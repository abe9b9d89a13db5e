package lexer

import (
	"strings"

	"rid/internal/diag"
	"rid/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\r' коалесцируются в один TriviaSpace
//   - последовательные '\n' коалесцируются в один TriviaNewline
//   - //... -> TriviaLineComment, ///... -> TriviaDocLine, //!... -> TriviaInnerDoc
//   - /* */ -> TriviaBlockComment (вложенные), /** */ -> TriviaDocBlock, /*! */ -> TriviaInnerDoc
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' || b == '\r' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\r' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanCommentIntoHold() {
			continue
		}
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	switch lx.cursor.PeekAt(1) {
	case '/':
		lx.cursor.Off += 2
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		text := string(lx.file.Content[sp.Start:sp.End])
		kind := token.TriviaLineComment
		switch {
		case strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////"):
			kind = token.TriviaDocLine
		case strings.HasPrefix(text, "//!"):
			kind = token.TriviaInnerDoc
		}
		lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: text})
		return true

	case '*':
		lx.cursor.Off += 2
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			switch {
			case lx.cursor.EatPrefix("/*"):
				depth++
			case lx.cursor.EatPrefix("*/"):
				depth--
			default:
				lx.cursor.Bump()
			}
		}
		sp := lx.cursor.SpanFrom(start)
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
		}
		text := string(lx.file.Content[sp.Start:sp.End])
		kind := token.TriviaBlockComment
		switch {
		case strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/":
			kind = token.TriviaDocBlock
		case strings.HasPrefix(text, "/*!"):
			kind = token.TriviaInnerDoc
		}
		lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: text})
		return true
	}
	return false
}
