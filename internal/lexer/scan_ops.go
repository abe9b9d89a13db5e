package lexer

import (
	"unicode/utf8"

	"rid/internal/diag"
	"rid/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
// '<<', '>>', '<=', '>=' намеренно не склеиваются: в типах `Vec<Vec<u8>>`
// закрывающие скобки должны оставаться отдельными токенами.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.cursor.EatPrefix("..="):
		return lx.emit(token.DotDotEq, start)
	case lx.cursor.EatPrefix("..."):
		return lx.emit(token.DotDotDot, start)
	case lx.cursor.EatPrefix(".."):
		return lx.emit(token.DotDot, start)
	case lx.cursor.EatPrefix("::"):
		return lx.emit(token.ColonColon, start)
	case lx.cursor.EatPrefix("->"):
		return lx.emit(token.Arrow, start)
	case lx.cursor.EatPrefix("=>"):
		return lx.emit(token.FatArrow, start)
	case lx.cursor.EatPrefix("&&"):
		return lx.emit(token.AndAnd, start)
	case lx.cursor.EatPrefix("||"):
		return lx.emit(token.OrOr, start)
	case lx.cursor.EatPrefix("=="):
		return lx.emit(token.EqEq, start)
	case lx.cursor.EatPrefix("!="):
		return lx.emit(token.BangEq, start)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return lx.emit(token.Plus, start)
	case '-':
		return lx.emit(token.Minus, start)
	case '*':
		return lx.emit(token.Star, start)
	case '/':
		return lx.emit(token.Slash, start)
	case '%':
		return lx.emit(token.Percent, start)
	case '=':
		return lx.emit(token.Assign, start)
	case '!':
		return lx.emit(token.Bang, start)
	case '<':
		return lx.emit(token.Lt, start)
	case '>':
		return lx.emit(token.Gt, start)
	case '&':
		return lx.emit(token.Amp, start)
	case '|':
		return lx.emit(token.Pipe, start)
	case '^':
		return lx.emit(token.Caret, start)
	case '?':
		return lx.emit(token.Question, start)
	case ':':
		return lx.emit(token.Colon, start)
	case ';':
		return lx.emit(token.Semicolon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '.':
		return lx.emit(token.Dot, start)
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	case '#':
		return lx.emit(token.Pound, start)
	case '$':
		return lx.emit(token.Dollar, start)
	case '@':
		return lx.emit(token.At, start)
	case '_':
		return lx.emit(token.Underscore, start)
	case '~':
		return lx.emit(token.Tilde, start)
	default:
		// неизвестный символ: съедаем целую руну
		if ch >= utf8.RuneSelf {
			lx.cursor.Reset(start)
			lx.bumpRune()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		return lx.emit(token.Invalid, start)
	}
}
