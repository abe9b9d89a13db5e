package lexer

import (
	"rid/internal/diag"
	"rid/internal/token"
)

// scanPrefixedLiteral handles r"..", r#".."#, b"..", b'.', br"..".
// ok=false means the prefix letter starts an identifier.
func (lx *Lexer) scanPrefixedLiteral() (token.Token, bool) {
	start := lx.cursor.Mark()
	b0 := lx.cursor.Peek()
	b1 := lx.cursor.PeekAt(1)

	switch {
	case b0 == 'b' && b1 == '"':
		lx.cursor.Bump()
		return lx.scanString(start), true
	case b0 == 'b' && b1 == '\'':
		lx.cursor.Bump()
		return lx.scanCharOrLifetime(start), true
	case b0 == 'b' && b1 == 'r' && (lx.cursor.PeekAt(2) == '"' || lx.cursor.PeekAt(2) == '#'):
		lx.cursor.Off += 2
		return lx.scanRawString(start), true
	case b0 == 'r' && b1 == '"':
		lx.cursor.Bump()
		return lx.scanRawString(start), true
	case b0 == 'r' && b1 == '#' && (lx.cursor.PeekAt(2) == '"' || lx.cursor.PeekAt(2) == '#'):
		lx.cursor.Bump()
		return lx.scanRawString(start), true
	}
	return token.Token{}, false
}

// scanString consumes "..." with escapes. Rust strings may span lines.
func (lx *Lexer) scanString(start Mark) token.Token {
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch b {
		case '"':
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.scanEscape()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return lx.emit(token.Invalid, start)
}

// scanEscape consumes one escape after '\'. Unknown escapes are reported.
func (lx *Lexer) scanEscape() {
	escStart := lx.cursor.Mark() - 1
	b := lx.cursor.Bump()
	switch b {
	case 'n', 'r', 't', '\\', '0', '\'', '"', '\n':
	case 'x':
		for range 2 {
			if !isHex(lx.cursor.Peek()) {
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "malformed \\x escape")
				return
			}
			lx.cursor.Bump()
		}
	case 'u':
		if !lx.cursor.Eat('{') {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "expected '{' after \\u")
			return
		}
		for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
		if !lx.cursor.Eat('}') {
			lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "unterminated \\u{...} escape")
		}
	default:
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "unknown escape sequence")
	}
}

// scanRawString expects the cursor on 'r' of r#*"; start covers any b prefix.
func (lx *Lexer) scanRawString(start Mark) token.Token {
	lx.cursor.Eat('r')
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	if !lx.cursor.Eat('"') {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadRawString, sp, "expected '\"' after raw string prefix")
		return lx.emit(token.Invalid, start)
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			return lx.emit(token.RawStringLit, start)
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated raw string literal")
	return lx.emit(token.Invalid, start)
}

// scanCharOrLifetime disambiguates 'a' (char), '\n' (char) and 'a (lifetime).
func (lx *Lexer) scanCharOrLifetime(start Mark) token.Token {
	lx.cursor.Bump() // '
	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		lx.scanEscape()
		if !lx.cursor.Eat('\'') {
			lx.errLex(diag.LexUnterminatedChar, lx.cursor.SpanFrom(start), "unterminated character literal")
			return lx.emit(token.Invalid, start)
		}
		return lx.emit(token.CharLit, start)
	}

	r, sz := lx.peekRune()
	if sz == 0 {
		lx.errLex(diag.LexUnterminatedChar, lx.cursor.SpanFrom(start), "unterminated character literal")
		return lx.emit(token.Invalid, start)
	}
	lx.bumpRune()
	if lx.cursor.Eat('\'') {
		return lx.emit(token.CharLit, start)
	}
	if !isIdentStartRune(r) {
		lx.errLex(diag.LexUnterminatedChar, lx.cursor.SpanFrom(start), "unterminated character literal")
		return lx.emit(token.Invalid, start)
	}
	for {
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}
	return lx.emit(token.Lifetime, start)
}
