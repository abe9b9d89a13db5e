package lexer

import (
	"rid/internal/diag"
	"rid/internal/token"
)

// Поддержка: 0, 1_000, 0b.., 0o.., 0x.., 1.0, 1e-3, и суффиксы типов (1u8, 2.5f32).
// Суффикс остаётся в Token.Text.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			lx.cursor.Off += 2
			lx.eatDigits(func(b byte) bool { return b == '0' || b == '1' })
			lx.eatSuffix()
			return lx.emit(kind, start)
		case 'o', 'O':
			lx.cursor.Off += 2
			lx.eatDigits(func(b byte) bool { return b >= '0' && b <= '7' })
			lx.eatSuffix()
			return lx.emit(kind, start)
		case 'x', 'X':
			lx.cursor.Off += 2
			lx.eatDigits(isHex)
			lx.eatSuffix()
			return lx.emit(kind, start)
		}
	}

	lx.eatDigits(isDec)

	// дробная часть: "1.5", "1." но не "1..2" и не "1.foo()" / "x.0.1"
	if lx.cursor.Peek() == '.' {
		next := lx.cursor.PeekAt(1)
		if next != '.' && !isIdentStartByte(next) {
			lx.cursor.Bump()
			kind = token.FloatLit
			lx.eatDigits(isDec)
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(mark)
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after exponent")
			lx.cursor.Bump()
			return lx.emit(token.Invalid, start)
		}
		kind = token.FloatLit
		lx.eatDigits(isDec)
	}

	if suffix := lx.eatSuffix(); suffix == "f32" || suffix == "f64" {
		kind = token.FloatLit
	}
	return lx.emit(kind, start)
}

func (lx *Lexer) eatDigits(ok func(byte) bool) {
	for {
		b := lx.cursor.Peek()
		if !ok(b) && b != '_' {
			return
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) eatSuffix() string {
	if !isIdentStartByte(lx.cursor.Peek()) {
		return ""
	}
	from := lx.cursor.Off
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return string(lx.file.Content[from:lx.cursor.Off])
}
