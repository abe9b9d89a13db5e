package lexer

import (
	"unicode/utf8"

	"rid/internal/diag"
	"rid/internal/token"

	"golang.org/x/text/unicode/norm"
)

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Token.Text: ровно исходный срез; "r#" у сырых идентификаторов сохраняется.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	raw := false
	if lx.cursor.HasPrefix("r#") && isIdentStartByte(lx.cursor.PeekAt(2)) {
		lx.cursor.Off += 2
		raw = true
	}

	r, sz := lx.peekRune()
	if sz == 0 || !isIdentStartRune(r) {
		return lx.scanOperatorOrPunct()
	}
	ascii := true
	for {
		r, sz = lx.peekRune()
		if sz == 0 {
			break
		}
		if r < utf8.RuneSelf {
			if !isIdentContinueByte(byte(r)) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if !isIdentContinueRune(r) {
			break
		}
		ascii = false
		lx.bumpRune()
	}

	tok := lx.emit(token.Ident, start)
	if tok.Text == "_" {
		tok.Kind = token.Underscore
		return tok
	}
	if !raw {
		if k, ok := token.LookupKeyword(tok.Text); ok {
			tok.Kind = k
			return tok
		}
	}
	if !ascii && !norm.NFC.IsNormalString(tok.Text) {
		if lx.opts.Reporter != nil {
			diag.ReportWarning(lx.opts.Reporter, diag.LexNonNFCIdent, tok.Span,
				"identifier is not in NFC form; generated symbols use the normalized spelling").
				WithFixSuggestion(diag.Fix{
					ID:            "lexer.nfc-ident",
					Title:         "normalize identifier to NFC",
					Applicability: diag.FixApplicabilityAlwaysSafe,
					IsPreferred:   true,
					Edits:         []diag.FixEdit{{Span: tok.Span, NewText: norm.NFC.String(tok.Text), OldText: tok.Text}},
				}).Emit()
		}
	}
	return tok
}
