package parser

import (
	"rid/internal/diag"
	"rid/internal/source"
	"rid/internal/token"
)

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		if tok.Kind != token.Invalid {
			p.lastSpan = tok.Span
		}
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// getDiagnosticSpan: у EOF указываем на позицию сразу после последнего токена
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect ожидает конкретный токен; иначе репортит и возвращает (invalid, false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// expectIdent accepts an identifier (raw identifiers included).
func (p *Parser) expectIdent(what string) (token.Token, bool) {
	if p.at(token.Ident) {
		return p.advance(), true
	}
	p.err(diag.SynExpectIdentifier, "expected "+what+", found \""+p.peek().Text+"\"")
	return token.Token{}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		if !p.stopped {
			p.stopped = true
			p.opts.Reporter.Report(diag.SynTooManyErrors, diag.SevError, sp,
				"too many syntax errors; parsing stopped", nil, nil)
		}
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

// skipBalanced consumes one delimited group starting at the current opener.
// Returns false when EOF is reached before the closer.
func (p *Parser) skipBalanced() bool {
	open := p.advance()
	closeKind := closerOf(open.Kind)
	depth := 1
	for depth > 0 {
		t := p.peek()
		switch {
		case t.Kind == token.EOF:
			p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span, "unclosed delimiter \""+open.Text+"\"")
			return false
		case t.Kind == open.Kind:
			depth++
		case t.Kind == closeKind:
			depth--
		}
		p.advance()
	}
	return true
}

func closerOf(k token.Kind) token.Kind {
	switch k {
	case token.LParen:
		return token.RParen
	case token.LBracket:
		return token.RBracket
	case token.LBrace:
		return token.RBrace
	}
	return token.Invalid
}

// skipUntil consumes tokens until one of stops is seen at delimiter depth 0.
// Angle brackets are tracked when angles is true.
func (p *Parser) skipUntil(angles bool, stops ...token.Kind) bool {
	angle := 0
	for {
		t := p.peek()
		if t.Kind == token.EOF {
			return false
		}
		if angle == 0 {
			for _, s := range stops {
				if t.Kind == s {
					return true
				}
			}
		}
		switch t.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			if !p.skipBalanced() {
				return false
			}
			continue
		case token.Lt:
			if angles {
				angle++
			}
		case token.Gt:
			if angles && angle > 0 {
				angle--
			}
		}
		p.advance()
	}
}
