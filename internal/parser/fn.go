package parser

import (
	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/token"
)

// parseFn разбирает сигнатуру функции или метода; тело пропускается.
func (p *Parser) parseFn(item ast.Item) (ast.ItemID, bool) {
	var payload ast.FnItem
	for !p.at(token.KwFn) {
		switch p.advance().Kind {
		case token.KwUnsafe:
			payload.Unsafe = true
		case token.KwExtern:
			payload.Extern = true
			p.eat(token.StringLit)
		}
	}
	p.advance() // fn
	name, ok := p.expectIdent("function name")
	if !ok {
		return ast.NoItemID, false
	}
	item.Name, item.NameSpan = name.Ident(), name.Span
	if item.Generics, ok = p.parseGenerics(); !ok {
		return ast.NoItemID, false
	}
	if _, ok = p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return ast.NoItemID, false
	}
	if !p.parseParams(&payload) {
		return ast.NoItemID, false
	}
	if p.eat(token.Arrow) {
		if payload.Result, ok = p.parseType(); !ok {
			return ast.NoItemID, false
		}
	}
	if p.eat(token.KwWhere) {
		if !p.skipUntil(true, token.LBrace, token.Semicolon) {
			p.err(diag.SynExpectBody, "unterminated where clause")
			return ast.NoItemID, false
		}
	}
	switch {
	case p.at(token.LBrace):
		if !p.skipBalanced() {
			return ast.NoItemID, false
		}
		payload.HasBody = true
	case p.at(token.Semicolon):
		p.advance()
	default:
		p.err(diag.SynExpectBody, "expected function body or ';'")
		return ast.NoItemID, false
	}
	item.Span = item.Span.Cover(p.lastSpan)
	return p.arenas.NewFn(item, payload), true
}

// parseParams reads everything after `(` up to and including `)`.
func (p *Parser) parseParams(fn *ast.FnItem) bool {
	first := true
	for !p.at(token.RParen) {
		if _, ok := p.parseOuterAttrs(); !ok {
			return false
		}
		if first && p.atReceiver() {
			if !p.parseReceiver(fn) {
				return false
			}
		} else if p.at(token.DotDotDot) {
			p.advance() // C variadic
		} else {
			id, ok := p.parseParam()
			if !ok {
				return false
			}
			fn.Params = append(fn.Params, id)
		}
		first = false
		if !p.eat(token.Comma) {
			break
		}
	}
	_, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ',' or ')' in parameter list")
	return ok
}

// atReceiver распознаёт self, mut self, &self, &mut self, &'a self, &'a mut self.
func (p *Parser) atReceiver() bool {
	i := 0
	if p.peekN(i).Kind == token.Amp {
		i++
		if p.peekN(i).Kind == token.Lifetime {
			i++
		}
	}
	if p.peekN(i).Kind == token.KwMut {
		i++
	}
	return p.peekN(i).Kind == token.KwSelfValue && p.peekN(i+1).Kind != token.ColonColon
}

func (p *Parser) parseReceiver(fn *ast.FnItem) bool {
	start := p.peek().Span
	fn.Receiver = ast.ReceiverValue
	if p.eat(token.Amp) {
		fn.Receiver = ast.ReceiverRef
		p.eat(token.Lifetime)
		if p.eat(token.KwMut) {
			fn.Receiver = ast.ReceiverRefMut
		}
	} else {
		p.eat(token.KwMut)
	}
	p.advance() // self
	if p.eat(token.Colon) {
		// self: &Self, self: &mut Self, self: Box<Self>
		typ, ok := p.parseType()
		if !ok {
			return false
		}
		if t := p.arenas.Types.Get(typ); t != nil && t.Kind == ast.TypeExprRef {
			fn.Receiver = ast.ReceiverRef
			if t.Mut {
				fn.Receiver = ast.ReceiverRefMut
			}
		}
	}
	fn.ReceiverSpan = start.Cover(p.lastSpan)
	return true
}

func (p *Parser) parseParam() (ast.FnParamID, bool) {
	start := p.peek().Span
	param := ast.FnParam{Pattern: ast.PatternOther}

	mut := p.at(token.KwMut) && p.peekN(1).Kind == token.Ident && p.peekN(2).Kind == token.Colon
	if mut {
		p.advance()
	}
	if t := p.peek(); t.Kind == token.Ident && p.peekN(1).Kind == token.Colon {
		p.advance()
		param.Pattern = ast.PatternIdent
		param.Name = t.Ident()
		param.Mut = mut
	} else if !p.skipUntil(false, token.Colon, token.Comma, token.RParen) || !p.at(token.Colon) {
		p.err(diag.SynExpectColon, "expected ':' after parameter pattern")
		return ast.NoFnParamID, false
	}
	param.PatternSpan = start.Cover(p.lastSpan)

	p.advance() // :
	typ, ok := p.parseType()
	if !ok {
		return ast.NoFnParamID, false
	}
	param.Type = typ
	param.Span = start.Cover(p.lastSpan)
	return p.arenas.NewFnParam(param), true
}
