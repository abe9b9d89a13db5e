package parser

import (
	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/source"
	"rid/internal/token"
)

// parseOuterAttrs collects consecutive `#[...]` attributes.
func (p *Parser) parseOuterAttrs() ([]ast.AttrID, bool) {
	var ids []ast.AttrID
	for p.at(token.Pound) {
		if p.peekN(1).Kind == token.Bang {
			p.err(diag.SynBadAttribute, "inner attribute is not permitted here")
			return nil, false
		}
		id, ok := p.parseAttr()
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// parseAttr разбирает `#[path]`, `#[path(meta, ...)]`, `#[path = lit]` и `#![...]`.
func (p *Parser) parseAttr() (ast.AttrID, bool) {
	pound := p.advance()
	attr := ast.Attr{Inner: p.eat(token.Bang)}
	if _, ok := p.expect(token.LBracket, diag.SynBadAttribute, "expected '[' after '#'"); !ok {
		return ast.NoAttrID, false
	}

	path, pathSpan, ok := p.parseSimplePath()
	if !ok {
		return ast.NoAttrID, false
	}
	attr.Path = path
	attr.PathSpan = pathSpan

	switch {
	case p.at(token.LParen):
		attr.HasArgs = true
		open := p.peek()
		p.parseAttrArgs(&attr)
		attr.ArgsSpan = open.Span.Cover(p.lastSpan)
	case p.at(token.Assign):
		p.advance()
		v := p.peek()
		if !v.IsLiteral() && v.Kind != token.Ident {
			p.err(diag.SynBadAttribute, "expected literal after '='")
			return ast.NoAttrID, false
		}
		p.advance()
		attr.Value = v.Text
		attr.ArgsSpan = v.Span
	case p.at(token.LBracket), p.at(token.LBrace):
		attr.Opaque = true
		open := p.peek()
		if !p.skipBalanced() {
			return ast.NoAttrID, false
		}
		attr.ArgsSpan = open.Span.Cover(p.lastSpan)
	}

	closeTok, ok := p.expect(token.RBracket, diag.SynBadAttribute, "expected ']' to close attribute")
	if !ok {
		return ast.NoAttrID, false
	}
	attr.Span = pound.Span.Cover(closeTok.Span)
	return p.arenas.NewAttr(attr), true
}

// parseSimplePath reads `a::b::c` (keywords like crate/self/super allowed as segments).
func (p *Parser) parseSimplePath() ([]string, source.Span, bool) {
	var path []string
	start := p.peek().Span
	p.eat(token.ColonColon)
	for {
		t := p.peek()
		if t.Kind != token.Ident && !t.IsKeyword() {
			p.err(diag.SynExpectIdentifier, "expected path segment, found \""+t.Text+"\"")
			return nil, source.Span{}, false
		}
		p.advance()
		path = append(path, t.Ident())
		if !p.eat(token.ColonColon) {
			break
		}
	}
	return path, start.Cover(p.lastSpan), true
}

// parseAttrArgs parses `( meta, ... )`. Token trees outside the meta-item
// grammar mark the attribute Opaque instead of failing.
func (p *Parser) parseAttrArgs(attr *ast.Attr) {
	start := p.pos
	p.advance() // (
	items, ok := p.parseMetaList(token.RParen)
	if ok {
		attr.Args = items
		return
	}
	p.pos = start
	attr.Opaque = true
	attr.Args = nil
	p.skipBalanced()
}

func (p *Parser) parseMetaList(closeKind token.Kind) ([]ast.AttrArg, bool) {
	var items []ast.AttrArg
	for !p.at(closeKind) {
		arg, ok := p.parseMeta()
		if !ok {
			return nil, false
		}
		items = append(items, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.at(closeKind) {
		return nil, false
	}
	p.advance()
	return items, true
}

func (p *Parser) parseMeta() (ast.AttrArg, bool) {
	t := p.peek()
	if t.IsLiteral() && t.Kind != token.KwTrue && t.Kind != token.KwFalse || t.Kind == token.Minus {
		p.advance()
		text := t.Text
		span := t.Span
		if t.Kind == token.Minus {
			n := p.peek()
			if n.Kind != token.IntLit && n.Kind != token.FloatLit {
				return ast.AttrArg{}, false
			}
			p.advance()
			text += n.Text
			span = span.Cover(n.Span)
		}
		return ast.AttrArg{Kind: ast.AttrArgLit, Value: text, ValueSpan: span, ValueLit: true, Span: span}, true
	}
	if t.Kind != token.Ident && !t.IsKeyword() && t.Kind != token.ColonColon {
		return ast.AttrArg{}, false
	}

	start := p.pos
	name := ""
	for {
		seg := p.peek()
		if seg.Kind == token.ColonColon {
			p.advance()
			name += "::"
			continue
		}
		if seg.Kind != token.Ident && !seg.IsKeyword() {
			break
		}
		p.advance()
		name += seg.Ident()
		if !p.at(token.ColonColon) {
			break
		}
	}
	if name == "" || p.pos == start {
		return ast.AttrArg{}, false
	}
	nameSpan := p.toks[start].Span.Cover(p.lastSpan)
	arg := ast.AttrArg{Kind: ast.AttrArgPath, Name: name, NameSpan: nameSpan, Span: nameSpan}

	switch {
	case p.at(token.Assign):
		p.advance()
		v := p.peek()
		switch {
		case v.IsLiteral():
			p.advance()
			arg.Value, arg.ValueLit = v.Text, v.Kind != token.KwTrue && v.Kind != token.KwFalse
		case v.Kind == token.Ident:
			p.advance()
			arg.Value = v.Ident()
		default:
			return ast.AttrArg{}, false
		}
		arg.Kind = ast.AttrArgNameValue
		arg.ValueSpan = v.Span
		arg.Span = nameSpan.Cover(v.Span)
	case p.at(token.LParen):
		p.advance()
		items, ok := p.parseMetaList(token.RParen)
		if !ok {
			return ast.AttrArg{}, false
		}
		arg.Kind = ast.AttrArgList
		arg.Items = items
		arg.Span = nameSpan.Cover(p.lastSpan)
	}
	return arg, true
}

// parseVisibility eats `pub`, `pub(crate)`, `pub(super)`, `pub(in path)`.
func (p *Parser) parseVisibility() bool {
	if !p.at(token.KwPub) {
		return false
	}
	p.advance()
	if p.at(token.LParen) {
		switch p.peekN(1).Kind {
		case token.KwCrate, token.KwSuper, token.KwSelfValue, token.KwIn:
			p.skipBalanced()
		}
	}
	return true
}
