package parser

import (
	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/token"
)

// parseImpl разбирает `impl<..> [!]Trait for Type where .. { методы }`.
// Associated consts, types and macro invocations are skipped.
func (p *Parser) parseImpl(item ast.Item) (ast.ItemID, bool) {
	p.eat(token.KwUnsafe)
	p.advance() // impl
	var ok bool
	if item.Generics, ok = p.parseGenerics(); !ok {
		return ast.NoItemID, false
	}
	p.eat(token.KwConst)
	p.eat(token.Bang)

	var payload ast.ImplItem
	first, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	payload.SelfType = first
	if p.eat(token.KwFor) {
		payload.Trait = first
		if payload.SelfType, ok = p.parseType(); !ok {
			return ast.NoItemID, false
		}
	}
	if !p.skipWhere(token.LBrace) {
		return ast.NoItemID, false
	}
	if _, ok = p.expect(token.LBrace, diag.SynExpectBody, "expected '{' after impl header"); !ok {
		return ast.NoItemID, false
	}
	for p.at(token.Pound) && p.peekN(1).Kind == token.Bang {
		if _, ok = p.parseAttr(); !ok {
			return ast.NoItemID, false
		}
	}

	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.stopped {
		start := p.pos
		method, isFn, ok := p.parseImplMember()
		if !ok {
			p.failed++
			p.resyncFrom(start, true)
			continue
		}
		if isFn {
			payload.Methods = append(payload.Methods, method)
		}
	}
	if _, ok = p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close impl block"); !ok {
		return ast.NoItemID, false
	}
	item.Span = item.Span.Cover(p.lastSpan)
	return p.arenas.NewImpl(item, payload), true
}

func (p *Parser) parseImplMember() (ast.ItemID, bool, bool) {
	if p.eat(token.Semicolon) {
		return ast.NoItemID, false, true
	}
	first := p.peek()
	member := ast.Item{Docs: first.DocComments(), Span: first.Span}
	attrs, ok := p.parseOuterAttrs()
	if !ok {
		return ast.NoItemID, false, false
	}
	member.Attrs = attrs
	if next := p.peek(); len(attrs) > 0 && next.Span != first.Span {
		member.Docs = append(member.Docs, next.DocComments()...)
	}
	member.Public = p.parseVisibility()
	if p.atIdent("default") && p.peekN(1).Kind != token.Bang {
		p.advance()
	}

	switch {
	case p.atFnStart():
		id, ok := p.parseFn(member)
		return id, ok, ok
	case p.at(token.Ident) && p.peekN(1).Kind == token.Bang:
		_, ok := p.parseMacroItem(member)
		return ast.NoItemID, false, ok
	case p.atOr(token.KwConst, token.KwType):
		if !p.skipUntil(false, token.Semicolon) {
			p.err(diag.SynExpectSemicolon, "expected ';' after associated item")
			return ast.NoItemID, false, false
		}
		p.advance()
		return ast.NoItemID, false, true
	}
	p.err(diag.SynUnexpectedToken, "expected associated item, found \""+p.peek().Text+"\"")
	return ast.NoItemID, false, false
}
