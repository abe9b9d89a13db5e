package parser

import (
	"slices"

	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/token"
)

// parseGenerics reads `<'a, T: Bound, const N: usize>`; bounds and defaults are skipped.
func (p *Parser) parseGenerics() ([]ast.GenericParam, bool) {
	if !p.eat(token.Lt) {
		return nil, true
	}
	var params []ast.GenericParam
	for !p.at(token.Gt) {
		if _, ok := p.parseOuterAttrs(); !ok {
			return nil, false
		}
		t := p.peek()
		gp := ast.GenericParam{Span: t.Span}
		switch t.Kind {
		case token.Lifetime:
			p.advance()
			gp.Name, gp.IsLifetime = t.Text, true
		case token.KwConst:
			p.advance()
			name, ok := p.expectIdent("const parameter name")
			if !ok {
				return nil, false
			}
			gp.Name, gp.Span, gp.IsConst = name.Ident(), name.Span, true
		case token.Ident:
			p.advance()
			gp.Name = t.Ident()
		default:
			p.err(diag.SynExpectIdentifier, "expected generic parameter, found \""+t.Text+"\"")
			return nil, false
		}
		params = append(params, gp)
		if !p.skipUntil(true, token.Comma, token.Gt) {
			p.err(diag.SynUnclosedDelimiter, "unclosed generic parameter list")
			return nil, false
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close generic parameters"); !ok {
		return nil, false
	}
	return params, true
}

// parseType разбирает выражение типа.
func (p *Parser) parseType() (ast.TypeID, bool) {
	t := p.peek()
	switch t.Kind {
	case token.Amp:
		return p.parseRefType()
	case token.AndAnd:
		// `&&T`: лексер склеивает два '&'
		p.advance()
		inner, ok := p.parseRefTail(t)
		if !ok {
			return ast.NoTypeID, false
		}
		return p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprRef, Span: t.Span.Cover(p.lastSpan), Elem: inner}), true
	case token.Star:
		p.advance()
		mut := false
		switch {
		case p.eat(token.KwMut):
			mut = true
		case p.eat(token.KwConst):
		default:
			p.err(diag.SynExpectType, "expected 'const' or 'mut' after '*'")
			return ast.NoTypeID, false
		}
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		return p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprPtr, Span: t.Span.Cover(p.lastSpan), Mut: mut, Elem: elem}), true
	case token.LParen:
		return p.parseTupleType()
	case token.LBracket:
		return p.parseSliceType()
	case token.Bang:
		p.advance()
		return p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprNever, Span: t.Span}), true
	case token.Underscore:
		p.advance()
		return p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprInfer, Span: t.Span}), true
	case token.KwDyn, token.KwImpl:
		return p.parseOpaqueType(ast.TypeExprTraitObject, func() bool {
			p.advance()
			return p.skipUntil(true, token.Comma, token.Gt, token.RParen, token.RBracket,
				token.Semicolon, token.LBrace, token.Assign, token.KwWhere)
		})
	case token.KwFn, token.KwUnsafe, token.KwExtern, token.KwFor:
		return p.parseOpaqueType(ast.TypeExprFn, p.skipFnPointer)
	case token.Lt:
		return p.parseOpaqueType(ast.TypeExprQualified, func() bool {
			p.advance()
			if !p.skipUntil(true, token.Gt) {
				return false
			}
			p.advance()
			for p.at(token.ColonColon) && p.peekN(1).Kind == token.Ident {
				p.advance()
				p.advance()
			}
			return true
		})
	case token.Ident, token.ColonColon, token.KwSelfType, token.KwSelfValue, token.KwCrate, token.KwSuper:
		return p.parsePathType()
	}
	p.err(diag.SynExpectType, "expected type, found \""+t.Text+"\"")
	return ast.NoTypeID, false
}

func (p *Parser) parseRefType() (ast.TypeID, bool) {
	amp := p.advance()
	return p.parseRefTail(amp)
}

// parseRefTail читает `['a] [mut] T` после '&'.
func (p *Parser) parseRefTail(amp token.Token) (ast.TypeID, bool) {
	ref := ast.TypeExpr{Kind: ast.TypeExprRef}
	if lt := p.peek(); lt.Kind == token.Lifetime {
		p.advance()
		ref.Lifetime = lt.Text
	}
	ref.Mut = p.eat(token.KwMut)
	elem, ok := p.parseType()
	if !ok {
		return ast.NoTypeID, false
	}
	ref.Elem = elem
	ref.Span = amp.Span.Cover(p.lastSpan)
	return p.arenas.Types.New(ref), true
}

// parseTupleType: `()` это unit, `(T)` это скобки, `(T,)` и `(T, U)` это кортежи.
func (p *Parser) parseTupleType() (ast.TypeID, bool) {
	open := p.advance()
	var elems []ast.TypeID
	trailing := false
	for !p.at(token.RParen) {
		e, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		elems = append(elems, e)
		trailing = p.eat(token.Comma)
		if !trailing {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close tuple type"); !ok {
		return ast.NoTypeID, false
	}
	if len(elems) == 1 && !trailing {
		return elems[0], true
	}
	return p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprTuple, Span: open.Span.Cover(p.lastSpan), Elems: elems}), true
}

func (p *Parser) parseSliceType() (ast.TypeID, bool) {
	open := p.advance()
	from := p.pos - 1
	elem, ok := p.parseType()
	if !ok {
		return ast.NoTypeID, false
	}
	expr := ast.TypeExpr{Kind: ast.TypeExprSlice, Elem: elem}
	if p.eat(token.Semicolon) {
		expr.Kind = ast.TypeExprArray
		if !p.skipUntil(false, token.RBracket) {
			p.err(diag.SynUnclosedDelimiter, "expected ']' to close array type")
			return ast.NoTypeID, false
		}
	}
	if _, ok = p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close slice type"); !ok {
		return ast.NoTypeID, false
	}
	expr.Span = open.Span.Cover(p.lastSpan)
	if expr.Kind == ast.TypeExprArray {
		expr.Text = p.textBetween(from, p.pos)
	}
	return p.arenas.Types.New(expr), true
}

// parseOpaqueType records the source text of a type the generator never looks inside.
func (p *Parser) parseOpaqueType(kind ast.TypeExprKind, skip func() bool) (ast.TypeID, bool) {
	from := p.pos
	start := p.peek().Span
	if !skip() || p.pos == from {
		p.err(diag.SynExpectType, "malformed "+kind.String())
		return ast.NoTypeID, false
	}
	return p.arenas.Types.New(ast.TypeExpr{
		Kind: kind,
		Span: start.Cover(p.lastSpan),
		Text: p.textBetween(from, p.pos),
	}), true
}

// skipFnPointer пропускает `for<'a> unsafe extern "C" fn(A, B) -> R`.
func (p *Parser) skipFnPointer() bool {
	if p.eat(token.KwFor) {
		if !p.at(token.Lt) {
			return false
		}
		p.advance()
		if !p.skipUntil(true, token.Gt) {
			return false
		}
		p.advance()
		if !p.atOr(token.KwFn, token.KwUnsafe, token.KwExtern) {
			// for<'a> Trait bound in type position
			return p.skipUntil(true, token.Comma, token.Gt, token.RParen, token.Semicolon, token.LBrace)
		}
	}
	p.eat(token.KwUnsafe)
	if p.eat(token.KwExtern) {
		p.eat(token.StringLit)
	}
	if !p.eat(token.KwFn) || !p.at(token.LParen) {
		return false
	}
	if !p.skipBalanced() {
		return false
	}
	if p.eat(token.Arrow) {
		if _, ok := p.parseType(); !ok {
			return false
		}
	}
	return true
}

// parsePathType читает `a::b::Name<'a, T, U = V>`, включая `Fn(A) -> B`.
func (p *Parser) parsePathType() (ast.TypeID, bool) {
	start := p.peek().Span
	expr := ast.TypeExpr{Kind: ast.TypeExprPath}
	p.eat(token.ColonColon)
	for {
		t := p.peek()
		switch t.Kind {
		case token.Ident, token.KwSelfType, token.KwSelfValue, token.KwCrate, token.KwSuper:
		default:
			p.err(diag.SynExpectIdentifier, "expected path segment, found \""+t.Text+"\"")
			return ast.NoTypeID, false
		}
		p.advance()
		seg := ast.PathSegment{Name: t.Ident(), Span: t.Span}

		if p.at(token.ColonColon) && p.peekN(1).Kind == token.Lt {
			p.advance()
		}
		switch {
		case p.at(token.Lt):
			if !p.parseGenericArgs(&seg) {
				return ast.NoTypeID, false
			}
		case p.at(token.LParen) && isFnTrait(seg.Name):
			p.skipBalanced()
			if p.eat(token.Arrow) {
				if _, ok := p.parseType(); !ok {
					return ast.NoTypeID, false
				}
			}
		}
		seg.Span = seg.Span.Cover(p.lastSpan)
		expr.Segments = append(expr.Segments, seg)

		if !p.at(token.ColonColon) {
			break
		}
		p.advance()
	}
	expr.Span = start.Cover(p.lastSpan)
	return p.arenas.Types.New(expr), true
}

func (p *Parser) parseGenericArgs(seg *ast.PathSegment) bool {
	p.advance() // <
	for !p.at(token.Gt) {
		t := p.peek()
		switch {
		case t.Kind == token.Lifetime:
			p.advance()
			seg.Lifetimes = append(seg.Lifetimes, t.Text)
		case t.Kind == token.Ident && p.peekIs(1, token.Assign, token.Colon),
			t.IsLiteral(), t.Kind == token.LBrace, t.Kind == token.Minus:
			// Item = T, Item: Bound, константы
			if !p.skipUntil(true, token.Comma, token.Gt) {
				p.err(diag.SynUnclosedDelimiter, "unclosed generic argument list")
				return false
			}
		default:
			arg, ok := p.parseType()
			if !ok {
				return false
			}
			seg.Args = append(seg.Args, arg)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	_, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close generic arguments")
	return ok
}

// peekIs reports whether the token n ahead is one of kinds.
func (p *Parser) peekIs(n int, kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peekN(n).Kind)
}

func isFnTrait(name string) bool {
	return name == "Fn" || name == "FnMut" || name == "FnOnce"
}
