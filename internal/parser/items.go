package parser

import (
	"strconv"

	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/token"
)

// parseStruct handles `struct` and `union` items in named, tuple and unit forms.
func (p *Parser) parseStruct(item ast.Item, kind ast.ItemKind) (ast.ItemID, bool) {
	item.Kind = kind
	p.advance() // struct | union
	name, ok := p.expectIdent("type name")
	if !ok {
		return ast.NoItemID, false
	}
	item.Name, item.NameSpan = name.Ident(), name.Span
	if item.Generics, ok = p.parseGenerics(); !ok {
		return ast.NoItemID, false
	}

	var payload ast.StructItem
	switch {
	case p.at(token.KwWhere), p.at(token.LBrace):
		if !p.skipWhere(token.LBrace) {
			return ast.NoItemID, false
		}
		payload.Shape = ast.StructNamed
		if payload.Fields, ok = p.parseNamedFields(); !ok {
			return ast.NoItemID, false
		}
	case p.at(token.LParen):
		if kind == ast.ItemUnion {
			p.err(diag.SynExpectBody, "expected '{' after union name")
			return ast.NoItemID, false
		}
		payload.Shape = ast.StructTuple
		if payload.Fields, ok = p.parseTupleFields(); !ok {
			return ast.NoItemID, false
		}
		if !p.skipWhere(token.Semicolon) {
			return ast.NoItemID, false
		}
		if _, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after tuple struct"); !ok {
			return ast.NoItemID, false
		}
	case p.at(token.Semicolon):
		p.advance()
		payload.Shape = ast.StructUnit
	default:
		p.err(diag.SynExpectBody, "expected '{', '(' or ';' after struct name")
		return ast.NoItemID, false
	}

	item.Span = item.Span.Cover(p.lastSpan)
	return p.arenas.NewStruct(item, payload), true
}

// parseNamedFields разбирает `{ a: T, pub b: U }`.
func (p *Parser) parseNamedFields() ([]ast.FieldID, bool) {
	p.advance() // {
	var fields []ast.FieldID
	for !p.at(token.RBrace) {
		start := p.peek().Span
		attrs, ok := p.parseOuterAttrs()
		if !ok {
			return nil, false
		}
		public := p.parseVisibility()
		name, ok := p.expectIdent("field name")
		if !ok {
			return nil, false
		}
		if _, ok = p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field name"); !ok {
			return nil, false
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fields = append(fields, p.arenas.NewField(ast.Field{
			Name:     name.Ident(),
			NameSpan: name.Span,
			Type:     typ,
			Public:   public,
			Attrs:    attrs,
			Span:     start.Cover(p.lastSpan),
		}))
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected ',' or '}' in field list"); !ok {
		return nil, false
	}
	return fields, true
}

// parseTupleFields разбирает `(T, pub U)`; поля получают имена "0", "1", ...
func (p *Parser) parseTupleFields() ([]ast.FieldID, bool) {
	p.advance() // (
	var fields []ast.FieldID
	for i := 0; !p.at(token.RParen); i++ {
		start := p.peek().Span
		attrs, ok := p.parseOuterAttrs()
		if !ok {
			return nil, false
		}
		public := p.parseVisibility()
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fields = append(fields, p.arenas.NewField(ast.Field{
			Name:   strconv.Itoa(i),
			Type:   typ,
			Public: public,
			Attrs:  attrs,
			Span:   start.Cover(p.lastSpan),
		}))
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ',' or ')' in tuple field list"); !ok {
		return nil, false
	}
	return fields, true
}

func (p *Parser) parseEnum(item ast.Item) (ast.ItemID, bool) {
	p.advance() // enum
	name, ok := p.expectIdent("enum name")
	if !ok {
		return ast.NoItemID, false
	}
	item.Name, item.NameSpan = name.Ident(), name.Span
	if item.Generics, ok = p.parseGenerics(); !ok {
		return ast.NoItemID, false
	}
	if !p.skipWhere(token.LBrace) {
		return ast.NoItemID, false
	}
	if _, ok = p.expect(token.LBrace, diag.SynExpectBody, "expected '{' after enum name"); !ok {
		return ast.NoItemID, false
	}

	var payload ast.EnumItem
	for !p.at(token.RBrace) {
		v, ok := p.parseVariant()
		if !ok {
			return ast.NoItemID, false
		}
		payload.Variants = append(payload.Variants, v)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok = p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected ',' or '}' in variant list"); !ok {
		return ast.NoItemID, false
	}
	item.Span = item.Span.Cover(p.lastSpan)
	return p.arenas.NewEnum(item, payload), true
}

func (p *Parser) parseVariant() (ast.VariantID, bool) {
	start := p.peek().Span
	attrs, ok := p.parseOuterAttrs()
	if !ok {
		return ast.NoVariantID, false
	}
	p.parseVisibility()
	name, ok := p.expectIdent("variant name")
	if !ok {
		return ast.NoVariantID, false
	}
	v := ast.Variant{Name: name.Ident(), NameSpan: name.Span, Attrs: attrs, Shape: ast.StructUnit}
	switch {
	case p.at(token.LBrace):
		v.Shape = ast.StructNamed
		v.Fields, ok = p.parseNamedFields()
	case p.at(token.LParen):
		v.Shape = ast.StructTuple
		v.Fields, ok = p.parseTupleFields()
	}
	if !ok {
		return ast.NoVariantID, false
	}
	if p.eat(token.Assign) {
		from := p.pos
		if !p.skipUntil(false, token.Comma, token.RBrace) {
			p.err(diag.SynUnclosedDelimiter, "unterminated enum discriminant")
			return ast.NoVariantID, false
		}
		if p.pos > from {
			v.Discriminant = p.textBetween(from, p.pos)
		}
	}
	v.Span = start.Cover(p.lastSpan)
	return p.arenas.NewVariant(v), true
}

// parseOther пропускает use/mod/trait/const/static/type/extern, сохраняя
// ключевое слово и имя, чтобы атрибуты на них можно было диагностировать.
func (p *Parser) parseOther(item ast.Item, hasBody bool) (ast.ItemID, bool) {
	for p.atOr(token.KwUnsafe, token.KwAsync) {
		p.advance()
	}
	kw := p.advance()
	item.Keyword = kw.Text
	if p.at(token.StringLit) && kw.Kind == token.KwExtern {
		p.advance()
	}
	for p.atOr(token.KwMut, token.KwCrate) {
		p.advance()
	}
	if t := p.peek(); t.Kind == token.Ident && kw.Kind != token.KwUse {
		item.Name, item.NameSpan = t.Ident(), t.Span
	}

	if hasBody {
		if !p.skipUntil(true, token.LBrace, token.Semicolon) {
			p.err(diag.SynExpectBody, "expected '{' or ';' after "+kw.Text)
			return ast.NoItemID, false
		}
		if p.at(token.LBrace) {
			if !p.skipBalanced() {
				return ast.NoItemID, false
			}
		} else {
			p.advance()
		}
	} else {
		if !p.skipUntil(false, token.Semicolon) {
			p.err(diag.SynExpectSemicolon, "expected ';' after "+kw.Text)
			return ast.NoItemID, false
		}
		p.advance()
	}
	item.Span = item.Span.Cover(p.lastSpan)
	return p.arenas.NewOther(item), true
}

// parseMacroItem пропускает `name! (...)` / `macro_rules! name { ... }`.
func (p *Parser) parseMacroItem(item ast.Item) (ast.ItemID, bool) {
	mac := p.advance()
	p.advance() // !
	item.Keyword = mac.Text + "!"
	if t := p.peek(); t.Kind == token.Ident {
		p.advance()
		item.Name, item.NameSpan = t.Ident(), t.Span
	}
	if !p.atOr(token.LParen, token.LBracket, token.LBrace) {
		p.err(diag.SynExpectBody, "expected delimited macro body")
		return ast.NoItemID, false
	}
	brace := p.at(token.LBrace)
	if !p.skipBalanced() {
		return ast.NoItemID, false
	}
	if !brace {
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after macro invocation"); !ok {
			return ast.NoItemID, false
		}
	}
	item.Span = item.Span.Cover(p.lastSpan)
	return p.arenas.NewOther(item), true
}

// skipWhere пропускает `where ...` до указанного токена.
func (p *Parser) skipWhere(until token.Kind) bool {
	if !p.eat(token.KwWhere) {
		return true
	}
	if !p.skipUntil(true, until) {
		p.err(diag.SynExpectBody, "unterminated where clause")
		return false
	}
	return true
}

// textBetween returns the source text covered by tokens [from, to).
func (p *Parser) textBetween(from, to int) string {
	if from >= to || to > len(p.toks) {
		return ""
	}
	sp := p.toks[from].Span.Cover(p.toks[to-1].Span)
	return string(p.src.Content[sp.Start:sp.End])
}
