// Package parser builds an ast.File from host source. It understands item
// structure (attributes, visibility, structs, unions, enums, impls, fns and
// type expressions) and skips everything else by balanced-delimiter
// scanning: bodies, initializers, macro invocations, traits and modules.
package parser

import (
	"slices"

	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/lexer"
	"rid/internal/source"
	"rid/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	// Failed counts items dropped because of syntax errors.
	Failed int
}

// Parser: состояние парсера на один файл
type Parser struct {
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	file     ast.FileID
	src      *source.File
	opts     Options
	failed   int
	lastSpan source.Span
	stopped  bool
}

// ParseFile lexes and parses one source file into arenas.
func ParseFile(file *source.File, arenas *ast.Builder, opts Options) Result {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	toks := lx.All()
	p := Parser{
		toks:   toks,
		arenas: arenas,
		src:    file,
		opts:   opts,
	}
	p.file = arenas.NewFile(source.Span{File: file.ID, Start: 0, End: toks[len(toks)-1].Span.End})
	p.parseItems()
	return Result{File: p.file, Failed: p.failed}
}

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atIdent reports whether the next token is the identifier text.
func (p *Parser) atIdent(text string) bool {
	t := p.peek()
	return t.Kind == token.Ident && t.Text == text
}

// parseItems: основной цикл верхнего уровня.
func (p *Parser) parseItems() {
	p.parseInnerAttrs()
	for !p.at(token.EOF) && !p.stopped {
		if p.eat(token.Semicolon) {
			continue
		}
		start := p.pos
		itemID, ok := p.parseItem()
		if !ok {
			p.failed++
			p.resyncFrom(start, false)
			continue
		}
		p.arenas.PushItem(p.file, itemID)
	}
}

func (p *Parser) parseInnerAttrs() {
	f := p.arenas.Files.Get(p.file)
	for p.at(token.Pound) && p.peekN(1).Kind == token.Bang && p.peekN(2).Kind == token.LBracket {
		if id, ok := p.parseAttr(); ok {
			f.InnerAttrs = append(f.InnerAttrs, id)
		}
	}
}

// parseItem разбирает атрибуты, видимость и выбирает распознаватель по ключевому слову.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	first := p.peek()
	item := ast.Item{Docs: first.DocComments()}

	attrs, ok := p.parseOuterAttrs()
	if !ok {
		return ast.NoItemID, false
	}
	item.Attrs = attrs
	if next := p.peek(); len(attrs) > 0 && next.Span != first.Span {
		item.Docs = append(item.Docs, next.DocComments()...)
	}
	if len(attrs) > 0 && p.at(token.EOF) {
		p.err(diag.SynAttributeNoItem, "expected item after attributes")
		return ast.NoItemID, false
	}
	item.Public = p.parseVisibility()
	item.Span = first.Span

	t := p.peek()
	switch {
	case t.Kind == token.KwStruct:
		return p.parseStruct(item, ast.ItemStruct)
	case t.Kind == token.Ident && t.Text == "union" && p.peekN(1).Kind == token.Ident:
		return p.parseStruct(item, ast.ItemUnion)
	case t.Kind == token.KwEnum:
		return p.parseEnum(item)
	case t.Kind == token.KwImpl,
		t.Kind == token.KwUnsafe && p.peekN(1).Kind == token.KwImpl:
		return p.parseImpl(item)
	case p.atFnStart():
		return p.parseFn(item)
	case t.Kind == token.KwUse, t.Kind == token.KwType,
		t.Kind == token.KwConst, t.Kind == token.KwStatic:
		return p.parseOther(item, false)
	case t.Kind == token.KwMod, t.Kind == token.KwTrait,
		t.Kind == token.KwUnsafe && p.peekN(1).Kind == token.KwTrait:
		return p.parseOther(item, true)
	case t.Kind == token.KwExtern:
		// extern crate x; / extern "C" { ... }
		return p.parseOther(item, p.peekN(1).Kind != token.KwCrate)
	case t.Kind == token.Ident && p.peekN(1).Kind == token.Bang:
		return p.parseMacroItem(item)
	default:
		p.err(diag.SynUnexpectedTopLevel, "expected item, found \""+t.Text+"\"")
		return ast.NoItemID, false
	}
}

// atFnStart matches `fn`, `const fn`, `async fn`, `unsafe fn`, `extern "C" fn` and combinations.
func (p *Parser) atFnStart() bool {
	for i := 0; i < 5; i++ {
		switch t := p.peekN(i); t.Kind {
		case token.KwFn:
			return true
		case token.KwConst, token.KwAsync, token.KwUnsafe:
			continue
		case token.KwExtern:
			if p.peekN(i+1).Kind == token.StringLit {
				i++
			}
			continue
		default:
			return false
		}
	}
	return false
}

// resyncFrom: восстановление после ошибки: пропускаем весь элемент,
// начавшийся в start, до ';' или закрывающей '}' на нулевой глубине.
// Inside an impl body (nested) an unmatched '}' belongs to the impl and is left in place.
func (p *Parser) resyncFrom(start int, nested bool) {
	p.pos = start
	depth := 0
	for !p.at(token.EOF) {
		if nested && depth == 0 && p.at(token.RBrace) {
			return
		}
		t := p.advance()
		switch t.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket:
			if depth > 0 {
				depth--
			}
		case token.RBrace:
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				return
			}
		case token.Semicolon:
			if depth == 0 {
				return
			}
		}
	}
}
