package token

var keywords = map[string]Kind{
	"as":     KwAs,
	"async":  KwAsync,
	"const":  KwConst,
	"crate":  KwCrate,
	"dyn":    KwDyn,
	"else":   KwElse,
	"enum":   KwEnum,
	"extern": KwExtern,
	"false":  KwFalse,
	"fn":     KwFn,
	"for":    KwFor,
	"if":     KwIf,
	"impl":   KwImpl,
	"in":     KwIn,
	"let":    KwLet,
	"loop":   KwLoop,
	"match":  KwMatch,
	"mod":    KwMod,
	"move":   KwMove,
	"mut":    KwMut,
	"pub":    KwPub,
	"ref":    KwRef,
	"return": KwReturn,
	"self":   KwSelfValue,
	"Self":   KwSelfType,
	"static": KwStatic,
	"struct": KwStruct,
	"super":  KwSuper,
	"trait":  KwTrait,
	"true":   KwTrue,
	"type":   KwType,
	"unsafe": KwUnsafe,
	"use":    KwUse,
	"where":  KwWhere,
	"while":  KwWhile,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые: "Self" и "self" различаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// rustReserved lists the Rust 2021 strict and reserved keywords that may be
// written as raw identifiers. self, Self, super and crate cannot be raw.
var rustReserved = map[string]bool{
	"abstract": true, "as": true, "async": true, "await": true, "become": true,
	"box": true, "break": true, "const": true, "continue": true, "do": true,
	"dyn": true, "else": true, "enum": true, "extern": true, "false": true,
	"final": true, "fn": true, "for": true, "if": true, "impl": true,
	"in": true, "let": true, "loop": true, "macro": true, "match": true,
	"mod": true, "move": true, "mut": true, "override": true, "priv": true,
	"pub": true, "ref": true, "return": true, "static": true, "struct": true,
	"trait": true, "true": true, "try": true, "type": true, "typeof": true,
	"unsafe": true, "unsized": true, "use": true, "virtual": true, "where": true,
	"while": true, "yield": true,
}

// RawIdent spells name the way it must appear in Rust source: keywords get
// the "r#" prefix, everything else is returned unchanged.
func RawIdent(name string) string {
	if rustReserved[name] {
		return "r#" + name
	}
	return name
}
