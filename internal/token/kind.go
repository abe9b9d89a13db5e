package token

// Kind represents the category of a source token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	// Lifetime is 'a, 'static, '_.
	Lifetime

	// Strict keywords. Keep KwAs first and KwWhile last: IsKeyword relies on it.
	KwAs
	KwAsync
	KwConst
	KwCrate
	KwDyn
	KwElse
	KwEnum
	KwExtern
	KwFalse
	KwFn
	KwFor
	KwIf
	KwImpl
	KwIn
	KwLet
	KwLoop
	KwMatch
	KwMod
	KwMove
	KwMut
	KwPub
	KwRef
	KwReturn
	KwSelfValue // self
	KwSelfType  // Self
	KwStatic
	KwStruct
	KwSuper
	KwTrait
	KwTrue
	KwType
	KwUnsafe
	KwUse
	KwWhere
	KwWhile

	IntLit
	FloatLit
	StringLit    // "..." and b"..."
	RawStringLit // r"...", r#"..."#, br"..."
	CharLit      // 'c' and b'c'

	// Punctuation. Keep Plus first and Tilde last: IsPunctOrOp relies on it.
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Assign     // =
	EqEq       // ==
	Bang       // !
	BangEq     // !=
	Lt         // <
	Gt         // >
	Amp        // &
	Pipe       // |
	Caret      // ^
	AndAnd     // &&
	OrOr       // ||
	Question   // ?
	Colon      // :
	ColonColon // ::
	Semicolon  // ;
	Comma      // ,
	Dot        // .
	DotDot     // ..
	DotDotEq   // ..=
	DotDotDot  // ...
	Arrow      // ->
	FatArrow   // =>
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
	Pound      // #
	Dollar     // $
	At         // @
	Underscore // _
	Tilde      // ~
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Ident:        "Ident",
	Lifetime:     "Lifetime",
	KwAs:         "as",
	KwAsync:      "async",
	KwConst:      "const",
	KwCrate:      "crate",
	KwDyn:        "dyn",
	KwElse:       "else",
	KwEnum:       "enum",
	KwExtern:     "extern",
	KwFalse:      "false",
	KwFn:         "fn",
	KwFor:        "for",
	KwIf:         "if",
	KwImpl:       "impl",
	KwIn:         "in",
	KwLet:        "let",
	KwLoop:       "loop",
	KwMatch:      "match",
	KwMod:        "mod",
	KwMove:       "move",
	KwMut:        "mut",
	KwPub:        "pub",
	KwRef:        "ref",
	KwReturn:     "return",
	KwSelfValue:  "self",
	KwSelfType:   "Self",
	KwStatic:     "static",
	KwStruct:     "struct",
	KwSuper:      "super",
	KwTrait:      "trait",
	KwTrue:       "true",
	KwType:       "type",
	KwUnsafe:     "unsafe",
	KwUse:        "use",
	KwWhere:      "where",
	KwWhile:      "while",
	IntLit:       "IntLit",
	FloatLit:     "FloatLit",
	StringLit:    "StringLit",
	RawStringLit: "RawStringLit",
	CharLit:      "CharLit",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	Percent:      "%",
	Assign:       "=",
	EqEq:         "==",
	Bang:         "!",
	BangEq:       "!=",
	Lt:           "<",
	Gt:           ">",
	Amp:          "&",
	Pipe:         "|",
	Caret:        "^",
	AndAnd:       "&&",
	OrOr:         "||",
	Question:     "?",
	Colon:        ":",
	ColonColon:   "::",
	Semicolon:    ";",
	Comma:        ",",
	Dot:          ".",
	DotDot:       "..",
	DotDotEq:     "..=",
	DotDotDot:    "...",
	Arrow:        "->",
	FatArrow:     "=>",
	LParen:       "(",
	RParen:       ")",
	LBrace:       "{",
	RBrace:       "}",
	LBracket:     "[",
	RBracket:     "]",
	Pound:        "#",
	Dollar:       "$",
	At:           "@",
	Underscore:   "_",
	Tilde:        "~",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
