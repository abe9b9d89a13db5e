package ast

import (
	"strings"

	"rid/internal/source"
)

// AttrArgKind distinguishes the meta-item forms an attribute argument can take.
type AttrArgKind uint8

const (
	// AttrArgPath is a bare path: `Todo`, `Debug`, `clippy::all`.
	AttrArgPath AttrArgKind = iota
	// AttrArgNameValue is `name = value`; Value holds the path or literal text.
	AttrArgNameValue
	// AttrArgList is `name(args...)`.
	AttrArgList
	// AttrArgLit is a literal such as "name" or 42.
	AttrArgLit
)

// AttrArg is one meta item inside an attribute's parentheses.
type AttrArg struct {
	Kind      AttrArgKind
	Name      string
	NameSpan  source.Span
	Value     string
	ValueSpan source.Span
	ValueLit  bool
	Items     []AttrArg
	Span      source.Span
}

// Attr описывает атрибут вида `#[path]`, `#[path(args...)]` или `#[path = value]`.
type Attr struct {
	Path     []string
	PathSpan source.Span
	Inner    bool
	// HasArgs is true when the attribute has a parenthesized argument list,
	// even an empty one.
	HasArgs bool
	Args    []AttrArg
	// Value is set for `#[path = value]`.
	Value string
	// Opaque means the argument tokens did not follow the meta-item grammar;
	// Args is empty and ArgsSpan covers the raw tokens.
	Opaque   bool
	ArgsSpan source.Span
	Span     source.Span
}

// PathString joins the path with "::".
func (a *Attr) PathString() string {
	return strings.Join(a.Path, "::")
}

// InNamespace reports whether the attribute path starts with ns, e.g. "rid".
func (a *Attr) InNamespace(ns string) bool {
	return len(a.Path) > 1 && a.Path[0] == ns
}

// LastSegment returns the final path segment.
func (a *Attr) LastSegment() string {
	if len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1]
}
