// Package items turns annotated syntax items into the parsed records the
// binding plan is built from. Every item is parsed in its own diagnostic
// scope: an item with errors yields no record.
package items

import (
	"rid/internal/abi"
	"rid/internal/ast"
	"rid/internal/attrs"
	"rid/internal/source"
	"rid/internal/types"
)

// Item is the closed set {*Struct, *Enum, *Function}.
type Item interface {
	ItemSpan() source.Span
	isItem()
}

type Struct struct {
	Ident    string
	RawIdent string
	Fields   []Field
	Config   attrs.Config
	Info     types.InfoMap
	Span     source.Span
	NameSpan source.Span
	Docs     []string
}

type Field struct {
	Ident string
	// MethodIdent is the accessor symbol rid_<Struct>_<field>.
	MethodIdent string
	Type        types.Model
	Binding     abi.Binding
	Span        source.Span
}

// Role is what an enum is used for.
type Role uint8

const (
	RolePlain Role = iota
	RoleMessage
	RoleReply
)

func (r Role) String() string {
	switch r {
	case RoleMessage:
		return "message"
	case RoleReply:
		return "reply"
	}
	return "plain"
}

type Enum struct {
	Ident    string
	Variants []Variant
	Role     Role
	// Reply names the reply enum of a message enum.
	Reply     string
	ReplySpan source.Span
	Config    attrs.Config
	Info      types.InfoMap
	Span      source.Span
	NameSpan  source.Span
	Docs      []string
}

type Variant struct {
	Ident string
	// Slot is the declaration index and the wire discriminant.
	Slot   int
	Fields []types.Model
	// Message enums: at most one payload.
	Payload *abi.Binding
	// Reply enums: leading u64 request id and trailing String payload.
	HasReqID   bool
	HasPayload bool
	Span       source.Span
}

// UnitOnly reports whether no variant carries fields.
func (e *Enum) UnitOnly() bool {
	for _, v := range e.Variants {
		if len(v.Fields) > 0 {
			return false
		}
	}
	return true
}

// Receiver is the self-kind of an exported function.
type Receiver uint8

const (
	RecvNone Receiver = iota
	RecvRef
	RecvRefMut
)

func (r Receiver) String() string {
	switch r {
	case RecvRef:
		return "&self"
	case RecvRefMut:
		return "&mut self"
	}
	return "none"
}

type Function struct {
	FnIdent    string
	ExportName string
	Receiver   Receiver
	Args       []Arg
	Return     types.Model
	ReturnBind abi.Binding
	// Owner is the impl self type; empty for free functions.
	Owner         string
	OwnerCategory attrs.Category
	Config        attrs.Config
	Span          source.Span
	NameSpan      source.Span
	Docs          []string
}

type Arg struct {
	Slot    int
	Ident   string
	Type    types.Model
	Binding abi.Binding
	Span    source.Span
}

func (s *Struct) ItemSpan() source.Span   { return s.Span }
func (e *Enum) ItemSpan() source.Span     { return e.Span }
func (f *Function) ItemSpan() source.Span { return f.Span }

func (*Struct) isItem()   {}
func (*Enum) isItem()     {}
func (*Function) isItem() {}

// IsMethod reports whether the function belongs to an impl block.
func (f *Function) IsMethod() bool { return f.Owner != "" }

// Decl is a struct or enum declared anywhere in the input, annotated or not.
type Decl struct {
	Ident    string
	Category attrs.Category
	Item     ast.ItemID
	Span     source.Span
	// Variants lists enum variant names in declaration order.
	Variants []string
	UnitOnly bool
	Generic  bool
}
