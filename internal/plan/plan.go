// Package plan is the binding plan both emitters render: one record per
// exported symbol group, with names, conversions and shared accessors
// already decided.
package plan

import (
	"rid/internal/abi"
	"rid/internal/items"
	"rid/internal/source"
	"rid/internal/types"
)

type Plan struct {
	Structs []*Struct
	Enums   []*Enum
	Funcs   []*Func
	Store   *Store
	Message *Message
	Replies []*Reply
	Vecs    []*Vec
	Maps    []*Map
	// CStringFree is set when any binding hands out an owned string.
	CStringFree bool
	// ReplyPort is set when replies are posted to the client.
	ReplyPort bool
	// TakesStrings is set when a shim releases a client-allocated string.
	TakesStrings bool
	Symbols      []string
}

// Struct is a bound struct. Registered-only structs have Model unset and
// get the pointer typedef and free function only.
type Struct struct {
	Ident   string
	Raw     string
	Pointer string
	Free    string
	Model   bool
	Fields  []*Field
	Debug   *Debug
	Docs    []string
	Span    source.Span
}

type Field struct {
	Ident  string
	Getter string
	Symbol string
	Bind   abi.Binding
}

type Debug struct {
	Symbol       string
	PrettySymbol string
}

// Enum is mirrored on the client with variants in declaration order.
type Enum struct {
	Ident    string
	Variants []string
	Marker   string
	SlotFn   string
	// FromSlot enables the slot to value conversion; unit-only enums only.
	FromSlot   bool
	FromSlotFn string
	Debug      *Debug
	Docs       []string
	Span       source.Span
}

type Func struct {
	Symbol    string
	HostIdent string
	DartIdent string
	// Owner is the impl type; empty for free functions.
	Owner    string
	Receiver items.Receiver
	Args     []*Arg
	Ret      abi.Binding
	Docs     []string
	Span     source.Span
}

// Method reports whether the client renders f as an extension on its owner.
func (f *Func) Method() bool { return f.Receiver != items.RecvNone }

type Arg struct {
	Ident     string
	DartIdent string
	Bind      abi.Binding
}

type Store struct {
	Ident   string
	Raw     string
	Pointer string
	Init    string
	Lock    string
	Unlock  string
	Free    string
	// Message is the message enum the store updates on; empty without one.
	Message string
}

type Message struct {
	Enum     string
	Reply    string
	Variants []*MsgVariant
}

type MsgVariant struct {
	Ident     string
	Symbol    string
	DartIdent string
	Slot      int
	Payload   *abi.Binding
}

type Reply struct {
	Ident    string
	Variants []ReplyVariant
	Docs     []string
}

type ReplyVariant struct {
	Ident      string
	Slot       int
	HasReqID   bool
	HasPayload bool
}

// Vec is one RidVec instantiation and its accessors.
type Vec struct {
	Key      string
	Alias    string
	Elem     abi.Binding
	ElemRust string
	Len      string
	Get      string
	Free     string
}

// Map is one HashMap alias and its accessors.
type Map struct {
	Key         string
	Alias       string
	K           types.Model
	V           types.Model
	Len         string
	Get         string
	ContainsKey string
	Keys        string
	KeysVec     *Vec
}
