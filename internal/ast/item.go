package ast

import (
	"rid/internal/source"
)

type ItemKind uint8

const (
	ItemStruct ItemKind = iota
	ItemEnum
	ItemUnion
	ItemImpl
	ItemFn
	// ItemOther covers use, mod, const, static, trait, type aliases and
	// macro invocations. They are kept so attributes on them still resolve.
	ItemOther
)

func (k ItemKind) String() string {
	switch k {
	case ItemStruct:
		return "struct"
	case ItemEnum:
		return "enum"
	case ItemUnion:
		return "union"
	case ItemImpl:
		return "impl"
	case ItemFn:
		return "fn"
	case ItemOther:
		return "item"
	}
	return "unknown"
}

// GenericParam is one entry of `<...>` on an item.
type GenericParam struct {
	Name       string
	Span       source.Span
	IsLifetime bool
	IsConst    bool
}

type Item struct {
	Kind     ItemKind
	Span     source.Span
	Name     string
	NameSpan source.Span
	// Keyword is the leading keyword text for ItemOther ("use", "mod", "trait", ...).
	Keyword  string
	Public   bool
	Attrs    []AttrID
	Generics []GenericParam
	Docs     []string
	Payload  PayloadID
}

type StructShape uint8

const (
	StructNamed StructShape = iota
	StructTuple
	StructUnit
)

type StructItem struct {
	Shape  StructShape
	Fields []FieldID
}

type Field struct {
	Name     string
	NameSpan source.Span
	Type     TypeID
	Public   bool
	Attrs    []AttrID
	Span     source.Span
}

type EnumItem struct {
	Variants []VariantID
}

type Variant struct {
	Name     string
	NameSpan source.Span
	Shape    StructShape
	Fields   []FieldID
	Attrs    []AttrID
	// Discriminant is the explicit `= value` text, if any.
	Discriminant string
	Span         source.Span
}

type ImplItem struct {
	SelfType TypeID
	// Trait is set for `impl Trait for Type`.
	Trait   TypeID
	Methods []ItemID
}

type ReceiverKind uint8

const (
	ReceiverNone   ReceiverKind = iota
	ReceiverValue               // self, mut self
	ReceiverRef                 // &self
	ReceiverRefMut              // &mut self
)

func (k ReceiverKind) String() string {
	switch k {
	case ReceiverValue:
		return "self"
	case ReceiverRef:
		return "&self"
	case ReceiverRefMut:
		return "&mut self"
	}
	return "none"
}

type FnItem struct {
	Receiver     ReceiverKind
	ReceiverSpan source.Span
	Params       []FnParamID
	Result       TypeID
	HasBody      bool
	Unsafe       bool
	Extern       bool
}

type PatternKind uint8

const (
	PatternIdent PatternKind = iota
	// PatternOther is any destructuring or wildcard pattern.
	PatternOther
)

type FnParam struct {
	Pattern     PatternKind
	Name        string
	Mut         bool
	PatternSpan source.Span
	Type        TypeID
	Span        source.Span
}

type Items struct {
	Arena    *Arena[Item]
	Attrs    *Arena[Attr]
	Structs  *Arena[StructItem]
	Fields   *Arena[Field]
	Enums    *Arena[EnumItem]
	Variants *Arena[Variant]
	Impls    *Arena[ImplItem]
	Fns      *Arena[FnItem]
	FnParams *Arena[FnParam]
}

// NewItems creates per-kind arenas; capHint 0 means 1<<6.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:    NewArena[Item](capHint),
		Attrs:    NewArena[Attr](capHint),
		Structs:  NewArena[StructItem](capHint),
		Fields:   NewArena[Field](capHint),
		Enums:    NewArena[EnumItem](capHint),
		Variants: NewArena[Variant](capHint),
		Impls:    NewArena[ImplItem](capHint),
		Fns:      NewArena[FnItem](capHint),
		FnParams: NewArena[FnParam](capHint),
	}
}

func (i *Items) New(item Item) ItemID {
	return ItemID(i.Arena.Allocate(item))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) Attr(id AttrID) *Attr {
	return i.Attrs.Get(uint32(id))
}

func (i *Items) Field(id FieldID) *Field {
	return i.Fields.Get(uint32(id))
}

func (i *Items) Variant(id VariantID) *Variant {
	return i.Variants.Get(uint32(id))
}

func (i *Items) FnParam(id FnParamID) *FnParam {
	return i.FnParams.Get(uint32(id))
}

// Struct returns the struct payload or nil when the item is not a struct or union.
func (i *Items) Struct(id ItemID) *StructItem {
	item := i.Get(id)
	if item == nil || (item.Kind != ItemStruct && item.Kind != ItemUnion) {
		return nil
	}
	return i.Structs.Get(uint32(item.Payload))
}

func (i *Items) Enum(id ItemID) *EnumItem {
	item := i.Get(id)
	if item == nil || item.Kind != ItemEnum {
		return nil
	}
	return i.Enums.Get(uint32(item.Payload))
}

func (i *Items) Impl(id ItemID) *ImplItem {
	item := i.Get(id)
	if item == nil || item.Kind != ItemImpl {
		return nil
	}
	return i.Impls.Get(uint32(item.Payload))
}

func (i *Items) Fn(id ItemID) *FnItem {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn {
		return nil
	}
	return i.Fns.Get(uint32(item.Payload))
}

// CollectAttrs returns copies of the attributes referenced by ids.
func (i *Items) CollectAttrs(ids []AttrID) []Attr {
	if len(ids) == 0 {
		return nil
	}
	result := make([]Attr, 0, len(ids))
	for _, id := range ids {
		if attr := i.Attr(id); attr != nil {
			result = append(result, *attr)
		}
	}
	return result
}
