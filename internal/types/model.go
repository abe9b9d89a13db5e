// Package types resolves host type expressions into the canonical Model the
// emitters render.
package types

import (
	"fmt"
	"strings"

	"rid/internal/attrs"
	"rid/internal/source"
)

// Kind enumerates the canonical type shapes.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUnit
	KindPrimitive
	KindString
	KindValue
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindUnit:
		return "unit"
	case KindPrimitive:
		return "primitive"
	case KindString:
		return "string"
	case KindValue:
		return "value"
	case KindComposite:
		return "composite"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Prim is a primitive scalar crossing the ABI by value.
type Prim uint8

const (
	PrimInvalid Prim = iota
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimBool
	PrimUsize
	PrimIsize
	PrimF32
	PrimF64
)

var primNames = [...]string{
	PrimInvalid: "<invalid>",
	PrimU8:      "u8",
	PrimU16:     "u16",
	PrimU32:     "u32",
	PrimU64:     "u64",
	PrimI8:      "i8",
	PrimI16:     "i16",
	PrimI32:     "i32",
	PrimI64:     "i64",
	PrimBool:    "bool",
	PrimUsize:   "usize",
	PrimIsize:   "isize",
	PrimF32:     "f32",
	PrimF64:     "f64",
}

func (p Prim) String() string {
	if int(p) < len(primNames) {
		return primNames[p]
	}
	return fmt.Sprintf("Prim(%d)", p)
}

// IsFloat reports f32 and f64.
func (p Prim) IsFloat() bool { return p == PrimF32 || p == PrimF64 }

// LookupPrim maps a host type name to a primitive.
func LookupPrim(name string) (Prim, bool) {
	for i, n := range primNames {
		if i != int(PrimInvalid) && n == name {
			return Prim(i), true
		}
	}
	return PrimInvalid, false
}

// StringKind distinguishes the string-like host types.
type StringKind uint8

const (
	StrOwnedUtf8 StringKind = iota // String
	StrCString                     // CString
	StrBorrowed                    // &str
)

func (k StringKind) String() string {
	switch k {
	case StrOwnedUtf8:
		return "String"
	case StrCString:
		return "CString"
	case StrBorrowed:
		return "str"
	}
	return "unknown"
}

// CompositeOp is the container wrapping an inner model.
type CompositeOp uint8

const (
	OpVec CompositeOp = iota
	OpHashMap
	OpOption
)

func (o CompositeOp) String() string {
	switch o {
	case OpVec:
		return "Vec"
	case OpHashMap:
		return "HashMap"
	case OpOption:
		return "Option"
	}
	return "unknown"
}

// RefKind is how a value is held: by value or through a reference.
type RefKind uint8

const (
	Owned RefKind = iota
	Ref
	RefMut
)

// Model is the canonical form of a host type. Only the fields relevant to
// Kind are set.
type Model struct {
	Kind Kind

	Prim Prim       // KindPrimitive
	Str  StringKind // KindString

	// KindValue
	Ident    string
	Category attrs.Category

	// KindComposite: Inner is the element (Vec, Option) or value (HashMap).
	Op    CompositeOp
	Inner *Model
	Key   *Model

	Reference RefKind
	Lifetime  string
	Span      source.Span
}

func (m Model) IsUnit() bool      { return m.Kind == KindUnit }
func (m Model) IsPrimitive() bool { return m.Kind == KindPrimitive }
func (m Model) IsString() bool    { return m.Kind == KindString }
func (m Model) IsStruct() bool    { return m.Kind == KindValue && m.Category == attrs.CategoryStruct }
func (m Model) IsEnum() bool      { return m.Kind == KindValue && m.Category == attrs.CategoryEnum }
func (m Model) IsVec() bool       { return m.Kind == KindComposite && m.Op == OpVec }
func (m Model) IsHashMap() bool   { return m.Kind == KindComposite && m.Op == OpHashMap }
func (m Model) IsOption() bool    { return m.Kind == KindComposite && m.Op == OpOption }
func (m Model) IsRef() bool       { return m.Reference != Owned }

// Owned returns a copy of m without its reference wrapper.
func (m Model) Owned() Model {
	m.Reference = Owned
	m.Lifetime = ""
	return m
}

// Name is the reference-free host spelling used in symbol names:
// "u8", "String", "Todo".
func (m Model) Name() string {
	switch m.Kind {
	case KindUnit:
		return "()"
	case KindPrimitive:
		return m.Prim.String()
	case KindString:
		return m.Str.String()
	case KindValue:
		return m.Ident
	case KindComposite:
		switch m.Op {
		case OpHashMap:
			return "HashMap<" + m.Key.Name() + ", " + m.Inner.Name() + ">"
		default:
			return m.Op.String() + "<" + m.Inner.Name() + ">"
		}
	}
	return "?"
}

// ElemKey names collection accessor symbols: Vec<Todo> and Vec<&Todo> → "Todo",
// HashMap<u8, u32> → "u8_u32".
func (m Model) ElemKey() string {
	if m.Kind != KindComposite {
		return m.Owned().Name()
	}
	switch m.Op {
	case OpHashMap:
		return m.Key.Owned().Name() + "_" + m.Inner.Owned().Name()
	default:
		return m.Inner.Owned().Name()
	}
}

// String renders the model in host syntax.
func (m Model) String() string {
	var sb strings.Builder
	switch m.Reference {
	case Ref:
		sb.WriteByte('&')
	case RefMut:
		sb.WriteString("&mut ")
	}
	if m.Kind == KindString && m.Str == StrBorrowed {
		sb.WriteString("str")
		return sb.String()
	}
	if m.Kind == KindComposite {
		switch m.Op {
		case OpHashMap:
			sb.WriteString("HashMap<" + m.Key.String() + ", " + m.Inner.String() + ">")
		default:
			sb.WriteString(m.Op.String() + "<" + m.Inner.String() + ">")
		}
		return sb.String()
	}
	sb.WriteString(m.Name())
	return sb.String()
}
