// Package abi decides how a resolved type crosses the C boundary: the
// conversion each shim performs, the host ABI type, the client type and
// the free symbol an owned value pairs with.
package abi

import (
	"fmt"

	"rid/internal/types"
)

// Conv is the boundary conversion for one value.
type Conv uint8

const (
	ConvUnit           Conv = iota
	ConvPrim                // copied by value
	ConvStringOwned         // fresh *mut i8, freed with rid_cstring_free
	ConvStrBorrowed         // RidStr {ptr,len} into host memory
	ConvCStrBorrowed        // *const i8 into host memory
	ConvStructBorrowed      // *mut RawT, never freed by the client
	ConvStructOwned         // Box::into_raw, freed with rid_free_T
	ConvEnumSlot            // i32 declaration index
	ConvVec                 // RidVec_<Elem>, freed with rid_vec_<Elem>_free
	ConvOptStruct           // nullable *mut RawT
	ConvOptString           // nullable fresh *mut i8
	ConvHashMap             // *const RidHashMap_<K>_<V>, borrowed

	// parameters
	ConvParamString    // *mut i8 allocated by the client, taken over by the shim
	ConvParamStr       // *const i8 borrowed for the duration of the call
	ConvParamEnum      // i32 → rid_<T>_from_slot
	ConvParamStructRef // *mut RawT
)

var convNames = [...]string{
	ConvUnit:           "unit",
	ConvPrim:           "primitive",
	ConvStringOwned:    "owned string",
	ConvStrBorrowed:    "borrowed str",
	ConvCStrBorrowed:   "borrowed cstring",
	ConvStructBorrowed: "borrowed struct",
	ConvStructOwned:    "owned struct",
	ConvEnumSlot:       "enum slot",
	ConvVec:            "vec",
	ConvOptStruct:      "optional struct",
	ConvOptString:      "optional string",
	ConvHashMap:        "hashmap",
	ConvParamString:    "string param",
	ConvParamStr:       "str param",
	ConvParamEnum:      "enum param",
	ConvParamStructRef: "struct ref param",
}

func (c Conv) String() string {
	if int(c) < len(convNames) {
		return convNames[c]
	}
	return fmt.Sprintf("Conv(%d)", c)
}

// Binding is a resolved type plus its boundary conversion.
type Binding struct {
	Conv  Conv
	Model types.Model
	// Elem is the per-element binding of a ConvVec.
	Elem *Binding
	// Owned marks values the client must release with FreeSymbol.
	Owned bool
	// Borrowed marks ConvVec built from host-owned storage (field or &Vec);
	// elements are then referenced rather than moved.
	Borrowed bool
}

// RawIdent is the host alias the shims use for a bound struct.
func RawIdent(ident string) string { return "Raw" + ident }

// PointerIdent is the pointer typedef shared by both sides.
func PointerIdent(ident string) string { return "Pointer_" + ident }

// VecAlias names the RidVec instantiation for an element key.
func VecAlias(elemKey string) string { return "RidVec_" + elemKey }

// MapAlias names the HashMap alias for a key/value pair.
func MapAlias(elemKey string) string { return "RidHashMap_" + elemKey }

// Unsupported explains why a type cannot be bound at a position.
type Unsupported struct {
	Model  types.Model
	Pos    types.Position
	Reason string
}

func (e *Unsupported) Error() string {
	return fmt.Sprintf("%s type `%s` is not supported: %s", e.Pos, e.Model, e.Reason)
}

func unsupported(m types.Model, pos types.Position, reason string) error {
	return &Unsupported{Model: m, Pos: pos, Reason: reason}
}

// Field classifies a struct field; fields are always read through a borrowed parent.
func Field(m types.Model) (Binding, error) {
	if m.IsRef() {
		return Binding{}, unsupported(m, types.PosField, "reference fields cannot be exposed; store an owned value")
	}
	switch {
	case m.IsPrimitive():
		return Binding{Conv: ConvPrim, Model: m}, nil
	case m.IsString():
		return Binding{Conv: ConvStringOwned, Model: m, Owned: true}, nil
	case m.IsStruct():
		return Binding{Conv: ConvStructBorrowed, Model: m}, nil
	case m.IsEnum():
		return Binding{Conv: ConvEnumSlot, Model: m}, nil
	case m.IsVec():
		elem, err := borrowedElem(*m.Inner, types.PosField)
		if err != nil {
			return Binding{}, err
		}
		return Binding{Conv: ConvVec, Model: m, Elem: &elem, Owned: true, Borrowed: true}, nil
	case m.IsOption():
		if m.Inner.IsStruct() {
			return Binding{Conv: ConvOptStruct, Model: m}, nil
		}
		return Binding{Conv: ConvOptString, Model: m, Owned: true}, nil
	case m.IsHashMap():
		return Binding{Conv: ConvHashMap, Model: m}, nil
	}
	return Binding{}, unsupported(m, types.PosField, "no ABI mapping")
}

// borrowedElem classifies elements of a vector read in place.
func borrowedElem(m types.Model, pos types.Position) (Binding, error) {
	switch {
	case m.IsPrimitive():
		return Binding{Conv: ConvPrim, Model: m}, nil
	case m.IsStruct():
		return Binding{Conv: ConvStructBorrowed, Model: m}, nil
	case m.IsEnum():
		return Binding{Conv: ConvEnumSlot, Model: m}, nil
	case m.IsString() && m.Str != types.StrCString:
		return Binding{Conv: ConvStrBorrowed, Model: m}, nil
	}
	return Binding{}, unsupported(m, pos, "vector elements must be primitives, structs, enums or strings")
}

// Param classifies a function parameter.
func Param(m types.Model) (Binding, error) {
	switch {
	case m.IsPrimitive() && !m.IsRef():
		return Binding{Conv: ConvPrim, Model: m}, nil
	case m.IsString() && m.Str == types.StrBorrowed:
		return Binding{Conv: ConvParamStr, Model: m}, nil
	case m.IsString() && m.Str == types.StrOwnedUtf8:
		return Binding{Conv: ConvParamString, Model: m}, nil
	case m.IsEnum() && !m.IsRef():
		return Binding{Conv: ConvParamEnum, Model: m}, nil
	case m.IsStruct() && m.IsRef():
		return Binding{Conv: ConvParamStructRef, Model: m}, nil
	case m.IsStruct():
		return Binding{}, unsupported(m, types.PosParam, "structs are passed by reference; use `&T` or `&mut T`")
	}
	return Binding{}, unsupported(m, types.PosParam, "parameters must be primitives, strings, enums or struct references")
}

// Payload classifies a message variant payload.
func Payload(m types.Model) (Binding, error) {
	switch {
	case m.IsRef():
	case m.IsPrimitive():
		return Binding{Conv: ConvPrim, Model: m}, nil
	case m.IsString() && m.Str == types.StrOwnedUtf8:
		return Binding{Conv: ConvParamString, Model: m}, nil
	case m.IsEnum():
		return Binding{Conv: ConvParamEnum, Model: m}, nil
	}
	return Binding{}, unsupported(m, types.PosPayload, "payloads must be a primitive, `String` or a registered enum")
}

// Return classifies a function result.
func Return(m types.Model) (Binding, error) {
	switch {
	case m.IsUnit():
		return Binding{Conv: ConvUnit, Model: m}, nil
	case m.IsPrimitive():
		if m.IsRef() {
			return Binding{}, unsupported(m, types.PosReturn, "return primitives by value")
		}
		return Binding{Conv: ConvPrim, Model: m}, nil
	case m.IsString():
		switch {
		case m.IsRef() && m.Str == types.StrCString:
			return Binding{Conv: ConvCStrBorrowed, Model: m}, nil
		case m.IsRef() || m.Str == types.StrBorrowed:
			return Binding{Conv: ConvStrBorrowed, Model: m}, nil
		}
		return Binding{Conv: ConvStringOwned, Model: m, Owned: true}, nil
	case m.IsStruct():
		if m.IsRef() {
			return Binding{Conv: ConvStructBorrowed, Model: m}, nil
		}
		return Binding{Conv: ConvStructOwned, Model: m, Owned: true}, nil
	case m.IsEnum():
		return Binding{Conv: ConvEnumSlot, Model: m}, nil
	case m.IsVec():
		if m.IsRef() {
			elem, err := borrowedElem(*m.Inner, types.PosReturn)
			if err != nil {
				return Binding{}, err
			}
			return Binding{Conv: ConvVec, Model: m, Elem: &elem, Owned: true, Borrowed: true}, nil
		}
		inner := *m.Inner
		var elem Binding
		switch {
		case inner.IsRef() && inner.IsStruct():
			elem = Binding{Conv: ConvStructBorrowed, Model: inner}
		case inner.IsRef() && inner.IsString() && inner.Str != types.StrCString:
			elem = Binding{Conv: ConvStrBorrowed, Model: inner}
		case !inner.IsRef() && inner.IsPrimitive():
			elem = Binding{Conv: ConvPrim, Model: inner}
		case !inner.IsRef() && inner.IsEnum():
			elem = Binding{Conv: ConvEnumSlot, Model: inner}
		default:
			return Binding{}, unsupported(m, types.PosReturn, "owned vectors may hold primitives or enums; return `Vec<&T>` for structs and strings")
		}
		return Binding{Conv: ConvVec, Model: m, Elem: &elem, Owned: true}, nil
	case m.IsOption():
		if m.IsRef() {
			return Binding{}, unsupported(m, types.PosReturn, "return `Option<T>` by value")
		}
		if m.Inner.IsStruct() {
			return Binding{Conv: ConvOptStruct, Model: m, Owned: true}, nil
		}
		return Binding{Conv: ConvOptString, Model: m, Owned: true}, nil
	case m.IsHashMap():
		if m.IsRef() {
			return Binding{Conv: ConvHashMap, Model: m}, nil
		}
		return Binding{}, unsupported(m, types.PosReturn, "return maps by reference")
	}
	return Binding{}, unsupported(m, types.PosReturn, "no ABI mapping")
}

// ElemKey is the accessor key of a vector or map binding.
func (b Binding) ElemKey() string {
	return b.Model.Owned().ElemKey()
}

// RustType is the host ABI type of the binding in a shim signature.
func (b Binding) RustType() string {
	m := b.Model
	switch b.Conv {
	case ConvUnit:
		return "()"
	case ConvPrim:
		return m.Owned().Name()
	case ConvStringOwned, ConvOptString, ConvParamString:
		return "*mut i8"
	case ConvCStrBorrowed, ConvParamStr:
		return "*const i8"
	case ConvStrBorrowed:
		return "RidStr"
	case ConvStructBorrowed, ConvStructOwned, ConvParamStructRef:
		return "*mut " + RawIdent(m.Ident)
	case ConvOptStruct:
		return "*mut " + RawIdent(m.Inner.Ident)
	case ConvEnumSlot, ConvParamEnum:
		return "i32"
	case ConvVec:
		return VecAlias(b.ElemKey())
	case ConvHashMap:
		return "*const " + MapAlias(b.ElemKey())
	}
	return "()"
}

// DartType is the type the client wrapper exposes.
func (b Binding) DartType() string {
	m := b.Model
	switch b.Conv {
	case ConvUnit:
		return "void"
	case ConvPrim:
		return DartPrim(m.Prim)
	case ConvStringOwned, ConvStrBorrowed, ConvCStrBorrowed, ConvParamString, ConvParamStr:
		return "String"
	case ConvOptString:
		return "String?"
	case ConvStructBorrowed, ConvStructOwned, ConvParamStructRef:
		return PointerIdent(m.Ident)
	case ConvOptStruct:
		return PointerIdent(m.Inner.Ident) + "?"
	case ConvEnumSlot, ConvParamEnum:
		return m.Ident
	case ConvVec:
		return VecAlias(b.ElemKey())
	case ConvHashMap:
		return MapAlias(b.ElemKey())
	}
	return "dynamic"
}

// DartPrim maps a primitive to its Dart type.
func DartPrim(p types.Prim) string {
	switch {
	case p == types.PrimBool:
		return "bool"
	case p.IsFloat():
		return "double"
	}
	return "int"
}

// FreeSymbol is the symbol that releases an owned value; empty when borrowed.
func (b Binding) FreeSymbol() string {
	if !b.Owned {
		return ""
	}
	switch b.Conv {
	case ConvStringOwned, ConvOptString:
		return "rid_cstring_free"
	case ConvStructOwned:
		return "rid_free_" + b.Model.Ident
	case ConvOptStruct:
		return "rid_free_" + b.Model.Inner.Ident
	case ConvVec:
		return "rid_vec_" + b.ElemKey() + "_free"
	}
	return ""
}
