package hostgen

import (
	"fmt"

	"rid/internal/abi"
	"rid/internal/plan"
	"rid/internal/token"
	"rid/internal/types"
)

func slotFn(ident string) string     { return "rid_" + ident + "_slot" }
func fromSlotFn(ident string) string { return "rid_" + ident + "_from_slot" }

// toABI converts a host value to its boundary form. src is a field place
// read through the borrowed receiver when field is set, and the call
// result otherwise; a result holds a reference exactly when its model does.
func toABI(b abi.Binding, src string, field bool, fn string) string {
	m := b.Model
	ref := src
	if field || !m.IsRef() {
		ref = "&" + src
	}
	switch b.Conv {
	case abi.ConvPrim:
		return src
	case abi.ConvStringOwned:
		return ownedString(m, src, ref, field, fn)
	case abi.ConvStrBorrowed:
		return "RidStr::new(" + src + ")"
	case abi.ConvCStrBorrowed:
		return src + ".as_ptr() as *const i8"
	case abi.ConvStructBorrowed:
		return "rid_borrow_ptr(" + ref + ")"
	case abi.ConvStructOwned:
		return "Box::into_raw(Box::new(" + src + "))"
	case abi.ConvEnumSlot:
		return slotFn(m.Ident) + "(" + ref + ")"
	case abi.ConvVec:
		return "RidVec::from_vec(" + vecElems(b, src, field) + ")"
	case abi.ConvOptStruct:
		if field {
			return fmt.Sprintf("match &%s { Some(v) => rid_borrow_ptr(v), None => std::ptr::null_mut() }", src)
		}
		return fmt.Sprintf("match %s { Some(v) => Box::into_raw(Box::new(v)), None => std::ptr::null_mut() }", src)
	case abi.ConvOptString:
		inner := *m.Inner
		if field {
			return fmt.Sprintf("match &%s { Some(s) => %s, None => std::ptr::null_mut() }", src, ownedString(inner, "s", "s", true, fn))
		}
		return fmt.Sprintf("match %s { Some(s) => %s, None => std::ptr::null_mut() }", src, ownedString(inner, "s", "&s", false, fn))
	case abi.ConvHashMap:
		return fmt.Sprintf("%s as *const %s", ref, abi.MapAlias(b.ElemKey()))
	}
	return src
}

// ownedString hands out a fresh nul-terminated copy the client frees.
func ownedString(m types.Model, src, ref string, borrowed bool, fn string) string {
	if m.Str == types.StrCString {
		if borrowed {
			return src + ".clone().into_raw() as *mut i8"
		}
		return src + ".into_raw() as *mut i8"
	}
	return fmt.Sprintf("rid_cstring(%s, %q)", ref, fn)
}

// vecElems builds the Vec of boundary elements a RidVec takes over.
func vecElems(b abi.Binding, src string, field bool) string {
	elem := *b.Elem
	if field || b.Borrowed {
		switch elem.Conv {
		case abi.ConvPrim:
			return src + ".to_vec()"
		case abi.ConvEnumSlot:
			return fmt.Sprintf("%s.iter().map(|x| %s(x)).collect::<Vec<i32>>()", src, slotFn(elem.Model.Ident))
		case abi.ConvStructBorrowed:
			return src + ".iter().map(|x| rid_borrow_ptr(x)).collect::<Vec<_>>()"
		case abi.ConvStrBorrowed:
			return src + ".iter().map(|s| RidStr::new(s)).collect::<Vec<RidStr>>()"
		}
		return src + ".to_vec()"
	}
	switch elem.Conv {
	case abi.ConvEnumSlot:
		return fmt.Sprintf("%s.iter().map(|x| %s(x)).collect::<Vec<i32>>()", src, slotFn(elem.Model.Ident))
	case abi.ConvStructBorrowed:
		return src + ".into_iter().map(|x| rid_borrow_ptr(x)).collect::<Vec<_>>()"
	case abi.ConvStrBorrowed:
		return src + ".into_iter().map(|s| RidStr::new(s)).collect::<Vec<RidStr>>()"
	}
	return src
}

// fromABI is the statement rebuilding a host argument; empty when the
// boundary value is used as is.
func fromABI(a *plan.Arg, fn string) string {
	m := a.Bind.Model
	name := token.RawIdent(a.Ident)
	switch a.Bind.Conv {
	case abi.ConvParamString:
		return fmt.Sprintf("let %s = rid_take_string(%s, %q, %q);", name, name, fn, a.Ident)
	case abi.ConvParamStr:
		return fmt.Sprintf("let %s = rid_borrow_str(%s, %q, %q);", name, name, fn, a.Ident)
	case abi.ConvParamEnum:
		return fmt.Sprintf("let %s = %s(%s, %q);", name, fromSlotFn(m.Ident), name, fn)
	case abi.ConvParamStructRef:
		if m.Reference == types.RefMut {
			return fmt.Sprintf("let %s = rid_mut(%s, %q);", name, name, fn)
		}
		return fmt.Sprintf("let %s = rid_ref(%s, %q);", name, name, fn)
	}
	return ""
}
