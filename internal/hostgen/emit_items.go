package hostgen

import (
	"fmt"

	"rid/internal/abi"
	"rid/internal/format"
	"rid/internal/items"
	"rid/internal/plan"
	"rid/internal/token"
)

func (g *gen) emitStruct(s *plan.Struct) {
	w := g.w
	w.Blank()
	w.Linef("pub type %s = %s;", s.Raw, s.Ident)
	w.Linef("pub type %s = *mut %s;", s.Pointer, s.Raw)

	g.exported("%s(ptr: *mut %s)", s.Free, s.Raw)
	w.Open("if ptr.is_null()")
	w.Linef("rid_abort(%q, \"null pointer\");", s.Free)
	w.Close()
	w.Line("unsafe { drop(Box::from_raw(ptr)) }")
	w.Close()

	for _, f := range s.Fields {
		g.exported("%s(ptr: *mut %s) -> %s", f.Symbol, s.Raw, f.Bind.RustType())
		w.Linef("let receiver = rid_ref(ptr, %q);", f.Symbol)
		w.Line(toABI(f.Bind, "receiver."+token.RawIdent(f.Ident), true, f.Symbol))
		w.Close()
	}

	if s.Debug != nil {
		for _, d := range []struct{ sym, verb string }{{s.Debug.Symbol, "{:?}"}, {s.Debug.PrettySymbol, "{:#?}"}} {
			g.exported("%s(ptr: *mut %s) -> *mut i8", d.sym, s.Raw)
			w.Linef("let receiver = rid_ref(ptr, %q);", d.sym)
			w.Linef("rid_cstring(&format!(%q, receiver), %q)", d.verb, d.sym)
			w.Close()
		}
	}
}

func (g *gen) emitEnum(e *plan.Enum) {
	w := g.w
	w.Blank()
	w.Openf("fn %s(value: &%s) -> i32", e.SlotFn, e.Ident)
	if len(e.Variants) == 0 {
		w.Line("match *value {}")
	} else {
		w.Open("match value")
	}
	for i, v := range e.Variants {
		w.Linef("%s::%s { .. } => %d,", e.Ident, token.RawIdent(v), i)
	}
	if len(e.Variants) > 0 {
		w.Close()
	}
	w.Close()

	if e.FromSlot {
		w.Blank()
		w.Openf("fn %s(slot: i32, fn_name: &str) -> %s", e.FromSlotFn, e.Ident)
		w.Open("match slot")
		for i, v := range e.Variants {
			w.Linef("%d => %s::%s,", i, e.Ident, token.RawIdent(v))
		}
		w.Linef("_ => rid_abort(fn_name, %q),", fmt.Sprintf("invalid %s slot", e.Ident))
		w.Close()
		w.Close()
	}

	g.exported("%s(_: %s)", e.Marker, e.Ident)
	w.Close()

	if e.Debug != nil {
		for _, d := range []struct{ sym, verb string }{{e.Debug.Symbol, "{:?}"}, {e.Debug.PrettySymbol, "{:#?}"}} {
			g.exported("%s(slot: i32) -> *mut i8", d.sym)
			w.Linef("let value = %s(slot, %q);", e.FromSlotFn, d.sym)
			w.Linef("rid_cstring(&format!(%q, value), %q)", d.verb, d.sym)
			w.Close()
		}
	}
}

func (g *gen) emitFunc(f *plan.Func) {
	w := g.w
	var params, callArgs []string
	if f.Method() {
		params = append(params, "ptr: *mut "+abi.RawIdent(f.Owner))
	}
	for _, a := range f.Args {
		name := token.RawIdent(a.Ident)
		params = append(params, name+": "+a.Bind.RustType())
		callArgs = append(callArgs, name)
	}
	ret := ""
	if f.Ret.Conv != abi.ConvUnit {
		ret = " -> " + f.Ret.RustType()
	}
	g.exported("%s(%s)%s", f.Symbol, format.Commas(params), ret)

	host := token.RawIdent(f.HostIdent)
	var call string
	switch {
	case f.Receiver == items.RecvRef:
		w.Linef("let receiver = rid_ref(ptr, %q);", f.Symbol)
		call = "receiver." + host
	case f.Receiver == items.RecvRefMut:
		w.Linef("let receiver = rid_mut(ptr, %q);", f.Symbol)
		call = "receiver." + host
	case f.Owner != "":
		call = f.Owner + "::" + host
	default:
		call = host
	}
	for _, a := range f.Args {
		if stmt := fromABI(a, f.Symbol); stmt != "" {
			w.Line(stmt)
		}
	}
	call += "(" + format.Commas(callArgs) + ")"
	if f.Ret.Conv == abi.ConvUnit {
		w.Line(call + ";")
	} else {
		w.Linef("let ret = %s;", call)
		w.Line(toABI(f.Ret, "ret", false, f.Symbol))
	}
	w.Close()
}
