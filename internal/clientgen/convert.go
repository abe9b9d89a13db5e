package clientgen

import (
	"fmt"

	"rid/internal/abi"
	"rid/internal/plan"
)

const cstringFree = "_dl.rid_cstring_free"

// fromNative wraps the raw shim result into the value the getter returns.
func (g *gen) fromNative(b abi.Binding, raw string) string {
	switch b.Conv {
	case abi.ConvStringOwned:
		return fmt.Sprintf("rid.takeString(%s, %s)", raw, cstringFree)
	case abi.ConvOptString:
		return fmt.Sprintf("rid.takeOptString(%s, %s)", raw, cstringFree)
	case abi.ConvStrBorrowed:
		g.ridStr = true
		return "_ridStr(" + raw + ")"
	case abi.ConvCStrBorrowed:
		return "rid.readString(" + raw + ")"
	case abi.ConvEnumSlot:
		return fmt.Sprintf("%s.values[%s]", b.Model.Ident, raw)
	case abi.ConvVec:
		return fmt.Sprintf("%s._(%s)", abi.VecAlias(b.ElemKey()), raw)
	case abi.ConvOptStruct:
		return "rid.nullablePointer(" + raw + ")"
	case abi.ConvHashMap:
		return fmt.Sprintf("%s._(%s)", abi.MapAlias(b.ElemKey()), raw)
	}
	return raw
}

// call holds the pieces of one shim invocation from Dart.
type call struct {
	params []string
	args   []string
	// borrowed are locals holding &str arguments, freed after the call.
	borrowed []string
	prelude  []string
}

func (c *call) add(a *plan.Arg) {
	c.params = append(c.params, a.Bind.DartType()+" "+a.DartIdent)
	c.args = append(c.args, c.toNative(a.DartIdent, a.Bind))
}

func (c *call) toNative(ident string, b abi.Binding) string {
	switch b.Conv {
	case abi.ConvParamString:
		// the shim takes the buffer over and frees it
		return "rid.toNativeString(" + ident + ")"
	case abi.ConvParamStr:
		local := ident + "Ptr"
		c.prelude = append(c.prelude, fmt.Sprintf("final %s = rid.toNativeString(%s);", local, ident))
		c.borrowed = append(c.borrowed, local)
		return local
	case abi.ConvParamEnum:
		return ident + ".index"
	}
	return ident
}

// body writes the function body after its signature; ret is the converted
// call expression and void reports a unit result.
func (g *gen) body(sig string, c *call, ret string, void bool) {
	w := g.w
	if len(c.borrowed) == 0 && len(c.prelude) == 0 {
		w.Linef("%s => %s;", sig, ret)
		return
	}
	w.Open(sig)
	for _, l := range c.prelude {
		w.Line(l)
	}
	w.Open("try")
	if void {
		w.Linef("%s;", ret)
	} else {
		w.Linef("return %s;", ret)
	}
	w.Close("} finally {")
	w.IndentPush()
	for _, local := range c.borrowed {
		w.Linef("rid.freeNativeString(%s);", local)
	}
	w.Close()
	w.Close()
}
