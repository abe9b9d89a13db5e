package clientgen

import (
	"fmt"

	"rid/internal/abi"
	"rid/internal/format"
	"rid/internal/naming"
	"rid/internal/plan"
)

func (g *gen) emitStruct(s *plan.Struct) {
	w := g.w
	w.Blank()
	w.Linef("typedef %s = Pointer<ffigen_bind.%s>;", s.Pointer, s.Raw)
	w.Blank()
	w.Doc(s.Docs)
	w.Openf("extension Rid_Model_%s on %s", s.Ident, s.Pointer)
	for _, f := range s.Fields {
		w.Linef("%s get %s => %s;", f.Bind.DartType(), f.Getter, g.fromNative(f.Bind, "_dl."+f.Symbol+"(this)"))
	}
	if len(s.Fields) > 0 {
		w.Blank()
	}
	w.Linef("void dispose() => _dl.%s(this);", s.Free)
	if s.Debug != nil {
		w.Linef("String debug([bool pretty = false]) => rid.takeString(pretty ? _dl.%s(this) : _dl.%s(this), %s);",
			s.Debug.PrettySymbol, s.Debug.Symbol, cstringFree)
	}
	for _, f := range g.methods[s.Ident] {
		w.Blank()
		g.emitFunc(f, true)
	}
	w.Close()
}

func (g *gen) emitEnum(e *plan.Enum) {
	w := g.w
	w.Blank()
	w.Doc(e.Docs)
	w.Linef("enum %s { %s }", e.Ident, format.Commas(e.Variants))
	if e.Debug != nil {
		w.Blank()
		w.Openf("extension Rid_Debug_%s on %s", e.Ident, e.Ident)
		w.Linef("String debug([bool pretty = false]) => rid.takeString(pretty ? _dl.%s(index) : _dl.%s(index), %s);",
			e.Debug.PrettySymbol, e.Debug.Symbol, cstringFree)
		w.Close()
	}
}

// emitFunc writes an exported function; methods render inside their
// owner's extension with the receiver passed as this.
func (g *gen) emitFunc(f *plan.Func, method bool) {
	c := &call{}
	if method {
		c.args = append(c.args, "this")
	}
	for _, a := range f.Args {
		c.add(a)
	}
	g.w.Doc(f.Docs)
	sig := fmt.Sprintf("%s %s(%s)", f.Ret.DartType(), f.DartIdent, format.Commas(c.params))
	raw := fmt.Sprintf("_dl.%s(%s)", f.Symbol, format.Commas(c.args))
	g.body(sig, c, g.fromNative(f.Ret, raw), f.Ret.Conv == abi.ConvUnit)
}

func (g *gen) emitVec(v *plan.Vec) {
	w := g.w
	elem := v.Elem.DartType()
	w.Blank()
	w.Openf("class %s extends Iterable<%s>", v.Alias, elem)
	w.Linef("final ffigen_bind.%s _vec;", v.Alias)
	w.Blank()
	w.Linef("%s._(this._vec);", v.Alias)
	w.Blank()
	w.Line("@override")
	w.Linef("int get length => _dl.%s(_vec);", v.Len)
	w.Blank()
	w.Openf("%s operator [](int idx)", elem)
	w.Line("final len = length;")
	w.Open("if (idx < 0 || idx >= len)")
	w.Line("throw RangeError.index(idx, this, 'idx', null, len);")
	w.Close()
	w.Linef("return %s;", g.fromNative(v.Elem, "_dl."+v.Get+"(_vec, idx)"))
	w.Close()
	w.Blank()
	w.Line("@override")
	w.Linef("Iterator<%s> get iterator => rid.RidVecIterator(length, (i) => this[i]);", elem)
	w.Blank()
	w.Linef("void dispose() => _dl.%s(_vec);", v.Free)
	w.Close()
}

func (g *gen) emitMap(m *plan.Map) {
	w := g.w
	k, val := abi.DartPrim(m.K.Prim), abi.DartPrim(m.V.Prim)
	w.Blank()
	w.Openf("class %s", m.Alias)
	w.Linef("final Pointer<ffigen_bind.%s> _map;", m.Alias)
	w.Blank()
	w.Linef("%s._(this._map);", m.Alias)
	w.Blank()
	w.Linef("int get length => _dl.%s(_map);", m.Len)
	w.Blank()
	w.Openf("%s? operator [](%s key)", val, k)
	w.Linef("final ptr = _dl.%s(_map, key);", m.Get)
	w.Line("return ptr == nullptr ? null : ptr.value;")
	w.Close()
	w.Blank()
	w.Linef("bool containsKey(%s key) => _dl.%s(_map, key);", k, m.ContainsKey)
	w.Blank()
	w.Openf("List<%s> get keys", k)
	w.Linef("final vec = %s._(_dl.%s(_map));", m.KeysVec.Alias, m.Keys)
	w.Open("try")
	w.Line("return vec.toList();")
	w.Close("} finally {")
	w.IndentPush()
	w.Line("vec.dispose();")
	w.Close()
	w.Close()
	w.Close()
}

// replyGetter is the PostedReply extension getter decoding one reply enum.
func replyGetter(ident string) string {
	return naming.DartIdent("as_" + ident)
}
