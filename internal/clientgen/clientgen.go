// Package clientgen renders a binding plan as the Dart wrapper library and
// writes the runtime module the wrapper imports.
package clientgen

import (
	"rid/internal/format"
	"rid/internal/plan"
)

// Header starts every generated client file.
const Header = "// Code generated by rid. DO NOT EDIT."

type Options struct {
	// Binding is the ffigen output the wrapper calls through.
	Binding string
	// Runtime is the import path of the runtime module.
	Runtime string
	// Library is the native library name without platform prefix or suffix.
	Library string
}

func (o Options) withDefaults() Options {
	if o.Binding == "" {
		o.Binding = "ffigen_binding.dart"
	}
	if o.Runtime == "" {
		o.Runtime = "rid_runtime.dart"
	}
	if o.Library == "" {
		o.Library = "rid"
	}
	return o
}

type gen struct {
	p *plan.Plan
	w *format.Writer
	// methods groups exported methods under their owner's extension.
	methods map[string][]*plan.Func
	ridStr  bool
}

// Generate renders p. The output depends only on p and opt.
func Generate(p *plan.Plan, opt Options) []byte {
	opt = opt.withDefaults()
	g := &gen{
		p:       p,
		w:       format.NewWriter(format.Options{IndentWidth: 2}),
		methods: make(map[string][]*plan.Func),
	}
	for _, f := range p.Funcs {
		if f.Method() {
			g.methods[f.Owner] = append(g.methods[f.Owner], f)
		}
	}
	w := g.w

	w.Line(Header)
	w.Line("// ignore_for_file: non_constant_identifier_names, camel_case_types, camel_case_extensions, unused_import, unused_element")
	w.Blank()
	w.Line("import 'dart:ffi';")
	w.Blank()
	w.Linef("import '%s' as ffigen_bind;", opt.Binding)
	w.Linef("import '%s' as rid;", opt.Runtime)
	w.Blank()
	w.Linef("final ffigen_bind.NativeLibrary _dl = ffigen_bind.NativeLibrary(rid.openLibrary('%s'));", opt.Library)

	for _, s := range p.Structs {
		g.emitStruct(s)
	}
	for _, e := range p.Enums {
		g.emitEnum(e)
	}
	for _, f := range p.Funcs {
		if !f.Method() {
			w.Blank()
			g.emitFunc(f, false)
		}
	}
	if p.ReplyPort {
		g.emitReplyChannel()
	}
	if p.Store != nil {
		g.emitStore(p.Store, p.Message)
	}
	for _, r := range p.Replies {
		g.emitReply(r)
	}
	for _, v := range p.Vecs {
		g.emitVec(v)
	}
	for _, m := range p.Maps {
		g.emitMap(m)
	}
	if g.ridStr {
		w.Blank()
		w.Line("String _ridStr(ffigen_bind.RidStr s) => rid.decodeUtf8(s.ptr, s.len);")
	}
	return w.Bytes()
}
