package plan

import (
	"fmt"

	"rid/internal/abi"
	"rid/internal/attrs"
	"rid/internal/diag"
	"rid/internal/items"
	"rid/internal/naming"
	"rid/internal/source"
	"rid/internal/types"
)

const (
	cstringFree = "rid_cstring_free"
	replyInit   = "rid_init_reply_isolate"
)

type builder struct {
	plan  *Plan
	decls map[string]items.Decl
	ctx   *EmissionContext
	r     diag.Reporter

	structs map[string]*Struct
	enums   map[string]*Enum

	refStructs []string
	refEnums   []string
	fromSlot   map[string]bool
}

// candidate collects what one item needs before anything is committed.
type candidate struct {
	own      []string
	structs  []string
	enums    []string
	fromSlot []string
	vecs     []abi.Binding
	maps     []abi.Binding
	cstring  bool
	takes    bool
}

// Build validates cross-item rules and lays out every symbol. Items that
// fail a rule contribute nothing; the rest are planned in source order.
func Build(list []items.Item, decls map[string]items.Decl, ctx *EmissionContext, r diag.Reporter) *Plan {
	b := &builder{
		plan:     &Plan{},
		decls:    decls,
		ctx:      ctx,
		r:        r,
		structs:  map[string]*Struct{},
		enums:    map[string]*Enum{},
		fromSlot: map[string]bool{},
	}

	var store *items.Struct
	var msg *items.Enum
	replies := map[string]*items.Enum{}
	for _, it := range list {
		switch v := it.(type) {
		case *items.Struct:
			if !v.Config.Store {
				continue
			}
			if store != nil {
				diag.ReportError(r, diag.AtrDuplicateStore, v.Config.Span("store"),
					fmt.Sprintf("`%s` is a second store; only one `#[rid::store]` is allowed", v.Ident)).
					WithNote(store.Config.Span("store"), fmt.Sprintf("`%s` is already the store", store.Ident)).
					Emit()
				continue
			}
			store = v
		case *items.Enum:
			switch v.Role {
			case items.RoleReply:
				replies[v.Ident] = v
			case items.RoleMessage:
				if msg != nil {
					diag.ReportError(r, diag.AtrDuplicateMessage, v.Config.MessageSpan,
						fmt.Sprintf("`%s` is a second message enum; the store updates on one", v.Ident)).
						WithNote(msg.Config.MessageSpan, fmt.Sprintf("`%s` is already the message enum", msg.Ident)).
						Emit()
					continue
				}
				msg = v
			}
		}
	}
	if msg != nil {
		if _, ok := replies[msg.Reply]; !ok {
			diag.ReportError(r, diag.AtrUnknownReply, msg.ReplySpan,
				fmt.Sprintf("message enum `%s` names `%s`, which is not a `#[rid::reply]` enum", msg.Ident, msg.Reply)).
				Emit()
			msg = nil
		} else if store == nil {
			diag.ReportError(r, diag.AtrMissingStore, msg.NameSpan,
				fmt.Sprintf("message enum `%s` needs a `#[rid::store]` struct to update", msg.Ident)).
				Emit()
			msg = nil
		}
	}

	for _, it := range list {
		switch v := it.(type) {
		case *items.Struct:
			b.addStruct(v, v == store, msg)
		case *items.Enum:
			switch v.Role {
			case items.RolePlain:
				b.addEnum(v)
			case items.RoleReply:
				b.addReply(v)
			case items.RoleMessage:
				if v == msg {
					b.addMessage(v)
				}
			}
		case *items.Function:
			b.addFunc(v)
		}
	}
	b.finish()
	b.plan.Symbols = ctx.Symbols()
	return b.plan
}

// checkDeclared verifies that a registered type exists in the input with the registered category.
func (b *builder) checkDeclared(m types.Model, r diag.Reporter) bool {
	d, ok := b.decls[m.Ident]
	switch {
	case !ok:
		diag.ReportError(r, diag.TypUndeclared, m.Span,
			fmt.Sprintf("`%s` is registered but not declared in the generation input", m.Ident)).Emit()
		return false
	case d.Category != m.Category:
		diag.ReportError(r, diag.TypUndeclared, m.Span,
			fmt.Sprintf("`%s` is registered as %s but declared as %s", m.Ident, article(m.Category), article(d.Category))).
			WithNote(d.Span, "declared here").
			Emit()
		return false
	case d.Generic:
		diag.ReportError(r, diag.ShpGeneric, m.Span,
			fmt.Sprintf("`%s` is generic and cannot cross the boundary", m.Ident)).
			WithNote(d.Span, "declared here").
			Emit()
		return false
	}
	return true
}

func article(c attrs.Category) string {
	if c == attrs.CategoryEnum {
		return "an enum"
	}
	return "a struct"
}

// need records what bind requires from the rest of the plan.
func (b *builder) need(c *candidate, bind abi.Binding, r diag.Reporter) {
	m := bind.Model
	switch bind.Conv {
	case abi.ConvStringOwned, abi.ConvOptString:
		c.cstring = true
	case abi.ConvParamString:
		c.takes = true
	case abi.ConvStructBorrowed, abi.ConvStructOwned, abi.ConvParamStructRef:
		if b.checkDeclared(m, r) {
			c.structs = append(c.structs, m.Ident)
		}
	case abi.ConvOptStruct:
		if b.checkDeclared(*m.Inner, r) {
			c.structs = append(c.structs, m.Inner.Ident)
		}
	case abi.ConvEnumSlot:
		if b.checkDeclared(m, r) {
			c.enums = append(c.enums, m.Ident)
		}
	case abi.ConvParamEnum:
		if !b.checkDeclared(m, r) {
			return
		}
		if !b.decls[m.Ident].UnitOnly {
			diag.ReportError(r, diag.TypUnsupportedParam, m.Span,
				fmt.Sprintf("enum `%s` carries data; only unit-only enums can be passed in", m.Ident)).Emit()
			return
		}
		c.enums = append(c.enums, m.Ident)
		c.fromSlot = append(c.fromSlot, m.Ident)
	case abi.ConvVec:
		c.vecs = append(c.vecs, bind)
		b.need(c, *bind.Elem, r)
	case abi.ConvHashMap:
		c.maps = append(c.maps, bind)
	}
}

// commit reserves the owned symbols and claims shared accessors.
func (b *builder) commit(c *candidate, sp source.Span, cr *diag.CountingReporter) bool {
	if cr.Errors > 0 || !b.ctx.Reserve(c.own, sp, b.r) {
		return false
	}
	b.refStructs = append(b.refStructs, c.structs...)
	b.refEnums = append(b.refEnums, c.enums...)
	for _, e := range c.fromSlot {
		b.fromSlot[e] = true
	}
	for _, v := range c.vecs {
		b.vec(v.ElemKey(), *v.Elem)
	}
	for _, m := range c.maps {
		b.hashMap(m)
	}
	if c.cstring {
		b.cstring()
	}
	if c.takes {
		b.plan.TakesStrings = true
	}
	return true
}

func (b *builder) cstring() {
	if b.ctx.Once(cstringFree) {
		b.ctx.Shared(cstringFree)
		b.plan.CStringFree = true
	}
}

func (b *builder) vec(key string, elem abi.Binding) *Vec {
	if !b.ctx.Once("vec:" + key) {
		for _, v := range b.plan.Vecs {
			if v.Key == key {
				return v
			}
		}
		return nil
	}
	prefix := "rid_vec_" + key
	v := &Vec{
		Key:      key,
		Alias:    abi.VecAlias(key),
		Elem:     elem,
		ElemRust: elem.RustType(),
		Len:      prefix + "_len",
		Get:      prefix + "_get",
		Free:     prefix + "_free",
	}
	b.ctx.Shared(v.Len, v.Get, v.Free)
	b.plan.Vecs = append(b.plan.Vecs, v)
	return v
}

func (b *builder) hashMap(bind abi.Binding) {
	key := bind.ElemKey()
	if !b.ctx.Once("map:" + key) {
		return
	}
	m := bind.Model.Owned()
	k := m.Key.Owned()
	prefix := "rid_hashmap_" + key
	mp := &Map{
		Key:         key,
		Alias:       abi.MapAlias(key),
		K:           k,
		V:           m.Inner.Owned(),
		Len:         prefix + "_len",
		Get:         prefix + "_get",
		ContainsKey: prefix + "_contains_key",
		Keys:        prefix + "_keys",
	}
	b.ctx.Shared(mp.Len, mp.Get, mp.ContainsKey, mp.Keys)
	mp.KeysVec = b.vec(k.Name(), abi.Binding{Conv: abi.ConvPrim, Model: k})
	b.plan.Maps = append(b.plan.Maps, mp)
}

func debugSyms(ident string) *Debug {
	return &Debug{Symbol: "rid_" + ident + "_debug", PrettySymbol: "rid_" + ident + "_debug_pretty"}
}

func (b *builder) addStruct(s *items.Struct, isStore bool, msg *items.Enum) {
	cr := &diag.CountingReporter{Next: b.r}
	c := &candidate{}
	p := &Struct{
		Ident:   s.Ident,
		Raw:     abi.RawIdent(s.Ident),
		Pointer: abi.PointerIdent(s.Ident),
		Free:    "rid_free_" + s.Ident,
		Model:   s.Config.Model,
		Docs:    s.Docs,
		Span:    s.Span,
	}
	c.own = append(c.own, p.Free)
	for _, f := range s.Fields {
		b.need(c, f.Binding, cr)
		c.own = append(c.own, f.MethodIdent)
		p.Fields = append(p.Fields, &Field{
			Ident:  f.Ident,
			Getter: naming.DartIdent(f.Ident),
			Symbol: f.MethodIdent,
			Bind:   f.Binding,
		})
	}
	if s.Config.Debug {
		p.Debug = debugSyms(s.Ident)
		c.own = append(c.own, p.Debug.Symbol, p.Debug.PrettySymbol)
		c.cstring = true
	}
	var st *Store
	if isStore {
		st = &Store{
			Ident:   s.Ident,
			Raw:     p.Raw,
			Pointer: p.Pointer,
			Init:    "rid_store_init",
			Lock:    "rid_store_lock",
			Unlock:  "rid_store_unlock",
			Free:    "rid_store_free",
		}
		if msg != nil {
			st.Message = msg.Ident
		}
		c.own = append(c.own, st.Init, st.Lock, st.Unlock, st.Free)
	}
	if !b.commit(c, s.Span, cr) {
		return
	}
	b.structs[s.Ident] = p
	b.plan.Structs = append(b.plan.Structs, p)
	if st != nil {
		b.plan.Store = st
	}
}

func (b *builder) addEnum(e *items.Enum) {
	cr := &diag.CountingReporter{Next: b.r}
	c := &candidate{}
	p := b.enumPlan(e.Ident, e.Span)
	p.Docs = e.Docs
	p.Variants = p.Variants[:0]
	for _, v := range e.Variants {
		p.Variants = append(p.Variants, v.Ident)
	}
	c.own = append(c.own, p.Marker)
	if e.Config.Debug {
		p.Debug = debugSyms(e.Ident)
		c.own = append(c.own, p.Debug.Symbol, p.Debug.PrettySymbol)
		c.cstring = true
		c.fromSlot = append(c.fromSlot, e.Ident)
	}
	if !b.commit(c, e.Span, cr) {
		return
	}
	b.enums[e.Ident] = p
	b.plan.Enums = append(b.plan.Enums, p)
}

func (b *builder) enumPlan(ident string, sp source.Span) *Enum {
	return &Enum{
		Ident:      ident,
		Variants:   append([]string(nil), b.decls[ident].Variants...),
		Marker:     "_export_dart_enum_" + ident,
		SlotFn:     "rid_" + ident + "_slot",
		FromSlotFn: "rid_" + ident + "_from_slot",
		Span:       sp,
	}
}

func (b *builder) addReply(e *items.Enum) {
	p := &Reply{Ident: e.Ident, Docs: e.Docs}
	for _, v := range e.Variants {
		p.Variants = append(p.Variants, ReplyVariant{
			Ident:      v.Ident,
			Slot:       v.Slot,
			HasReqID:   v.HasReqID,
			HasPayload: v.HasPayload,
		})
	}
	if b.ctx.Once(replyInit) {
		b.ctx.Shared(replyInit)
		b.plan.ReplyPort = true
	}
	b.plan.Replies = append(b.plan.Replies, p)
}

func (b *builder) addMessage(e *items.Enum) {
	cr := &diag.CountingReporter{Next: b.r}
	c := &candidate{}
	p := &Message{Enum: e.Ident, Reply: e.Reply}
	for _, v := range e.Variants {
		mv := &MsgVariant{
			Ident:     v.Ident,
			Symbol:    "rid_msg_" + v.Ident,
			DartIdent: naming.DartIdent("msg_" + v.Ident),
			Slot:      v.Slot,
			Payload:   v.Payload,
		}
		if v.Payload != nil {
			b.need(c, *v.Payload, cr)
		}
		c.own = append(c.own, mv.Symbol)
		p.Variants = append(p.Variants, mv)
	}
	if !b.commit(c, e.Span, cr) {
		return
	}
	b.plan.Message = p
}

func (b *builder) addFunc(f *items.Function) {
	cr := &diag.CountingReporter{Next: b.r}
	c := &candidate{}
	p := &Func{
		HostIdent: f.FnIdent,
		DartIdent: naming.DartIdent(f.ExportName),
		Owner:     f.Owner,
		Receiver:  f.Receiver,
		Ret:       f.ReturnBind,
		Docs:      f.Docs,
		Span:      f.Span,
	}
	if f.Owner != "" {
		p.Symbol = "rid_" + naming.Snake(f.Owner) + "_" + naming.Snake(f.ExportName)
		if !p.Method() {
			// associated functions are top-level on the client
			p.DartIdent = naming.DartIdent(naming.Snake(f.Owner) + "_" + f.ExportName)
		}
		d, ok := b.decls[f.Owner]
		if !ok || d.Category != attrs.CategoryStruct {
			diag.ReportError(cr, diag.ShpUnsupportedItem, f.NameSpan,
				fmt.Sprintf("exported method `%s` must belong to a struct declared in the generation input, not `%s`", f.FnIdent, f.Owner)).
				Emit()
		} else {
			c.structs = append(c.structs, f.Owner)
		}
	} else {
		p.Symbol = "rid_export_" + f.ExportName
	}
	for _, a := range f.Args {
		b.need(c, a.Binding, cr)
		p.Args = append(p.Args, &Arg{
			Ident:     a.Ident,
			DartIdent: naming.DartIdent(a.Ident),
			Bind:      a.Binding,
		})
	}
	b.need(c, f.ReturnBind, cr)
	c.own = append(c.own, p.Symbol)
	if !b.commit(c, f.Span, cr) {
		return
	}
	b.plan.Funcs = append(b.plan.Funcs, p)
}

// finish plans the types referenced by bindings whose own items did not.
func (b *builder) finish() {
	for _, ident := range b.refStructs {
		if _, ok := b.structs[ident]; ok {
			continue
		}
		d := b.decls[ident]
		p := &Struct{
			Ident:   ident,
			Raw:     abi.RawIdent(ident),
			Pointer: abi.PointerIdent(ident),
			Free:    "rid_free_" + ident,
			Span:    d.Span,
		}
		if !b.ctx.Reserve([]string{p.Free}, d.Span, b.r) {
			continue
		}
		b.structs[ident] = p
		b.plan.Structs = append(b.plan.Structs, p)
	}
	for _, ident := range b.refEnums {
		if _, ok := b.enums[ident]; ok {
			continue
		}
		d := b.decls[ident]
		p := b.enumPlan(ident, d.Span)
		if !b.ctx.Reserve([]string{p.Marker}, d.Span, b.r) {
			continue
		}
		b.enums[ident] = p
		b.plan.Enums = append(b.plan.Enums, p)
	}
	for _, e := range b.plan.Enums {
		e.FromSlot = b.fromSlot[e.Ident]
	}
}
