package items

import (
	"fmt"

	"rid/internal/abi"
	"rid/internal/ast"
	"rid/internal/attrs"
	"rid/internal/diag"
	"rid/internal/source"
	"rid/internal/types"
)

// Context is shared by every item of one generation input.
type Context struct {
	B     *ast.Builder
	Files *source.FileSet
	Decls map[string]Decl
}

// NewContext collects declarations of all files up front so type fixes and
// enum conversions can see types declared in other files.
func NewContext(b *ast.Builder, fs *source.FileSet, files []ast.FileID) *Context {
	return &Context{B: b, Files: fs, Decls: CollectDecls(b, files)}
}

// CollectDecls indexes every struct, union and enum; the first declaration of a name wins.
func CollectDecls(b *ast.Builder, files []ast.FileID) map[string]Decl {
	decls := map[string]Decl{}
	for _, fid := range files {
		file := b.Files.Get(fid)
		if file == nil {
			continue
		}
		for _, id := range file.Items {
			item := b.Items.Get(id)
			if item.Name == "" {
				continue
			}
			if _, seen := decls[item.Name]; seen {
				continue
			}
			d := Decl{Ident: item.Name, Item: id, Span: item.Span, Generic: len(item.Generics) > 0}
			switch item.Kind {
			case ast.ItemStruct, ast.ItemUnion:
				d.Category = attrs.CategoryStruct
			case ast.ItemEnum:
				d.Category = attrs.CategoryEnum
				d.UnitOnly = true
				for _, vid := range b.Items.Enum(id).Variants {
					v := b.Items.Variant(vid)
					d.Variants = append(d.Variants, v.Name)
					if len(v.Fields) > 0 {
						d.UnitOnly = false
					}
				}
			default:
				continue
			}
			decls[item.Name] = d
		}
	}
	return decls
}

func (c *Context) declared() map[string]attrs.Category {
	out := make(map[string]attrs.Category, len(c.Decls))
	for name, d := range c.Decls {
		out[name] = d.Category
	}
	return out
}

// indentAt returns the leading whitespace of the line containing sp.
func (c *Context) indentAt(sp source.Span) string {
	if c.Files == nil {
		return ""
	}
	f := c.Files.Get(sp.File)
	if f == nil || int(sp.Start) > len(f.Content) {
		return ""
	}
	start := int(sp.Start)
	for start > 0 && f.Content[start-1] != '\n' {
		start--
	}
	end := start
	for end < int(sp.Start) && (f.Content[end] == ' ' || f.Content[end] == '\t') {
		end++
	}
	return string(f.Content[start:end])
}

func (c *Context) env(cfg *attrs.Config, self string, selfCat attrs.Category, anchor source.Span) types.Env {
	info := types.NewInfoMap(cfg.Registrations)
	if self != "" {
		info = info.With(self, types.Info{Category: selfCat, Origin: anchor})
	}
	return types.Env{
		Info:         info,
		Self:         self,
		SelfCategory: selfCat,
		Declared:     c.declared(),
		FixAnchor:    anchor,
		Indent:       c.indentAt(anchor),
	}
}

func emit(r diag.Reporter, d *diag.Diagnostic) {
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
}

// Parse consumes one top-level item. Unannotated items yield nothing.
func Parse(ctx *Context, id ast.ItemID, r diag.Reporter) []Item {
	item := ctx.B.Items.Get(id)
	if item == nil {
		return nil
	}
	cr := &diag.CountingReporter{Next: r}
	list := ctx.B.Items.CollectAttrs(item.Attrs)

	var out []Item
	switch item.Kind {
	case ast.ItemStruct, ast.ItemUnion:
		if s := parseStruct(ctx, id, list, cr); s != nil {
			out = append(out, s)
		}
	case ast.ItemEnum:
		if e := parseEnum(ctx, id, list, cr); e != nil {
			out = append(out, e)
		}
	case ast.ItemFn:
		cfg := attrs.Parse(list, attrs.TargetFn, cr)
		if !cfg.Export {
			return nil
		}
		if f := parseSignature(ctx, id, cfg, "", attrs.CategoryStruct, cr); f != nil {
			out = append(out, f)
		}
	case ast.ItemImpl:
		// методы разбираются каждый в своей области
		return parseImpl(ctx, id, list, r)
	default:
		attrs.CheckAbsent(list, "`"+item.Keyword+"` item", cr)
	}
	if cr.Errors > 0 {
		return nil
	}
	return out
}

func parseStruct(ctx *Context, id ast.ItemID, list []ast.Attr, r *diag.CountingReporter) *Struct {
	b := ctx.B
	item := b.Items.Get(id)
	cfg := attrs.Parse(list, attrs.TargetStruct, r)
	if !cfg.Model && !cfg.Debug {
		return nil
	}
	st := b.Items.Struct(id)
	switch {
	case item.Kind == ast.ItemUnion:
		diag.ReportError(r, diag.ShpUnion, item.NameSpan,
			fmt.Sprintf("union `%s` cannot be bound; use a struct", item.Name)).Emit()
		return nil
	case st.Shape == ast.StructTuple:
		diag.ReportError(r, diag.ShpTupleStruct, item.NameSpan,
			fmt.Sprintf("tuple struct `%s` cannot be bound; use named fields", item.Name)).Emit()
		return nil
	case len(item.Generics) > 0:
		diag.ReportError(r, diag.ShpGeneric, item.NameSpan,
			fmt.Sprintf("generic struct `%s` cannot be bound", item.Name)).Emit()
		return nil
	}

	s := &Struct{
		Ident:    item.Name,
		RawIdent: abi.RawIdent(item.Name),
		Config:   cfg,
		Span:     item.Span,
		NameSpan: item.NameSpan,
		Docs:     item.Docs,
	}
	env := ctx.env(&cfg, item.Name, attrs.CategoryStruct, item.Span)
	env.Pos = types.PosField
	s.Info = env.Info

	for _, fid := range st.Fields {
		f := b.Items.Field(fid)
		attrs.CheckAbsent(b.Items.CollectAttrs(f.Attrs), "field", r)
		if !cfg.Model {
			continue
		}
		m, d := types.Resolve(b, f.Type, env)
		if d != nil {
			emit(r, d)
			continue
		}
		bind, err := abi.Field(m)
		if err != nil {
			diag.ReportError(r, diag.TypUnsupportedField, m.Span, err.Error()).Emit()
			continue
		}
		s.Fields = append(s.Fields, Field{
			Ident:       f.Name,
			MethodIdent: "rid_" + item.Name + "_" + f.Name,
			Type:        m,
			Binding:     bind,
			Span:        f.Span,
		})
	}
	if r.Errors > 0 {
		return nil
	}
	return s
}

func parseEnum(ctx *Context, id ast.ItemID, list []ast.Attr, r *diag.CountingReporter) *Enum {
	b := ctx.B
	item := b.Items.Get(id)
	cfg := attrs.Parse(list, attrs.TargetEnum, r)

	role := RolePlain
	switch {
	case cfg.Message != "":
		role = RoleMessage
	case cfg.Reply:
		role = RoleReply
	}
	if role == RolePlain && !cfg.Model && !cfg.Debug {
		return nil
	}
	if role != RolePlain && cfg.Model {
		diag.ReportError(r, diag.AtrConflict, cfg.Span("model"),
			fmt.Sprintf("`rid::model` cannot be combined with `rid::%s`", role)).Emit()
		return nil
	}
	if len(item.Generics) > 0 {
		diag.ReportError(r, diag.ShpGeneric, item.NameSpan,
			fmt.Sprintf("generic enum `%s` cannot be bound", item.Name)).Emit()
		return nil
	}

	e := &Enum{
		Ident:     item.Name,
		Role:      role,
		Reply:     cfg.Message,
		ReplySpan: cfg.MessageSpan,
		Config:    cfg,
		Span:      item.Span,
		NameSpan:  item.NameSpan,
		Docs:      item.Docs,
	}
	env := ctx.env(&cfg, item.Name, attrs.CategoryEnum, item.Span)
	env.Pos = types.PosField
	if role == RoleMessage {
		env.Pos = types.PosPayload
	}
	e.Info = env.Info

	reportedShape := false
	for slot, vid := range b.Items.Enum(id).Variants {
		v := b.Items.Variant(vid)
		attrs.CheckAbsent(b.Items.CollectAttrs(v.Attrs), "variant", r)
		pv := Variant{Ident: v.Name, Slot: slot, Span: v.Span}

		if len(v.Fields) > 0 && role == RolePlain {
			if !reportedShape {
				diag.ReportError(r, diag.ShpModelEnumFields, v.NameSpan,
					fmt.Sprintf("variant `%s::%s` carries data; bound enums must have unit variants only", item.Name, v.Name)).Emit()
				reportedShape = true
			}
			continue
		}
		if v.Shape == ast.StructNamed && role != RolePlain {
			code := diag.ShpMessagePayload
			if role == RoleReply {
				code = diag.ShpReplyVariant
			}
			diag.ReportError(r, code, v.NameSpan,
				fmt.Sprintf("variant `%s::%s` must use tuple syntax", item.Name, v.Name)).Emit()
			continue
		}

		ok := true
		var fieldSpans []source.Span
		for _, fid := range v.Fields {
			f := b.Items.Field(fid)
			m, d := types.Resolve(b, f.Type, env)
			if d != nil {
				emit(r, d)
				ok = false
				break
			}
			pv.Fields = append(pv.Fields, m)
			fieldSpans = append(fieldSpans, f.Span)
		}
		if !ok {
			continue
		}

		switch role {
		case RoleMessage:
			if len(pv.Fields) > 1 {
				diag.ReportError(r, diag.ShpMessagePayload, fieldSpans[1],
					fmt.Sprintf("message variant `%s` carries %d fields; at most one payload is supported", v.Name, len(pv.Fields))).Emit()
				continue
			}
			if len(pv.Fields) == 1 {
				bind, err := abi.Payload(pv.Fields[0])
				if err != nil {
					diag.ReportError(r, diag.ShpMessagePayload, fieldSpans[0], err.Error()).Emit()
					continue
				}
				pv.Payload = &bind
			}
		case RoleReply:
			if !classifyReply(&pv) {
				diag.ReportError(r, diag.ShpReplyVariant, v.Span,
					fmt.Sprintf("reply variant `%s` may only carry an optional leading `u64` request id and an optional trailing `String`", v.Name)).Emit()
				continue
			}
		}
		e.Variants = append(e.Variants, pv)
	}
	if r.Errors > 0 {
		return nil
	}
	return e
}

// classifyReply accepts (), (u64), (String) and (u64, String).
func classifyReply(v *Variant) bool {
	isReq := func(m types.Model) bool { return m.IsPrimitive() && !m.IsRef() && m.Prim == types.PrimU64 }
	isStr := func(m types.Model) bool { return m.IsString() && !m.IsRef() && m.Str == types.StrOwnedUtf8 }
	switch len(v.Fields) {
	case 0:
		return true
	case 1:
		switch {
		case isReq(v.Fields[0]):
			v.HasReqID = true
		case isStr(v.Fields[0]):
			v.HasPayload = true
		default:
			return false
		}
		return true
	case 2:
		if isReq(v.Fields[0]) && isStr(v.Fields[1]) {
			v.HasReqID, v.HasPayload = true, true
			return true
		}
	}
	return false
}

func parseImpl(ctx *Context, id ast.ItemID, list []ast.Attr, r diag.Reporter) []Item {
	b := ctx.B
	item := b.Items.Get(id)
	impl := b.Items.Impl(id)
	cr := &diag.CountingReporter{Next: r}
	cfg := attrs.Parse(list, attrs.TargetImpl, cr)

	if !cfg.Export {
		for _, mid := range impl.Methods {
			m := b.Items.Get(mid)
			for _, a := range b.Items.CollectAttrs(m.Attrs) {
				if a.InNamespace(attrs.Namespace) && a.LastSegment() == "export" {
					diag.ReportError(cr, diag.AtrWrongCarrier, a.Span,
						fmt.Sprintf("`rid::export` on method `%s` requires `#[rid::export]` on its impl block", m.Name)).
						WithFix("export the impl block", diag.FixEdit{
							Span:    source.Span{File: item.Span.File, Start: item.Span.Start, End: item.Span.Start},
							NewText: "#[rid::export]\n" + ctx.indentAt(item.Span),
						}).
						Emit()
				}
			}
		}
		return nil
	}
	if cfg.ExportName != "" {
		diag.ReportError(cr, diag.AtrUnexpectedArgs, cfg.ExportSpan,
			"`rid::export` on an impl block takes no name; rename individual methods instead").Emit()
	}
	for _, g := range item.Generics {
		if !g.IsLifetime {
			diag.ReportError(cr, diag.ShpGeneric, g.Span, "exported impl blocks cannot be generic over types").Emit()
			break
		}
	}
	owner := ""
	if t := b.Types.Get(impl.SelfType); t != nil && t.Kind == ast.TypeExprPath {
		if seg := t.LastSegment(); len(seg.Args) == 0 {
			owner = seg.Name
		}
	}
	if owner == "" {
		diag.ReportError(cr, diag.ShpUnsupportedItem, item.Span,
			fmt.Sprintf("exported impl must be on a named type, found `%s`", b.TypeString(impl.SelfType))).Emit()
	}
	if cr.Errors > 0 {
		return nil
	}
	ownerCat := attrs.CategoryStruct
	if d, ok := ctx.Decls[owner]; ok {
		ownerCat = d.Category
	}

	var out []Item
	failed := 0
	for _, mid := range impl.Methods {
		m := b.Items.Get(mid)
		mr := &diag.CountingReporter{Next: r}
		mcfg := attrs.Parse(b.Items.CollectAttrs(m.Attrs), attrs.TargetMethod, mr)
		if !mcfg.Export {
			continue
		}
		mcfg.Merge(&cfg)
		f := parseSignature(ctx, mid, mcfg, owner, ownerCat, mr)
		if f == nil || mr.Errors > 0 {
			failed++
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 && failed == 0 {
		diag.ReportWarning(r, diag.ShpNoExports, cfg.ExportSpan,
			fmt.Sprintf("impl `%s` is exported but none of its methods carry `#[rid::export]`", owner)).Emit()
	}
	return out
}

func parseSignature(ctx *Context, id ast.ItemID, cfg attrs.Config, owner string, ownerCat attrs.Category, r *diag.CountingReporter) *Function {
	b := ctx.B
	item := b.Items.Get(id)
	fn := b.Items.Fn(id)
	before := r.Errors

	for _, g := range item.Generics {
		if !g.IsLifetime {
			diag.ReportError(r, diag.ShpGeneric, g.Span,
				fmt.Sprintf("exported function `%s` cannot be generic over types", item.Name)).Emit()
			return nil
		}
	}

	f := &Function{
		FnIdent:       item.Name,
		ExportName:    item.Name,
		Owner:         owner,
		OwnerCategory: ownerCat,
		Config:        cfg,
		Span:          item.Span,
		NameSpan:      item.NameSpan,
		Docs:          item.Docs,
	}
	if cfg.ExportName != "" {
		f.ExportName = cfg.ExportName
	}
	switch fn.Receiver {
	case ast.ReceiverRef:
		f.Receiver = RecvRef
	case ast.ReceiverRefMut:
		f.Receiver = RecvRefMut
	case ast.ReceiverValue:
		diag.ReportError(r, diag.ShpOwnedSelf, fn.ReceiverSpan,
			fmt.Sprintf("exported method `%s` takes `self` by value; use `&self` or `&mut self`", item.Name)).
			WithFix("borrow self", diag.FixEdit{
				Span:    source.Span{File: fn.ReceiverSpan.File, Start: fn.ReceiverSpan.Start, End: fn.ReceiverSpan.Start},
				NewText: "&",
			}).
			Emit()
	}

	env := ctx.env(&cfg, owner, ownerCat, item.Span)
	for slot, pid := range fn.Params {
		p := b.Items.FnParam(pid)
		if p.Pattern != ast.PatternIdent {
			diag.ReportError(r, diag.ShpPatternParam, p.PatternSpan,
				"parameters of exported functions must be simple identifiers").Emit()
			continue
		}
		env.Pos = types.PosParam
		m, d := types.Resolve(b, p.Type, env)
		if d != nil {
			emit(r, d)
			continue
		}
		bind, err := abi.Param(m)
		if err != nil {
			diag.ReportError(r, diag.TypUnsupportedParam, m.Span, err.Error()).Emit()
			continue
		}
		f.Args = append(f.Args, Arg{Slot: slot, Ident: p.Name, Type: m, Binding: bind, Span: p.Span})
	}

	env.Pos = types.PosReturn
	m, d := types.Resolve(b, fn.Result, env)
	if d != nil {
		emit(r, d)
	} else if bind, err := abi.Return(m); err != nil {
		diag.ReportError(r, diag.TypUnsupportedReturn, m.Span, err.Error()).Emit()
	} else {
		f.Return, f.ReturnBind = m, bind
	}

	if r.Errors > before {
		return nil
	}
	return f
}
