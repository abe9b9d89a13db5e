package types

import (
	"fmt"
	"slices"

	"rid/internal/ast"
	"rid/internal/attrs"
	"rid/internal/diag"
	"rid/internal/fix"
	"rid/internal/source"
)

// Position is where the type occurs; some shapes are legal only in returns.
type Position uint8

const (
	PosField Position = iota
	PosParam
	PosReturn
	PosPayload
)

func (p Position) String() string {
	switch p {
	case PosField:
		return "field"
	case PosParam:
		return "parameter"
	case PosReturn:
		return "return"
	case PosPayload:
		return "message payload"
	}
	return "unknown"
}

// Env is the resolution context of one item.
type Env struct {
	Info InfoMap
	// Self is the impl owner `Self` stands for; empty outside impls.
	Self         string
	SelfCategory attrs.Category
	Pos          Position
	// Declared lists the types declared anywhere in the input; it only picks
	// the preferred quick fix for missing registrations.
	Declared map[string]attrs.Category
	// FixAnchor is the start of the item a registration attribute is inserted before.
	FixAnchor source.Span
	Indent    string
}

var unsupportedWrappers = []string{"Box", "Rc", "Arc", "RefCell", "Cell", "Mutex", "RwLock", "Cow", "BTreeMap", "HashSet", "BTreeSet", "VecDeque"}

// Resolve maps a type expression to its canonical Model. A NoTypeID resolves to Unit.
func Resolve(b *ast.Builder, id ast.TypeID, env Env) (Model, *diag.Diagnostic) {
	r := resolver{b: b, env: env}
	return r.resolve(id, false)
}

type resolver struct {
	b   *ast.Builder
	env Env
}

func (r *resolver) fail(code diag.Code, sp source.Span, format string, args ...any) (Model, *diag.Diagnostic) {
	d := diag.NewError(code, sp, fmt.Sprintf(format, args...))
	return Model{Kind: KindUnknown, Span: sp}, &d
}

func (r *resolver) resolve(id ast.TypeID, inComposite bool) (Model, *diag.Diagnostic) {
	t := r.b.Types.Get(id)
	if t == nil {
		return Model{Kind: KindUnit}, nil
	}
	switch t.Kind {
	case ast.TypeExprTuple:
		if len(t.Elems) == 0 {
			return Model{Kind: KindUnit, Span: t.Span}, nil
		}
		return r.fail(diag.TypUnsupportedShape, t.Span, "tuple type `%s` is not supported across the ABI", r.b.TypeString(id))
	case ast.TypeExprRef:
		return r.resolveRef(t, inComposite)
	case ast.TypeExprPath:
		return r.resolvePath(id, t, inComposite)
	default:
		return r.fail(diag.TypUnsupportedShape, t.Span, "%s `%s` is not supported across the ABI", t.Kind, r.b.TypeString(id))
	}
}

func (r *resolver) resolveRef(t *ast.TypeExpr, inComposite bool) (Model, *diag.Diagnostic) {
	kind := Ref
	if t.Mut {
		kind = RefMut
	}
	inner := r.b.Types.Get(t.Elem)
	if inner != nil && inner.Kind == ast.TypeExprRef {
		return r.fail(diag.TypUnsupportedShape, t.Span, "reference to a reference `%s` is not supported", r.b.TypeString(t.Elem))
	}
	var m Model
	if inner != nil && inner.Kind == ast.TypeExprPath && len(inner.Segments) == 1 && inner.Segments[0].Name == "str" {
		m = Model{Kind: KindString, Str: StrBorrowed}
	} else {
		var d *diag.Diagnostic
		m, d = r.resolve(t.Elem, inComposite)
		if d != nil {
			return m, d
		}
		if m.IsUnit() {
			return r.fail(diag.TypUnsupportedShape, t.Span, "reference to `()` is not supported")
		}
	}
	m.Reference = kind
	m.Lifetime = t.Lifetime
	m.Span = t.Span
	return m, nil
}

func (r *resolver) resolvePath(id ast.TypeID, t *ast.TypeExpr, inComposite bool) (Model, *diag.Diagnostic) {
	seg := t.LastSegment()
	name := seg.Name
	switch name {
	case "Vec", "HashMap", "Option":
		return r.resolveComposite(id, t, seg, inComposite)
	case "String":
		return Model{Kind: KindString, Str: StrOwnedUtf8, Span: t.Span}, nil
	case "CString":
		return Model{Kind: KindString, Str: StrCString, Span: t.Span}, nil
	case "str":
		d := diag.NewError(diag.TypBareStr, t.Span, "bare `str` is unsized; use `&str` or `String`").
			WithFixSuggestion(fix.InsertText("borrow as &str", t.Span, "&", "", fix.WithID(fix.MakeFixID(diag.TypBareStr, t.Span)), fix.Preferred()))
		return Model{Kind: KindUnknown, Span: t.Span}, &d
	}
	if p, ok := LookupPrim(name); ok && len(t.Segments) == 1 {
		return Model{Kind: KindPrimitive, Prim: p, Span: t.Span}, nil
	}
	if slices.Contains(unsupportedWrappers, name) {
		return r.fail(diag.TypUnsupportedShape, t.Span, "`%s` is not supported across the ABI; expose the inner type instead", r.b.TypeString(id))
	}
	if len(seg.Args) > 0 {
		return r.fail(diag.TypUnsupportedShape, t.Span, "generic type `%s` is not supported", r.b.TypeString(id))
	}
	if name == "Self" && len(t.Segments) == 1 {
		if r.env.Self == "" {
			return r.fail(diag.TypUnsupportedShape, t.Span, "`Self` is only allowed inside an impl block")
		}
		return Model{Kind: KindValue, Ident: r.env.Self, Category: r.env.SelfCategory, Span: t.Span}, nil
	}
	if info, ok := r.env.Info.Lookup(name); ok {
		return Model{Kind: KindValue, Ident: name, Category: info.Category, Span: t.Span}, nil
	}
	d := r.missingInfo(name, t.Span)
	return Model{Kind: KindUnknown, Span: t.Span}, &d
}

func (r *resolver) missingInfo(name string, sp source.Span) diag.Diagnostic {
	msg := fmt.Sprintf("Missing info for type %s; add `#[rid::structs(%s)]` or `#[rid::enums(%s)]`", name, name, name)
	d := diag.NewError(diag.TypMissingInfo, sp, msg)
	if r.env.FixAnchor.File == sp.File && r.env.FixAnchor.End >= r.env.FixAnchor.Start {
		at := r.env.FixAnchor.At()
		cat, declared := r.env.Declared[name]
		for _, c := range []attrs.Category{attrs.CategoryStruct, attrs.CategoryEnum} {
			attr := "structs"
			if c == attrs.CategoryEnum {
				attr = "enums"
			}
			d = d.WithFixSuggestion(fix.InsertAttr(
				fmt.Sprintf("register %s with #[rid::%s(%s)]", name, attr, name),
				at, attr, name, r.env.Indent,
				fix.WithID(fix.MakeFixID(diag.TypMissingInfo, sp)+"-"+attr),
				fix.PreferredIf(declared && cat == c),
			))
		}
	}
	return d
}

func (r *resolver) resolveComposite(id ast.TypeID, t *ast.TypeExpr, seg *ast.PathSegment, inComposite bool) (Model, *diag.Diagnostic) {
	if inComposite {
		return r.fail(diag.TypNestedComposite, t.Span, "nested composite `%s` is not supported; wrap the inner collection in a registered struct", r.b.TypeString(id))
	}
	want := 1
	op := OpVec
	switch seg.Name {
	case "HashMap":
		want, op = 2, OpHashMap
	case "Option":
		op = OpOption
	}
	if len(seg.Args) != want {
		return r.fail(diag.TypUnsupportedShape, t.Span, "`%s` expects %d type argument(s)", seg.Name, want)
	}

	inner, d := r.resolve(seg.Args[want-1], true)
	if d != nil {
		return inner, d
	}
	m := Model{Kind: KindComposite, Op: op, Span: t.Span}

	switch op {
	case OpVec:
		if inner.IsRef() && r.env.Pos != PosReturn {
			return r.fail(diag.TypReferenceInVec, inner.Span, "references inside `Vec` are only supported in return position")
		}
		if inner.IsUnit() {
			return r.fail(diag.TypUnsupportedShape, t.Span, "`Vec<()>` is not supported")
		}
	case OpHashMap:
		key, d := r.resolve(seg.Args[0], true)
		if d != nil {
			return key, d
		}
		if !key.IsPrimitive() || key.IsRef() {
			return r.fail(diag.TypHashMapKey, key.Span, "HashMap key `%s` must be a primitive type", key)
		}
		if !inner.IsPrimitive() || inner.IsRef() {
			return r.fail(diag.TypHashMapValue, inner.Span, "HashMap value `%s` must be a primitive type", inner)
		}
		m.Key = &key
	case OpOption:
		if inner.IsRef() {
			return r.fail(diag.TypOptionOfReference, inner.Span, "`Option` of a reference is not supported")
		}
		if inner.IsPrimitive() || inner.IsEnum() || inner.IsUnit() {
			return r.fail(diag.TypOptionOfValue, inner.Span, "`Option<%s>` cannot be represented as a nullable pointer; only structs and strings are supported", inner)
		}
	}
	m.Inner = &inner
	return m, nil
}
