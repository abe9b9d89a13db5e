package ast

import (
	"strings"

	"rid/internal/source"
)

type Hints struct{ Files, Items, Types uint }

type Builder struct {
	Files *Files
	Items *Items
	Types *TypeExprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Items == 0 {
		hints.Items = 1 << 6
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	return &Builder{
		Files: NewFiles(hints.Files),
		Items: NewItems(hints.Items),
		Types: NewTypeExprs(hints.Types),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

func (b *Builder) NewAttr(attr Attr) AttrID {
	return AttrID(b.Items.Attrs.Allocate(attr))
}

func (b *Builder) NewField(field Field) FieldID {
	return FieldID(b.Items.Fields.Allocate(field))
}

func (b *Builder) NewVariant(v Variant) VariantID {
	return VariantID(b.Items.Variants.Allocate(v))
}

func (b *Builder) NewFnParam(p FnParam) FnParamID {
	return FnParamID(b.Items.FnParams.Allocate(p))
}

func (b *Builder) NewStruct(item Item, payload StructItem) ItemID {
	item.Payload = PayloadID(b.Items.Structs.Allocate(payload))
	return b.Items.New(item)
}

func (b *Builder) NewEnum(item Item, payload EnumItem) ItemID {
	item.Kind = ItemEnum
	item.Payload = PayloadID(b.Items.Enums.Allocate(payload))
	return b.Items.New(item)
}

func (b *Builder) NewImpl(item Item, payload ImplItem) ItemID {
	item.Kind = ItemImpl
	item.Payload = PayloadID(b.Items.Impls.Allocate(payload))
	return b.Items.New(item)
}

func (b *Builder) NewFn(item Item, payload FnItem) ItemID {
	item.Kind = ItemFn
	item.Payload = PayloadID(b.Items.Fns.Allocate(payload))
	return b.Items.New(item)
}

func (b *Builder) NewOther(item Item) ItemID {
	item.Kind = ItemOther
	return b.Items.New(item)
}

// TypeString renders a type expression back to Rust syntax.
func (b *Builder) TypeString(id TypeID) string {
	var sb strings.Builder
	b.writeType(&sb, id)
	return sb.String()
}

func (b *Builder) writeType(sb *strings.Builder, id TypeID) {
	t := b.Types.Get(id)
	if t == nil {
		sb.WriteString("()")
		return
	}
	switch t.Kind {
	case TypeExprPath:
		for i, seg := range t.Segments {
			if i > 0 {
				sb.WriteString("::")
			}
			sb.WriteString(seg.Name)
			if len(seg.Args) == 0 && len(seg.Lifetimes) == 0 {
				continue
			}
			sb.WriteByte('<')
			n := 0
			for _, lt := range seg.Lifetimes {
				if n > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(lt)
				n++
			}
			for _, arg := range seg.Args {
				if n > 0 {
					sb.WriteString(", ")
				}
				b.writeType(sb, arg)
				n++
			}
			sb.WriteByte('>')
		}
	case TypeExprRef:
		sb.WriteByte('&')
		if t.Lifetime != "" {
			sb.WriteString(t.Lifetime)
			sb.WriteByte(' ')
		}
		if t.Mut {
			sb.WriteString("mut ")
		}
		b.writeType(sb, t.Elem)
	case TypeExprPtr:
		if t.Mut {
			sb.WriteString("*mut ")
		} else {
			sb.WriteString("*const ")
		}
		b.writeType(sb, t.Elem)
	case TypeExprTuple:
		sb.WriteByte('(')
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			b.writeType(sb, e)
		}
		if len(t.Elems) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case TypeExprSlice:
		sb.WriteByte('[')
		b.writeType(sb, t.Elem)
		sb.WriteByte(']')
	case TypeExprNever:
		sb.WriteByte('!')
	case TypeExprInfer:
		sb.WriteByte('_')
	default:
		sb.WriteString(t.Text)
	}
}
