package ast

import (
	"testing"

	"rid/internal/source"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatalf("empty arena must return nil")
	}
	id := a.Allocate(7)
	if id != 1 || *a.Get(id) != 7 || a.Len() != 1 {
		t.Fatalf("unexpected arena state: id=%d len=%d", id, a.Len())
	}
}

func TestTypeString(t *testing.T) {
	b := NewBuilder(Hints{})
	u8 := b.Types.New(TypeExpr{Kind: TypeExprPath, Segments: []PathSegment{{Name: "u8"}}})
	str := b.Types.New(TypeExpr{Kind: TypeExprPath, Segments: []PathSegment{{Name: "String"}}})
	hm := b.Types.New(TypeExpr{Kind: TypeExprPath, Segments: []PathSegment{
		{Name: "std"}, {Name: "collections"}, {Name: "HashMap", Args: []TypeID{u8, str}},
	}})
	ref := b.Types.New(TypeExpr{Kind: TypeExprRef, Lifetime: "'a", Mut: true, Elem: hm})
	unit := b.Types.New(TypeExpr{Kind: TypeExprTuple})

	tests := []struct {
		id   TypeID
		want string
	}{
		{u8, "u8"},
		{hm, "std::collections::HashMap<u8, String>"},
		{ref, "&'a mut std::collections::HashMap<u8, String>"},
		{unit, "()"},
		{NoTypeID, "()"},
	}
	for _, tt := range tests {
		if got := b.TypeString(tt.id); got != tt.want {
			t.Errorf("TypeString = %q, want %q", got, tt.want)
		}
	}
	if seg := b.Types.Get(hm).LastSegment(); seg == nil || seg.Name != "HashMap" {
		t.Fatalf("LastSegment = %+v", seg)
	}
}

func TestItemPayloadAccessors(t *testing.T) {
	b := NewBuilder(Hints{})
	f := b.NewField(Field{Name: "id"})
	id := b.NewStruct(Item{Kind: ItemStruct, Name: "Todo", Span: source.Span{End: 10}}, StructItem{Fields: []FieldID{f}})
	if s := b.Items.Struct(id); s == nil || len(s.Fields) != 1 {
		t.Fatalf("Struct payload missing")
	}
	if b.Items.Enum(id) != nil || b.Items.Fn(id) != nil || b.Items.Impl(id) != nil {
		t.Fatalf("wrong-kind accessors must return nil")
	}
	attr := b.NewAttr(Attr{Path: []string{"rid", "model"}})
	if a := b.Items.Attr(attr); !a.InNamespace("rid") || a.PathString() != "rid::model" || a.LastSegment() != "model" {
		t.Fatalf("unexpected attr helpers: %+v", a)
	}
}
