package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"rid/internal/ast"
	"rid/internal/diag"
)

func fieldSummary(arenas *ast.Builder, ids []ast.FieldID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		f := arenas.Items.Field(id)
		vis := ""
		if f.Public {
			vis = "pub "
		}
		out = append(out, vis+f.Name+": "+arenas.TypeString(f.Type))
	}
	return out
}

func TestParseStructShapes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  ast.ItemKind
		wantShape ast.StructShape
		wantField []string
	}{
		{
			name:      "named",
			input:     "pub struct Model { pub id: u32, title: String, }",
			wantKind:  ast.ItemStruct,
			wantShape: ast.StructNamed,
			wantField: []string{"pub id: u32", "title: String"},
		},
		{
			name:      "generic containers",
			input:     "struct S { todos: Vec<Todo>, map: HashMap<u8, u32>, opt: Option<std::ffi::CString> }",
			wantKind:  ast.ItemStruct,
			wantShape: ast.StructNamed,
			wantField: []string{"todos: Vec<Todo>", "map: HashMap<u8, u32>", "opt: Option<std::ffi::CString>"},
		},
		{
			name:      "tuple",
			input:     "struct Point(pub u8, i32);",
			wantKind:  ast.ItemStruct,
			wantShape: ast.StructTuple,
			wantField: []string{"pub 0: u8", "1: i32"},
		},
		{
			name:      "unit",
			input:     "struct Marker;",
			wantKind:  ast.ItemStruct,
			wantShape: ast.StructUnit,
			wantField: []string{},
		},
		{
			name:      "union",
			input:     "union Bits { a: u32, b: f32 }",
			wantKind:  ast.ItemUnion,
			wantShape: ast.StructNamed,
			wantField: []string{"a: u32", "b: f32"},
		},
		{
			name:      "where clause",
			input:     "struct W<T> where T: Clone { v: Vec<T> }",
			wantKind:  ast.ItemStruct,
			wantShape: ast.StructNamed,
			wantField: []string{"v: Vec<T>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arenas, id := parseOne(t, tt.input)
			item := arenas.Items.Get(id)
			if item.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", item.Kind, tt.wantKind)
			}
			st := arenas.Items.Struct(id)
			if st.Shape != tt.wantShape {
				t.Errorf("shape = %v, want %v", st.Shape, tt.wantShape)
			}
			if diff := cmp.Diff(tt.wantField, fieldSummary(arenas, st.Fields)); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEnumVariants(t *testing.T) {
	src := `enum Msg {
    AddTodo(String),
    Reset,
    Move { from: u8, to: u8 },
    Code = 3,
}`
	arenas, id := parseOne(t, src)
	en := arenas.Items.Enum(id)
	if en == nil {
		t.Fatalf("expected enum payload")
	}
	type variant struct {
		Name   string
		Shape  ast.StructShape
		Fields int
		Disc   string
	}
	var got []variant
	for _, vid := range en.Variants {
		v := arenas.Items.Variant(vid)
		got = append(got, variant{v.Name, v.Shape, len(v.Fields), v.Discriminant})
	}
	want := []variant{
		{"AddTodo", ast.StructTuple, 1, ""},
		{"Reset", ast.StructUnit, 0, ""},
		{"Move", ast.StructNamed, 2, ""},
		{"Code", ast.StructUnit, 0, "3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("variants mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocsAndAttributes(t *testing.T) {
	src := `/// A todo item.
#[rid::model]
#[derive(Debug, Clone)]
/// Second line.
pub struct Todo { id: u32 }`
	arenas, id := parseOne(t, src)
	item := arenas.Items.Get(id)
	if diff := cmp.Diff([]string{"A todo item.", "Second line."}, item.Docs); diff != "" {
		t.Errorf("docs mismatch (-want +got):\n%s", diff)
	}
	attrs := arenas.Items.CollectAttrs(item.Attrs)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attrs, got %d", len(attrs))
	}
	if got := attrs[0].PathString(); got != "rid::model" {
		t.Errorf("attr[0] = %q", got)
	}
	if got := attrs[1].PathString(); got != "derive" || len(attrs[1].Args) != 2 {
		t.Errorf("attr[1] = %q with %d args", got, len(attrs[1].Args))
	}
	if !item.Public {
		t.Errorf("expected pub item")
	}
}

func TestParseOtherItems(t *testing.T) {
	src := `use std::collections::HashMap;
mod inner { struct Hidden; }
mod outer;
const MAX: usize = { 1 + 2 };
static mut COUNTER: u32 = 0;
type Alias<T> = Vec<T>;
extern crate libc;
extern "C" { fn puts(s: *const i8) -> i32; }
trait Greet { fn hi(&self); }
macro_rules! noop { () => {}; }
lazy_static! { static ref X: u8 = 1; }
thread_local!(static Y: u8 = 2);`
	arenas, fileID, bag := parseSource(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	file := arenas.Files.Get(fileID)
	var got []string
	for _, id := range file.Items {
		item := arenas.Items.Get(id)
		if item.Kind != ast.ItemOther {
			t.Errorf("item %q kind = %v, want other", item.Name, item.Kind)
		}
		got = append(got, item.Keyword+" "+item.Name)
	}
	want := []string{
		"use ", "mod inner", "mod outer", "const MAX", "static COUNTER",
		"type Alias", "extern libc", "extern ", "trait Greet",
		"macro_rules! noop", "lazy_static! ", "thread_local! ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecoversAtItemBoundary(t *testing.T) {
	src := `struct Broken { a: }
struct Good { b: u8 }
let x = 1;
enum E { A }`
	arenas, fileID, bag := parseSource(t, src)
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
	file := arenas.Files.Get(fileID)
	var names []string
	for _, id := range file.Items {
		names = append(names, arenas.Items.Get(id).Name)
	}
	if diff := cmp.Diff([]string{"Good", "E"}, names); diff != "" {
		t.Errorf("surviving items mismatch (-want +got):\n%s\n%s", diff, diagnosticsSummary(bag))
	}
	codes := map[diag.Code]bool{}
	for _, d := range bag.Items() {
		codes[d.Code] = true
	}
	if !codes[diag.SynExpectType] || !codes[diag.SynUnexpectedTopLevel] {
		t.Errorf("unexpected codes: %s", diagnosticsSummary(bag))
	}
}

func TestParseMaxErrors(t *testing.T) {
	src := "let a = 1;\nlet b = 2;\nlet c = 3;\nlet d = 4;\n"
	arenas, fileID, bag := parseSourceWithMax(t, src, 2)
	if len(arenas.Files.Get(fileID).Items) != 0 {
		t.Errorf("expected no items")
	}
	last := bag.Items()[bag.Len()-1]
	if last.Code != diag.SynTooManyErrors {
		t.Errorf("last diagnostic = %s, want too many errors", diagnosticsSummary(bag))
	}
	if bag.Len() != 2 {
		t.Errorf("expected 2 diagnostics, got %s", diagnosticsSummary(bag))
	}
}

func TestParseAttributeWithoutItem(t *testing.T) {
	_, _, bag := parseSource(t, "struct A;\n#[rid::model]\n")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynAttributeNoItem {
		t.Errorf("got %s", diagnosticsSummary(bag))
	}
}
