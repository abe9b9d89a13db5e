package items

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rid/internal/abi"
	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/parser"
	"rid/internal/source"
)

func parseItems(t *testing.T, src string) ([]Item, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("lib.rs", []byte(src))
	b := ast.NewBuilder(ast.Hints{})
	bag := diag.NewBag(100)
	res := parser.ParseFile(fs.Get(fileID), b, parser.Options{MaxErrors: 100, Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %s", summary(bag))
	}
	ctx := NewContext(b, fs, []ast.FileID{res.File})
	var out []Item
	for _, id := range b.Files.Get(res.File).Items {
		out = append(out, Parse(ctx, id, diag.BagReporter{Bag: bag})...)
	}
	return out, bag
}

func summary(bag *diag.Bag) string {
	if bag.Len() == 0 {
		return "<none>"
	}
	lines := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		lines = append(lines, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return strings.Join(lines, "; ")
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestParseModelStruct(t *testing.T) {
	src := `
/// Application state.
#[rid::model]
#[rid::structs(Todo)]
#[rid::enums(Filter)]
pub struct Store {
    count: u32,
    title: String,
    todos: Vec<Todo>,
    filter: Filter,
}

pub struct Todo { id: u32 }
pub enum Filter { All, Done }
`
	got, bag := parseItems(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", summary(bag))
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	s, ok := got[0].(*Struct)
	if !ok {
		t.Fatalf("expected *Struct, got %T", got[0])
	}
	if s.Ident != "Store" || s.RawIdent != "RawStore" {
		t.Fatalf("idents = %q/%q", s.Ident, s.RawIdent)
	}
	if diff := cmp.Diff([]string{"Application state."}, s.Docs); diff != "" {
		t.Errorf("docs mismatch (-want +got):\n%s", diff)
	}

	type fieldSummary struct {
		Ident, Method, Type string
		Conv              abi.Conv
	}
	var fields []fieldSummary
	for _, f := range s.Fields {
		fields = append(fields, fieldSummary{f.Ident, f.MethodIdent, f.Type.String(), f.Binding.Conv})
	}
	want := []fieldSummary{
		{"count", "rid_Store_count", "u32", abi.ConvPrim},
		{"title", "rid_Store_title", "String", abi.ConvStringOwned},
		{"todos", "rid_Store_todos", "Vec<Todo>", abi.ConvVec},
		{"filter", "rid_Store_filter", "Filter", abi.ConvEnumSlot},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnannotatedItemsYieldNothing(t *testing.T) {
	got, bag := parseItems(t, `
pub struct Plain { a: u8 }
pub enum E { A }
pub fn helper() -> u8 { 1 }
impl Plain { pub fn get(&self) -> u8 { self.a } }
#[derive(Debug)]
pub struct Registered { x: Plain }
`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", summary(bag))
	}
	if len(got) != 0 {
		t.Fatalf("expected no items, got %d", len(got))
	}
}

func TestParseEnums(t *testing.T) {
	src := `
#[rid::model]
pub enum Filter { All, Completed, Pending }

#[rid::message(Reply)]
pub enum Msg {
    Inc,
    Add(i64),
    Rename(String),
}

#[rid::reply]
pub enum Reply {
    Started,
    Increased(u64),
    Logged(String),
    Added(u64, String),
}
`
	got, bag := parseItems(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", summary(bag))
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}

	filter := got[0].(*Enum)
	if filter.Role != RolePlain || !filter.UnitOnly() {
		t.Errorf("Filter role=%v unitOnly=%v", filter.Role, filter.UnitOnly())
	}
	var slots []string
	for _, v := range filter.Variants {
		slots = append(slots, fmt.Sprintf("%s=%d", v.Ident, v.Slot))
	}
	if diff := cmp.Diff([]string{"All=0", "Completed=1", "Pending=2"}, slots); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}

	msg := got[1].(*Enum)
	if msg.Role != RoleMessage || msg.Reply != "Reply" {
		t.Fatalf("Msg role=%v reply=%q", msg.Role, msg.Reply)
	}
	if msg.Variants[0].Payload != nil {
		t.Errorf("Inc should carry no payload")
	}
	if p := msg.Variants[1].Payload; p == nil || p.Conv != abi.ConvPrim {
		t.Errorf("Add payload = %+v", p)
	}
	if p := msg.Variants[2].Payload; p == nil || p.Conv != abi.ConvParamString {
		t.Errorf("Rename payload = %+v", p)
	}

	reply := got[2].(*Enum)
	type shape struct {
		Ident             string
		ReqID, HasPayload bool
	}
	var shapes []shape
	for _, v := range reply.Variants {
		shapes = append(shapes, shape{v.Ident, v.HasReqID, v.HasPayload})
	}
	wantShapes := []shape{
		{"Started", false, false},
		{"Increased", true, false},
		{"Logged", false, true},
		{"Added", true, true},
	}
	if diff := cmp.Diff(wantShapes, shapes); diff != "" {
		t.Errorf("reply shapes mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFunctions(t *testing.T) {
	src := `
#[rid::model]
#[rid::structs(Todo)]
pub struct Store { todos: Vec<Todo> }

pub struct Todo { id: u32 }

#[rid::export]
#[rid::structs(Todo)]
impl Store {
    #[rid::export]
    pub fn todo_count(&self) -> usize { self.todos.len() }

    #[rid::export(firstTodo)]
    pub fn first<'a>(&'a self) -> &'a Todo { &self.todos[0] }

    #[rid::export]
    pub fn new(title: &str, id: u32) -> Self { todo!() }

    pub fn internal(&self) {}
}

#[rid::export]
pub fn add_numbers(a: i64, b: i64) -> i64 { a + b }
`
	got, bag := parseItems(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", summary(bag))
	}

	type fnSummary struct {
		Owner, Fn, Export string
		Recv              Receiver
		Args              []string
		Ret               abi.Conv
	}
	var fns []fnSummary
	for _, it := range got {
		f, ok := it.(*Function)
		if !ok {
			continue
		}
		var args []string
		for _, a := range f.Args {
			args = append(args, fmt.Sprintf("%d:%s:%s", a.Slot, a.Ident, a.Binding.Conv))
		}
		fns = append(fns, fnSummary{f.Owner, f.FnIdent, f.ExportName, f.Receiver, args, f.ReturnBind.Conv})
	}
	want := []fnSummary{
		{"Store", "todo_count", "todo_count", RecvRef, nil, abi.ConvPrim},
		{"Store", "first", "firstTodo", RecvRef, nil, abi.ConvStructBorrowed},
		{"Store", "new", "new", RecvNone, []string{"0:title:str param", "1:id:primitive"}, abi.ConvStructOwned},
		{"", "add_numbers", "add_numbers", RecvNone, []string{"0:a:primitive", "1:b:primitive"}, abi.ConvPrim},
	}
	if diff := cmp.Diff(want, fns); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMethodRecovery(t *testing.T) {
	src := `
#[rid::model]
pub struct Store { n: u32 }

#[rid::export]
impl Store {
    #[rid::export]
    pub fn consume(self) -> u32 { self.n }

    #[rid::export]
    pub fn peek(&self) -> u32 { self.n }
}
`
	got, bag := parseItems(t, src)
	if diff := cmp.Diff([]diag.Code{diag.ShpOwnedSelf}, codes(bag)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	var names []string
	for _, it := range got {
		if f, ok := it.(*Function); ok {
			names = append(names, f.FnIdent)
		}
	}
	if diff := cmp.Diff([]string{"peek"}, names); diff != "" {
		t.Errorf("surviving methods mismatch (-want +got):\n%s", diff)
	}
	fixes := bag.Items()[0].Fixes
	if len(fixes) != 1 || fixes[0].Edits[0].NewText != "&" {
		t.Errorf("expected a borrow fix, got %+v", fixes)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"tuple struct", "#[rid::model]\npub struct P(u32, u32);", diag.ShpTupleStruct},
		{"union", "#[rid::model]\npub union U { a: u32 }", diag.ShpUnion},
		{"generic struct", "#[rid::model]\npub struct G<T> { v: T }", diag.ShpGeneric},
		{"missing info", "#[rid::model]\npub struct S { t: Todo }\npub struct Todo {}", diag.TypMissingInfo},
		{"lifetime struct", "#[rid::model]\npub struct S<'a> { s: &'a str }", diag.ShpGeneric},
		{"model enum with data", "#[rid::model]\npub enum E { A(u8) }", diag.ShpModelEnumFields},
		{"model and message", "#[rid::model]\n#[rid::message(R)]\npub enum E { A }", diag.AtrConflict},
		{"two payloads", "#[rid::message(R)]\npub enum M { A(u8, u8) }", diag.ShpMessagePayload},
		{"named payload", "#[rid::message(R)]\npub enum M { A { x: u8 } }", diag.ShpMessagePayload},
		{"struct payload", "#[rid::structs(T)]\n#[rid::message(R)]\npub enum M { A(T) }\npub struct T {}", diag.ShpMessagePayload},
		{"bad reply variant", "#[rid::reply]\npub enum R { A(String, u64) }", diag.ShpReplyVariant},
		{"generic fn", "#[rid::export]\npub fn f<T>(t: T) {}", diag.ShpGeneric},
		{"pattern param", "#[rid::export]\npub fn f((a, b): (u8, u8)) {}", diag.ShpPatternParam},
		{"struct by value param", "#[rid::structs(T)]\n#[rid::export]\npub fn f(t: T) {}\npub struct T {}", diag.TypUnsupportedParam},
		{"owned vec of strings", "#[rid::export]\npub fn f() -> Vec<String> { vec![] }", diag.TypUnsupportedReturn},
		{"method export without impl export", "pub struct S {}\nimpl S {\n    #[rid::export]\n    pub fn f(&self) {}\n}", diag.AtrWrongCarrier},
		{"impl on tuple", "#[rid::export]\nimpl (u8, u8) {}", diag.ShpUnsupportedItem},
		{"impl export name", "#[rid::export(x)]\nimpl S { #[rid::export] pub fn f(&self) {} }\npub struct S {}", diag.AtrUnexpectedArgs},
		{"attribute on field", "#[rid::model]\npub struct S {\n    #[rid::export]\n    a: u8,\n}", diag.AtrWrongCarrier},
		{"attribute on mod", "#[rid::model]\nmod m {}", diag.AtrWrongCarrier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bag := parseItems(t, tt.src)
			cs := codes(bag)
			if len(cs) == 0 || cs[0] != tt.want {
				t.Fatalf("expected %s first, got %s", tt.want.ID(), summary(bag))
			}
			if len(got) != 0 {
				t.Errorf("failing input still produced %d items", len(got))
			}
		})
	}
}

func TestParseNoExportsWarning(t *testing.T) {
	got, bag := parseItems(t, "pub struct S {}\n#[rid::export]\nimpl S {\n    pub fn f(&self) {}\n}")
	if len(got) != 0 {
		t.Fatalf("expected no items, got %d", len(got))
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.ShpNoExports || items[0].Severity != diag.SevWarning {
		t.Fatalf("expected a single no-exports warning, got %s", summary(bag))
	}
}

func TestMissingInfoFixUsesIndent(t *testing.T) {
	src := "  #[rid::model]\n  pub struct S { t: Todo }\npub struct Todo {}\n"
	_, bag := parseItems(t, src)
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %s", summary(bag))
	}
	d := bag.Items()[0]
	if d.Code != diag.TypMissingInfo {
		t.Fatalf("expected missing info, got %s", d.Code.ID())
	}
	var preferred []string
	for _, f := range d.Fixes {
		if f.IsPreferred {
			preferred = append(preferred, f.Edits[0].NewText)
		}
	}
	if diff := cmp.Diff([]string{"#[rid::structs(Todo)]\n  "}, preferred); diff != "" {
		t.Errorf("preferred fix mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectDecls(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("lib.rs", []byte("pub struct A {}\npub enum B { X, Y(u8) }\npub enum C { P, Q }\npub fn f() {}\npub struct A {}\n"))
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs.Get(fileID), b, parser.Options{MaxErrors: 10})
	decls := CollectDecls(b, []ast.FileID{res.File})
	if len(decls) != 3 {
		t.Fatalf("expected 3 decls, got %d", len(decls))
	}
	if d := decls["B"]; d.UnitOnly || !cmp.Equal([]string{"X", "Y"}, d.Variants) {
		t.Errorf("B = %+v", d)
	}
	if d := decls["C"]; !d.UnitOnly {
		t.Errorf("C should be unit-only")
	}
	if d := decls["A"]; d.Span.Start != 0 {
		t.Errorf("first declaration of A should win, got span %v", d.Span)
	}
}
