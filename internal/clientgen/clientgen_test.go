package clientgen

import (
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rid/internal/plan"
	"rid/internal/testkit"
)

func generate(t *testing.T, src string) (string, *plan.Plan) {
	t.Helper()
	f := testkit.BuildPlan(src)
	if f.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", testkit.Summary(f.Bag))
	}
	return string(Generate(f.Plan, Options{})), f.Plan
}

func requireLines(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("missing %q in output:\n%s", w, out)
		}
	}
}

var nativeCall = regexp.MustCompile(`_dl\.(\w+)`)

func calledSymbols(out string) []string {
	seen := map[string]bool{}
	var syms []string
	for _, m := range nativeCall.FindAllStringSubmatch(out, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			syms = append(syms, m[1])
		}
	}
	slices.Sort(syms)
	return syms
}

func TestPreamble(t *testing.T) {
	f := testkit.BuildPlan("#[rid::model]\npub struct A { x: u8 }")
	out := string(Generate(f.Plan, Options{Binding: "gen/bindings.dart", Library: "todo"}))
	requireLines(t, out,
		Header,
		"import 'dart:ffi';",
		"import 'gen/bindings.dart' as ffigen_bind;",
		"import 'rid_runtime.dart' as rid;",
		"final ffigen_bind.NativeLibrary _dl = ffigen_bind.NativeLibrary(rid.openLibrary('todo'));",
	)
}

func TestSimpleStruct(t *testing.T) {
	out, _ := generate(t, `
/// A single todo.
#[rid::model]
pub struct Todo { id: u8, title: String, done: bool, ratio: f32 }
`)
	requireLines(t, out,
		"typedef Pointer_Todo = Pointer<ffigen_bind.RawTodo>;",
		"/// A single todo.\nextension Rid_Model_Todo on Pointer_Todo {",
		"  int get id => _dl.rid_Todo_id(this);",
		"  String get title => rid.takeString(_dl.rid_Todo_title(this), _dl.rid_cstring_free);",
		"  bool get done => _dl.rid_Todo_done(this);",
		"  double get ratio => _dl.rid_Todo_ratio(this);",
		"  void dispose() => _dl.rid_free_Todo(this);",
	)
}

func TestVecOfStructs(t *testing.T) {
	out, _ := generate(t, `
#[rid::model]
#[rid::structs(Todo)]
pub struct Model { todos: Vec<Todo> }

pub struct Todo { id: u8 }
`)
	requireLines(t, out,
		"  RidVec_Todo get todos => RidVec_Todo._(_dl.rid_Model_todos(this));",
		"class RidVec_Todo extends Iterable<Pointer_Todo> {",
		"  final ffigen_bind.RidVec_Todo _vec;",
		"  int get length => _dl.rid_vec_Todo_len(_vec);",
		"    return _dl.rid_vec_Todo_get(_vec, idx);",
		"  Iterator<Pointer_Todo> get iterator => rid.RidVecIterator(length, (i) => this[i]);",
		"  void dispose() => _dl.rid_vec_Todo_free(_vec);",
		"extension Rid_Model_Todo on Pointer_Todo {",
	)
	if n := strings.Count(out, "class RidVec_Todo "); n != 1 {
		t.Errorf("RidVec_Todo emitted %d times", n)
	}
}

func TestEnumMirror(t *testing.T) {
	out, _ := generate(t, `
#[rid::model]
#[rid::enums(Filter)]
pub struct Store { filter: Filter, history: Vec<Filter> }

#[rid::debug]
#[derive(Debug)]
pub enum Filter { All, Completed }
`)
	requireLines(t, out,
		"enum Filter { All, Completed }",
		"  Filter get filter => Filter.values[_dl.rid_Store_filter(this)];",
		"    return Filter.values[_dl.rid_vec_Filter_get(_vec, idx)];",
		"extension Rid_Debug_Filter on Filter {",
		"String debug([bool pretty = false]) => rid.takeString(pretty ? _dl.rid_Filter_debug_pretty(index) : _dl.rid_Filter_debug(index), _dl.rid_cstring_free);",
	)
}

func TestFunctions(t *testing.T) {
	out, _ := generate(t, `
#[rid::model]
pub struct TodoList { n: u32 }

#[rid::export]
#[rid::enums(Filter)]
impl TodoList {
    /// Creates an empty list.
    #[rid::export]
    pub fn new() -> Self { todo!() }
    #[rid::export]
    pub fn rename(&mut self, name: String) {}
    #[rid::export]
    pub fn find(&self, query: &str, filter: Filter) -> Option<TodoList> { None }
    #[rid::export]
    pub fn label(&self) -> &str { "" }
}

pub enum Filter { All, Completed }

#[rid::export]
pub fn greet(name: &str) -> String { name.to_string() }
`)
	requireLines(t, out,
		"/// Creates an empty list.\nPointer_TodoList todoListNew() => _dl.rid_todo_list_new();",
		"  void rename(String name) => _dl.rid_todo_list_rename(this, rid.toNativeString(name));",
		"  Pointer_TodoList? find(String query, Filter filter) {\n"+
			"    final queryPtr = rid.toNativeString(query);\n"+
			"    try {\n"+
			"      return rid.nullablePointer(_dl.rid_todo_list_find(this, queryPtr, filter.index));\n"+
			"    } finally {\n"+
			"      rid.freeNativeString(queryPtr);\n"+
			"    }\n"+
			"  }",
		"  String label() => _ridStr(_dl.rid_todo_list_label(this));",
		"String _ridStr(ffigen_bind.RidStr s) => rid.decodeUtf8(s.ptr, s.len);",
		"String greet(String name) {",
		"    return rid.takeString(_dl.rid_export_greet(namePtr), _dl.rid_cstring_free);",
	)
}

func TestVoidBorrowedCall(t *testing.T) {
	out, _ := generate(t, "#[rid::export]\npub fn log(line: &str) {}")
	requireLines(t, out, "void log(String line) {", "    _dl.rid_export_log(linePtr);\n  } finally {")
}

func TestStoreAndMessages(t *testing.T) {
	out, _ := generate(t, `
#[rid::store]
pub struct Store { count: u32 }

#[rid::message(Reply)]
#[rid::enums(Filter)]
pub enum Msg { Inc, Add(u32), Rename(String), SetFilter(Filter) }

/// Replies to messages.
#[rid::reply]
pub enum Reply { Increased(u64), Added(u64, String) }

pub enum Filter { All, Done }
`)
	requireLines(t, out,
		"final rid.ReplyChannel replyChannel = rid.ReplyChannel(_dl.rid_init_reply_isolate);",
		"class Store {",
		"    final store = Store._(_dl.rid_store_init());\n    _dl.rid_store_unlock();",
		"  T runLocked<T>(T Function(Pointer_Store store) fn) {",
		"      _store = _dl.rid_store_lock();",
		"  Future<rid.PostedReply> msgInc() {\n    if (_lockDepth != 0) {\n      throw StateError('msgInc cannot be sent while the store is locked');",
		"    _dl.rid_msg_Inc(reqId);",
		"  Future<rid.PostedReply> msgAdd(int payload) {",
		"    _dl.rid_msg_Add(reqId, payload);",
		"    _dl.rid_msg_Rename(reqId, rid.toNativeString(payload));",
		"  Future<rid.PostedReply> msgSetFilter(Filter payload) {",
		"    _dl.rid_msg_SetFilter(reqId, payload.index);",
		"/// Replies to messages.\nenum Reply { Increased, Added }",
		"extension Rid_Reply_Reply on rid.PostedReply {",
		"  Reply get asReply => Reply.values[slot];",
	)
}

func TestHashMap(t *testing.T) {
	out, _ := generate(t, `
use std::collections::HashMap;

#[rid::model]
pub struct Store { scores: HashMap<u32, bool> }
`)
	requireLines(t, out,
		"  RidHashMap_u32_bool get scores => RidHashMap_u32_bool._(_dl.rid_Store_scores(this));",
		"class RidHashMap_u32_bool {",
		"  bool? operator [](int key) {",
		"  bool containsKey(int key) => _dl.rid_hashmap_u32_bool_contains_key(_map, key);",
		"    final vec = RidVec_u32._(_dl.rid_hashmap_u32_bool_keys(_map));",
		"class RidVec_u32 extends Iterable<int> {",
	)
}

func TestClientCallsEveryHostSymbol(t *testing.T) {
	out, p := generate(t, `
use std::collections::HashMap;

#[rid::store]
#[rid::structs(Todo)]
#[rid::enums(Filter)]
#[rid::debug]
#[derive(Debug)]
pub struct Store { todos: Vec<Todo>, filter: Filter, tags: HashMap<u32, u8>, name: Option<String> }

#[rid::model]
pub struct Todo { id: u32, title: String }

#[rid::debug]
#[derive(Debug)]
pub enum Filter { All, Completed }

#[rid::export]
#[rid::structs(Todo)]
#[rid::enums(Filter)]
impl Store {
    #[rid::export]
    pub fn visible(&self, filter: Filter) -> Vec<&Todo> { todo!() }
    #[rid::export]
    pub fn take(&mut self) -> Todo { todo!() }
}

#[rid::message(Reply)]
pub enum Msg { Add(String), Toggle(u32) }

#[rid::reply]
pub enum Reply { Added(u64, String), Toggled(u64) }
`)
	var want []string
	for _, s := range p.Symbols {
		if !strings.HasPrefix(s, "_export_dart_enum_") {
			want = append(want, s)
		}
	}
	slices.Sort(want)
	if diff := cmp.Diff(want, calledSymbols(out)); diff != "" {
		t.Errorf("client calls differ from host symbols (-host +client):\n%s", diff)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	src := `
#[rid::model]
#[rid::structs(Todo)]
pub struct Model { todos: Vec<Todo>, title: String }

pub struct Todo { id: u8 }
`
	first, _ := generate(t, src)
	second, _ := generate(t, src)
	if first != second {
		t.Fatalf("output differs between runs")
	}
}

func TestRuntimeExportsHelpers(t *testing.T) {
	rt := string(Runtime())
	for _, name := range []string{
		"DynamicLibrary openLibrary(", "String readString(", "String takeString(",
		"String? takeOptString(", "nullablePointer<", "String decodeUtf8(",
		"Pointer<Int8> toNativeString(", "void freeNativeString(",
		"class RidVecIterator<T>", "class PostedReply", "class ReplyChannel",
	} {
		if !strings.Contains(rt, name) {
			t.Errorf("runtime is missing %q", name)
		}
	}
}
