package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rid/internal/diag"
	"rid/internal/observ"
	"rid/internal/pipeline"
	"rid/internal/reply"
	"rid/internal/testkit"
)

func writeInputs(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return dir, paths
}

func generateSrc(t *testing.T, src string) *Result {
	t.Helper()
	dir, paths := writeInputs(t, map[string]string{"src/lib.rs": src})
	res, err := Generate(context.Background(), Options{Inputs: paths, BaseDir: dir, MaxDiagnostics: 100})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return res
}

func requireClean(t *testing.T, res *Result) {
	t.Helper()
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", testkit.Summary(res.Bag))
	}
	if res.Outputs == nil {
		t.Fatalf("no outputs")
	}
}

func requireContains(t *testing.T, what, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("%s: missing %q", what, w)
		}
	}
}

func TestScenarioSimpleStruct(t *testing.T) {
	res := generateSrc(t, `
#[rid::model]
pub struct Todo { id: u8, title: String }
`)
	requireClean(t, res)
	requireContains(t, "host", string(res.Outputs.Host),
		"fn rid_Todo_id(ptr: *mut RawTodo) -> u8 {",
		"fn rid_Todo_title(ptr: *mut RawTodo) -> *mut i8 {",
		"fn rid_free_Todo(ptr: *mut RawTodo) {",
		"fn rid_cstring_free(ptr: *mut i8) {",
	)
	requireContains(t, "client", string(res.Outputs.Client),
		"extension Rid_Model_Todo on Pointer_Todo {",
		"int get id => _dl.rid_Todo_id(this);",
		"String get title => rid.takeString(_dl.rid_Todo_title(this), _dl.rid_cstring_free);",
	)
	if len(res.Outputs.Runtime) == 0 {
		t.Errorf("runtime source is empty")
	}
}

func TestScenarioVecOfStructs(t *testing.T) {
	res := generateSrc(t, `
#[rid::model]
#[rid::structs(Todo)]
pub struct Model { todos: Vec<Todo> }

pub struct Todo { id: u8 }
`)
	requireClean(t, res)
	host := string(res.Outputs.Host)
	requireContains(t, "host", host,
		"fn rid_Model_todos(ptr: *mut RawModel) -> RidVec_Todo {",
		"pub type RidVec_Todo = RidVec<*mut RawTodo>;",
	)
	for _, sym := range []string{"rid_vec_Todo_len", "rid_vec_Todo_get", "rid_vec_Todo_free"} {
		if n := strings.Count(host, "fn "+sym+"("); n != 1 {
			t.Errorf("%s emitted %d times, want once", sym, n)
		}
	}
}

func TestScenarioEnumField(t *testing.T) {
	res := generateSrc(t, `
#[rid::model]
#[rid::enums(Filter)]
pub struct Store { filter: Filter }

pub enum Filter { All, Completed }
`)
	requireClean(t, res)
	requireContains(t, "host", string(res.Outputs.Host),
		"fn rid_Store_filter(ptr: *mut RawStore) -> i32 {",
		"Filter::All { .. } => 0,",
		"Filter::Completed { .. } => 1,",
		"pub extern \"C\" fn _export_dart_enum_Filter(_: Filter) {",
	)
}

func TestScenarioMessageReply(t *testing.T) {
	res := generateSrc(t, `
#[rid::store]
pub struct Store { count: u32 }

#[rid::message(Reply)]
pub enum Msg { Inc, Add(u32) }

#[rid::reply]
pub enum Reply { Increased(u64), Added(u64, String) }
`)
	requireClean(t, res)
	requireContains(t, "host", string(res.Outputs.Host),
		"fn rid_msg_Inc(req_id: u64) {",
		"fn rid_msg_Add(req_id: u64, payload: u32) {",
		`Reply::Added(req_id, payload) => format!("{}^{}", rid_reply_header(1, *req_id), payload),`,
	)

	h, err := reply.NewHeader(1, 7)
	if err != nil {
		t.Fatal(err)
	}
	wire := reply.Encode(reply.Reply{Header: h, Payload: "x", HasPayload: true})
	if wire != "30064771073^x" {
		t.Fatalf("wire = %q, want 30064771073^x", wire)
	}
}

func TestScenarioMissingTypeInfo(t *testing.T) {
	src := `
#[rid::model]
pub struct Store { todo: Todo }

pub struct Todo { id: u8 }
`
	res := generateSrc(t, src)
	if !res.Bag.HasErrors() {
		t.Fatalf("expected an error")
	}
	if res.Outputs != nil {
		t.Fatalf("outputs must not be produced when errors were reported")
	}
	var found *diag.Diagnostic
	for i, d := range res.Bag.Items() {
		if d.Code == diag.TypMissingInfo {
			found = &res.Bag.Items()[i]
		}
	}
	if found == nil {
		t.Fatalf("no %s diagnostic: %s", diag.TypMissingInfo.ID(), testkit.Summary(res.Bag))
	}
	if !strings.HasPrefix(found.Message, "Missing info for type Todo") {
		t.Errorf("message = %q", found.Message)
	}
	if got := res.FileSet.Text(found.Primary); got != "Todo" {
		t.Errorf("primary span covers %q, want Todo", got)
	}
}

func TestKeepGoingEmitsValidItems(t *testing.T) {
	dir, paths := writeInputs(t, map[string]string{"lib.rs": `
#[rid::model]
pub struct Store { todo: Todo }

#[rid::model]
pub struct Other { id: u8 }

pub struct Todo { id: u8 }
`})
	res, err := Generate(context.Background(), Options{Inputs: paths, BaseDir: dir, KeepGoing: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bag.HasErrors() || res.Outputs == nil {
		t.Fatalf("want errors and outputs, got errors=%v outputs=%v", res.Bag.HasErrors(), res.Outputs != nil)
	}
	host := string(res.Outputs.Host)
	if !strings.Contains(host, "fn rid_Other_id(") {
		t.Errorf("valid item missing from output")
	}
	if strings.Contains(host, "rid_Store_todo") {
		t.Errorf("item with errors contributed symbols")
	}
}

func TestScenarioBorrowedVsOwnedString(t *testing.T) {
	tests := []struct {
		name, ret string
		free      bool
	}{
		{"borrowed", "&String", false},
		{"owned", "String", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := generateSrc(t, `
#[rid::model]
pub struct Store { count: u32 }

#[rid::export]
impl Store {
    #[rid::export]
    pub fn title(&self) -> `+tt.ret+` { todo!() }
}
`)
			requireClean(t, res)
			if got := strings.Contains(string(res.Outputs.Host), "fn rid_cstring_free("); got != tt.free {
				t.Errorf("rid_cstring_free emitted = %v, want %v", got, tt.free)
			}
		})
	}
}

func TestDeclsAcrossFiles(t *testing.T) {
	dir, paths := writeInputs(t, map[string]string{
		"src/a.rs": "#[rid::model]\n#[rid::structs(Todo)]\npub struct Model { todos: Vec<Todo> }\n",
		"src/b.rs": "pub struct Todo { id: u8 }\n",
	})
	res, err := Generate(context.Background(), Options{Inputs: paths, BaseDir: dir, Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	requireClean(t, res)
	if len(res.Units) != 2 || res.Units[0].Path != "src/a.rs" || res.Units[1].Path != "src/b.rs" {
		t.Fatalf("units not in path order: %+v", res.Units)
	}
	if _, ok := res.Decls["Todo"]; !ok {
		t.Fatalf("Todo declared in b.rs is not visible")
	}
}

func TestParallelOutputIsDeterministic(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		files["src/"+name+".rs"] = "#[rid::model]\npub struct " + strings.ToUpper(name) + "Item { id: u32, label: String }\n"
	}
	dir, paths := writeInputs(t, files)

	run := func(jobs int, inputs []string) *Outputs {
		res, err := Generate(context.Background(), Options{Inputs: inputs, BaseDir: dir, Jobs: jobs})
		if err != nil {
			t.Fatal(err)
		}
		requireClean(t, res)
		return res.Outputs
	}
	serial := run(1, paths)
	reversed := append([]string(nil), paths...)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	parallel := run(8, reversed)
	if diff := cmp.Diff(string(serial.Host), string(parallel.Host)); diff != "" {
		t.Errorf("host differs (-serial +parallel):\n%s", diff)
	}
	if diff := cmp.Diff(string(serial.Client), string(parallel.Client)); diff != "" {
		t.Errorf("client differs (-serial +parallel):\n%s", diff)
	}
}

func TestLoadFailureIsDiagnostic(t *testing.T) {
	res, err := Generate(context.Background(), Options{Inputs: []string{filepath.Join(t.TempDir(), "missing.rs")}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Bag.Items()) != 1 || res.Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("diagnostics = %s", testkit.Summary(res.Bag))
	}
	if res.Outputs != nil {
		t.Fatalf("outputs produced for unreadable input")
	}
}

func TestNoInputs(t *testing.T) {
	res, err := Generate(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Bag.Items()) != 1 || res.Bag.Items()[0].Code != diag.CfgNoInputs {
		t.Fatalf("diagnostics = %s", testkit.Summary(res.Bag))
	}
}

func TestAnalyzeStopsBeforeEmit(t *testing.T) {
	dir, paths := writeInputs(t, map[string]string{"lib.rs": "#[rid::model]\npub struct Todo { id: u8 }\n"})
	res, err := Analyze(context.Background(), Options{Inputs: paths, BaseDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outputs != nil || res.Plan == nil || len(res.Items) != 1 {
		t.Fatalf("outputs=%v plan=%v items=%d", res.Outputs != nil, res.Plan != nil, len(res.Items))
	}
}

func TestCacheHit(t *testing.T) {
	dir, paths := writeInputs(t, map[string]string{"lib.rs": "#[rid::model]\npub struct Todo { id: u8 }\n"})
	cache, err := OpenDiskCache(filepath.Join(dir, ".rid-cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Inputs: paths, BaseDir: dir, Cache: cache}

	first, err := Generate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	requireClean(t, first)
	if first.Cached {
		t.Fatalf("first run cannot be a cache hit")
	}

	rec := &pipeline.Recorder{}
	opts.Progress = rec
	second, err := Generate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatalf("second run missed the cache")
	}
	if diff := cmp.Diff(first.Outputs, second.Outputs); diff != "" {
		t.Errorf("cached outputs differ:\n%s", diff)
	}
	if got := rec.Last()["lib.rs"][pipeline.StageParse]; got != pipeline.StatusCached {
		t.Errorf("parse status = %q, want cached", got)
	}

	if err := os.WriteFile(paths[0], []byte("#[rid::model]\npub struct Todo { id: u16 }\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	third, err := Generate(context.Background(), Options{Inputs: paths, BaseDir: dir, Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Fatalf("edited input must invalidate the cache")
	}
	if !strings.Contains(string(third.Outputs.Host), "-> u16 {") {
		t.Errorf("stale output after edit")
	}
}

func TestTimingsDiagnostic(t *testing.T) {
	dir, paths := writeInputs(t, map[string]string{"lib.rs": "#[rid::model]\npub struct Todo { id: u8 }\n"})
	res, err := Generate(context.Background(), Options{
		Inputs: paths, BaseDir: dir, Timer: observ.NewTimer(), EmitTimings: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.ObsTimings || items[0].Severity != diag.SevInfo {
		t.Fatalf("diagnostics = %s", testkit.Summary(res.Bag))
	}
	if len(items[0].Notes) != 1 || !strings.Contains(items[0].Notes[0].Msg, `"phases"`) {
		t.Errorf("timing payload missing: %+v", items[0].Notes)
	}
}

func TestProgressEvents(t *testing.T) {
	dir, paths := writeInputs(t, map[string]string{"lib.rs": "#[rid::model]\npub struct Todo { id: u8 }\n"})
	rec := &pipeline.Recorder{}
	if _, err := Generate(context.Background(), Options{Inputs: paths, BaseDir: dir, Progress: rec}); err != nil {
		t.Fatal(err)
	}
	last := rec.Last()
	for _, stage := range []pipeline.Stage{pipeline.StageLoad, pipeline.StageParse, pipeline.StageItems} {
		if got := last["lib.rs"][stage]; got != pipeline.StatusDone {
			t.Errorf("lib.rs %s = %q, want done", stage, got)
		}
	}
	if got := last[""][pipeline.StageEmit]; got != pipeline.StatusDone {
		t.Errorf("emit = %q, want done", got)
	}
}
