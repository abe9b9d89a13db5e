package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// rustSeeds cover every annotated item shape the generator accepts.
var rustSeeds = []string{
	"",
	"pub struct Plain { x: u8 }\n",
	`#[rid::model]
#[derive(Debug)]
pub struct Todo {
    id: u32,
    title: String,
    completed: bool,
}
`,
	`#[rid::store]
#[rid::structs(Todo)]
#[rid::enums(Filter)]
pub struct Store {
    todos: Vec<Todo>,
    filter: Filter,
    counts: HashMap<u32, u64>,
}

#[rid::model]
pub struct Todo { id: u32 }

#[rid::model]
#[derive(Clone, Copy, Debug, PartialEq)]
pub enum Filter { All, Completed, Pending }
`,
	`#[rid::message(Reply)]
pub enum Msg {
    Inc,
    Add(i64),
    Rename(String),
}

#[rid::reply]
pub enum Reply {
    Incremented(u64),
    Added(u64, String),
    Renamed(u64),
}
`,
	`#[rid::export]
impl Store {
    #[rid::export]
    pub fn filtered_todos(&self) -> Vec<&Todo> { vec![] }
    #[rid::export(todo_by_id)]
    pub fn todo(&self, id: u32) -> Option<&Todo> { None }
    pub fn hidden(&mut self) {}
}

#[rid::export]
pub fn add(a: u8, b: u8) -> u16 { a as u16 + b as u16 }
`,
	"#[rid::model]\npub struct Broken { name: &str, other: Vec<Vec<u8>> }\n",
	"#[rid::model]\npub struct Unclosed { x: u8,\n",
	"#[rid::model(extra)]\npub enum E { A = 1, B(u8) }\n",
	"/* unterminated comment\n#[rid::model] pub struct S {}",
	"#[rid::model]\npub struct S<'a, T: Clone> where T: Copy { r: &'a T }\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range rustSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.rs file under testdata/ when the directory exists.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".rs" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	return clampSeed(input[:min(len(input), maxFuzzInput)])
}
