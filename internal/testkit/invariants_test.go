package testkit

import (
	"strings"
	"testing"
)

func TestSpanInvariantsOnParsedInput(t *testing.T) {
	f := BuildPlan(`
#[rid::model]
pub struct Todo { id: u32, title: String }

pub enum Filter { All, Done(u8), Named { x: u8 } }

#[rid::export]
impl Todo {
    #[rid::export]
    pub fn id(&self) -> u32 { self.id }
}
`)
	if f.Bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", Summary(f.Bag))
	}
	for _, fid := range f.FileIDs {
		file := f.Builder.Files.Get(fid)
		if err := CheckSpanInvariants(f.Builder, fid, f.Files.Get(file.Span.File)); err != nil {
			t.Fatal(err)
		}
	}
	if len(f.Plan.Structs) != 1 || len(f.Plan.Funcs) != 1 {
		t.Fatalf("unexpected plan: %d structs, %d funcs", len(f.Plan.Structs), len(f.Plan.Funcs))
	}
}

func TestSpanInvariantsReportEveryViolation(t *testing.T) {
	f := BuildPlan("pub struct A { x: u8 }\npub struct B { y: u8 }\n")
	fid := f.FileIDs[0]
	file := f.Builder.Files.Get(fid)
	for _, id := range file.Items {
		it := f.Builder.Items.Get(id)
		it.NameSpan.End = file.Span.End + 10
	}
	err := CheckSpanInvariants(f.Builder, fid, f.Files.Get(file.Span.File))
	if err == nil {
		t.Fatal("expected violations")
	}
	for _, name := range []string{`item "A" name`, `item "B" name`} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("missing %s in %v", name, err)
		}
	}
}
