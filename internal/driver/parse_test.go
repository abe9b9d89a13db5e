package driver

import (
	"context"
	"testing"

	"rid/internal/source"
)

func TestParseUnitCountsDroppedItems(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("lib.rs", []byte("struct Broken { a: }\nstruct Good { b: u8 }\n"))

	u, err := parseUnit(context.Background(), fs, id, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	if u.Failed != 1 {
		t.Errorf("Failed = %d, want 1", u.Failed)
	}
	if !u.Bag.HasErrors() {
		t.Errorf("syntax error was not reported")
	}
	if n := len(u.Builder.Files.Get(u.ASTFile).Items); n != 1 {
		t.Errorf("kept %d items, want 1", n)
	}
}
