package parser

import (
	"fmt"
	"strings"
	"testing"

	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	return parseSourceWithMax(t, src, 100)
}

func parseSourceWithMax(t *testing.T, src string, maxErrors uint) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rs", []byte(src))
	bag := diag.NewBag(100)
	arenas := ast.NewBuilder(ast.Hints{})
	res := ParseFile(fs.Get(fileID), arenas, Options{MaxErrors: maxErrors, Reporter: diag.BagReporter{Bag: bag}})
	return arenas, res.File, bag
}

// parseOne parses src and requires exactly one top-level item without diagnostics.
func parseOne(t *testing.T, src string) (*ast.Builder, ast.ItemID) {
	t.Helper()
	arenas, fileID, bag := parseSource(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	file := arenas.Files.Get(fileID)
	if len(file.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(file.Items))
	}
	return arenas, file.Items[0]
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}
