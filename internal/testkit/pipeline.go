package testkit

import (
	"fmt"

	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/items"
	"rid/internal/parser"
	"rid/internal/plan"
	"rid/internal/source"
)

// Front is the result of running the front end over virtual sources.
type Front struct {
	Files   *source.FileSet
	Builder *ast.Builder
	FileIDs []ast.FileID
	Items   []items.Item
	Decls   map[string]items.Decl
	Plan    *plan.Plan
	Bag     *diag.Bag
}

// BuildPlan parses srcs as lib.rs, lib1.rs, ... and builds the binding plan.
func BuildPlan(srcs ...string) *Front {
	fs := source.NewFileSet()
	b := ast.NewBuilder(ast.Hints{})
	bag := diag.NewBag(200)
	rep := diag.BagReporter{Bag: bag}
	out := &Front{Files: fs, Builder: b, Bag: bag}
	for i, src := range srcs {
		name := "lib.rs"
		if i > 0 {
			name = fmt.Sprintf("lib%d.rs", i)
		}
		id := fs.AddVirtual(name, []byte(src))
		res := parser.ParseFile(fs.Get(id), b, parser.Options{MaxErrors: 100, Reporter: rep})
		out.FileIDs = append(out.FileIDs, res.File)
	}
	ctx := items.NewContext(b, fs, out.FileIDs)
	out.Decls = ctx.Decls
	for _, fid := range out.FileIDs {
		for _, id := range b.Files.Get(fid).Items {
			out.Items = append(out.Items, items.Parse(ctx, id, rep)...)
		}
	}
	out.Plan = plan.Build(out.Items, out.Decls, plan.NewEmissionContext(), rep)
	return out
}

// Summary renders diagnostics as "[CODE] message" entries for test failures.
func Summary(bag *diag.Bag) string {
	if bag == nil || bag.Len() == 0 {
		return "<none>"
	}
	s := ""
	for i, d := range bag.Items() {
		if i > 0 {
			s += "; "
		}
		s += fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return s
}
