package fuzztests

import (
	"context"
	"testing"
	"time"

	"rid/internal/ast"
	"rid/internal/clientgen"
	"rid/internal/diag"
	"rid/internal/hostgen"
	"rid/internal/items"
	"rid/internal/parser"
	"rid/internal/plan"
	"rid/internal/source"
	"rid/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.rs", input))
		bag := diag.NewBag(128)
		b := ast.NewBuilder(ast.Hints{})
		res := parser.ParseFile(file, b, parser.Options{MaxErrors: 128, Reporter: diag.BagReporter{Bag: bag}})
		if res.Failed > 0 || len(b.Files.Get(res.File).Items) == 0 {
			return
		}
		if err := testkit.CheckSpanInvariants(b, res.File, file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzParserNoHang checks that parsing terminates on any input, including
// the recovery paths for unbalanced delimiters.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("pub struct S { x: Vec<u8 }"))
	f.Add([]byte("impl S { fn f(&self) -> { } }"))
	f.Add([]byte("#[rid::model(] pub enum E {}"))
	f.Add([]byte("pub enum E { A(, B { } }"))
	f.Add([]byte("fn f() { { { { } } } }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.rs", input))
			bag := diag.NewBag(128)
			_ = parser.ParseFile(file, ast.NewBuilder(ast.Hints{}), parser.Options{
				MaxErrors: 128,
				Reporter:  diag.BagReporter{Bag: bag},
			})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzGenerate runs the whole front end and both emitters. Emission only
// happens for error-free plans, mirroring the driver.
func FuzzGenerate(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.rs", input))
		bag := diag.NewBag(256)
		rep := diag.BagReporter{Bag: bag}
		b := ast.NewBuilder(ast.Hints{})
		res := parser.ParseFile(file, b, parser.Options{MaxErrors: 128, Reporter: rep})

		ctx := items.NewContext(b, fs, []ast.FileID{res.File})
		var list []items.Item
		for _, id := range b.Files.Get(res.File).Items {
			list = append(list, items.Parse(ctx, id, rep)...)
		}
		p := plan.Build(list, ctx.Decls, plan.NewEmissionContext(), rep)
		if bag.HasErrors() {
			return
		}
		if out := hostgen.Generate(p, hostgen.Options{}); len(out) == 0 {
			t.Fatalf("empty host output for an error-free plan")
		}
		_ = clientgen.Generate(p, clientgen.Options{Binding: "ffigen_binding.dart", Runtime: "rid_runtime.dart", Library: "fuzz"})
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(append([]byte(nil), input[:maxLen]...), "..."...)
}
