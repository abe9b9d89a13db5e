package driver

import (
	"context"
	"fmt"
	"time"

	"fortio.org/safecast"

	"rid/internal/ast"
	"rid/internal/diag"
	"rid/internal/items"
	"rid/internal/parser"
	"rid/internal/pipeline"
	"rid/internal/source"
	"rid/internal/trace"
)

// Unit is one input file carried through parsing and item extraction.
// Every unit owns its builder, so units can be processed in parallel.
type Unit struct {
	Path    string
	FileID  source.FileID
	Builder *ast.Builder
	ASTFile ast.FileID
	Failed  int // items dropped because of syntax errors
	Items   []items.Item
	Bag     *diag.Bag

	rep *diag.DedupReporter
}

// loadInputs reads paths into fs in order. Files that cannot be read are
// reported into bag and skipped.
func loadInputs(fs *source.FileSet, paths []string, bag *diag.Bag, sink pipeline.ProgressSink) []source.FileID {
	ids := make([]source.FileID, 0, len(paths))
	for _, path := range paths {
		display := pipeline.DisplayPath(path, fs.BaseDir())
		pipeline.Emit(sink, pipeline.Event{File: display, Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
		start := time.Now()
		id, err := fs.Load(path)
		if err != nil {
			bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("failed to load %s: %v", display, err)))
			pipeline.Emit(sink, pipeline.Event{File: display, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
			continue
		}
		ids = append(ids, id)
		pipeline.Emit(sink, pipeline.Event{File: display, Stage: pipeline.StageLoad, Status: pipeline.StatusDone, Elapsed: time.Since(start)})
	}
	return ids
}

// parseUnit lexes and parses one loaded file into a fresh builder.
func parseUnit(ctx context.Context, fs *source.FileSet, id source.FileID, maxDiagnostics int, sink pipeline.ProgressSink) (*Unit, error) {
	file := fs.Get(id)
	u := &Unit{
		Path:    pipeline.DisplayPath(file.Path, fs.BaseDir()),
		FileID:  id,
		Builder: ast.NewBuilder(ast.Hints{}),
		Bag:     diag.NewBag(maxDiagnostics),
	}
	u.rep = diag.NewDedupReporter(diag.BagReporter{Bag: u.Bag})
	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, err
	}

	_, span := trace.StartSpan(ctx, trace.ScopeFile, "parse_file")
	span.WithExtra("path", u.Path)
	pipeline.Emit(sink, pipeline.Event{File: u.Path, Stage: pipeline.StageParse, Status: pipeline.StatusWorking})
	start := time.Now()

	res := parser.ParseFile(file, u.Builder, parser.Options{
		MaxErrors: maxErrors,
		Reporter:  u.rep,
	})
	u.ASTFile = res.File
	u.Failed = res.Failed

	status := pipeline.StatusDone
	if u.Bag.HasErrors() {
		status = pipeline.StatusError
	}
	pipeline.Emit(sink, pipeline.Event{File: u.Path, Stage: pipeline.StageParse, Status: status, Elapsed: time.Since(start)})
	span.End(fmt.Sprintf("items=%d failed=%d", len(u.Builder.Files.Get(u.ASTFile).Items), u.Failed))
	return u, nil
}

// extractItems turns the annotated items of u into parsed records. decls is
// the merged declaration index of every input.
func extractItems(ctx context.Context, fs *source.FileSet, u *Unit, decls map[string]items.Decl, sink pipeline.ProgressSink) {
	_, span := trace.StartSpan(ctx, trace.ScopeFile, "items_file")
	span.WithExtra("path", u.Path)
	pipeline.Emit(sink, pipeline.Event{File: u.Path, Stage: pipeline.StageItems, Status: pipeline.StatusWorking})
	start := time.Now()

	ictx := &items.Context{B: u.Builder, Files: fs, Decls: decls}
	for _, id := range u.Builder.Files.Get(u.ASTFile).Items {
		u.Items = append(u.Items, items.Parse(ictx, id, u.rep)...)
	}

	status := pipeline.StatusDone
	if u.Bag.HasErrors() {
		status = pipeline.StatusError
	}
	pipeline.Emit(sink, pipeline.Event{File: u.Path, Stage: pipeline.StageItems, Status: status, Elapsed: time.Since(start)})
	span.End(fmt.Sprintf("records=%d dup=%d", len(u.Items), u.rep.Suppressed()))
}

// mergeDecls indexes declarations across units in unit order; the first
// declaration of a name wins.
func mergeDecls(units []*Unit) map[string]items.Decl {
	merged := map[string]items.Decl{}
	for _, u := range units {
		for name, d := range items.CollectDecls(u.Builder, []ast.FileID{u.ASTFile}) {
			if _, seen := merged[name]; !seen {
				merged[name] = d
			}
		}
	}
	return merged
}
