// Package driver runs generation end to end: inputs are loaded, parsed in
// parallel, turned into parsed records, planned once and emitted as host,
// client and runtime sources.
package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"rid/internal/clientgen"
	"rid/internal/diag"
	"rid/internal/hostgen"
	"rid/internal/items"
	"rid/internal/observ"
	"rid/internal/pipeline"
	"rid/internal/plan"
	"rid/internal/project"
	"rid/internal/source"
	"rid/internal/trace"
)

// Options configures one run.
type Options struct {
	Inputs []string
	// BaseDir is used to render relative paths; empty means the working directory.
	BaseDir        string
	MaxDiagnostics int
	// Jobs bounds parallel parsing; <= 0 means GOMAXPROCS.
	Jobs   int
	Host   hostgen.Options
	Client clientgen.Options

	Progress pipeline.ProgressSink
	Timer    *observ.Timer
	Cache    *DiskCache

	// KeepGoing emits outputs even when errors were reported.
	KeepGoing bool
	// StopBeforeEmit ends the run after planning.
	StopBeforeEmit bool
	// EmitTimings appends an ObsTimings diagnostic with the timer report.
	EmitTimings bool
}

// Result is everything a run produced. Outputs is nil when errors were
// reported without KeepGoing, or when the run stopped before emission.
// On a cache hit only FileSet, Bag and Outputs are set.
type Result struct {
	FileSet *source.FileSet
	Units   []*Unit
	Items   []items.Item
	Decls   map[string]items.Decl
	Plan    *plan.Plan
	Bag     *diag.Bag
	Outputs *Outputs
	Cached  bool
}

// Analyze runs every stage up to and including planning.
func Analyze(ctx context.Context, opts Options) (*Result, error) {
	opts.StopBeforeEmit = true
	opts.Cache = nil
	return run(ctx, opts)
}

// Generate runs the whole pipeline and renders the outputs.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	return run(ctx, opts)
}

func run(ctx context.Context, opts Options) (*Result, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "generate")
	defer span.End("")

	fs := source.NewFileSetWithBase(opts.BaseDir)
	res := &Result{FileSet: fs, Bag: diag.NewBag(opts.MaxDiagnostics)}
	timer := opts.Timer
	sink := opts.Progress

	inputs := normalizeInputs(opts.Inputs)
	if len(inputs) == 0 {
		res.Bag.Add(diag.NewError(diag.CfgNoInputs, source.Span{}, "no input files"))
		return res, nil
	}

	// load
	idx := timer.Begin("load")
	ids := loadInputs(fs, inputs, res.Bag, sink)
	timer.End(idx, fmt.Sprintf("%d files", len(ids)))

	var key project.Digest
	useCache := opts.Cache != nil && !opts.StopBeforeEmit && res.Bag.Len() == 0
	if useCache {
		key = cacheKey(fs, ids, opts)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{}, fmt.Sprintf("disk cache read failed: %v", err)))
		case hit:
			res.Cached = true
			res.Outputs = &Outputs{Host: payload.Host, Client: payload.Client, Runtime: payload.Runtime}
			markCached(fs, ids, sink)
			trace.Point(ctx, trace.ScopePass, "cache_hit", fmt.Sprintf("%x", key[:6]))
			finish(res, opts, len(ids))
			return res, nil
		}
	}

	// parse
	idx = timer.Begin("parse")
	pctx, pspan := trace.StartSpan(ctx, trace.ScopePass, "parse")
	units := make([]*Unit, len(ids))
	err := forEach(pctx, opts.Jobs, len(ids), func(ctx context.Context, i int) error {
		u, err := parseUnit(ctx, fs, ids[i], opts.MaxDiagnostics, sink)
		if err != nil {
			return err
		}
		units[i] = u
		return nil
	})
	pspan.End("")
	timer.End(idx, fmt.Sprintf("jobs=%d", opts.Jobs))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	res.Units = units

	// items
	idx = timer.Begin("items")
	ictx, ispan := trace.StartSpan(ctx, trace.ScopePass, "items")
	res.Decls = mergeDecls(units)
	err = forEach(ictx, opts.Jobs, len(units), func(ctx context.Context, i int) error {
		extractItems(ctx, fs, units[i], res.Decls, sink)
		return nil
	})
	ispan.End("")
	if err != nil {
		timer.End(idx, "")
		return nil, fmt.Errorf("items: %w", err)
	}
	for _, u := range units {
		res.Bag.Merge(u.Bag)
		res.Items = append(res.Items, u.Items...)
	}
	timer.End(idx, fmt.Sprintf("%d records", len(res.Items)))

	// plan
	idx = timer.Begin("plan")
	_, plspan := trace.StartSpan(ctx, trace.ScopePass, "plan")
	pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StagePlan, Status: pipeline.StatusWorking})
	start := time.Now()
	res.Plan = plan.Build(res.Items, res.Decls, plan.NewEmissionContext(), diag.BagReporter{Bag: res.Bag})
	pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StagePlan, Status: stageStatus(res.Bag), Elapsed: time.Since(start)})
	plspan.End("")
	timer.End(idx, "")

	if opts.StopBeforeEmit || (res.Bag.HasErrors() && !opts.KeepGoing) {
		finish(res, opts, len(ids))
		return res, nil
	}

	// emit
	idx = timer.Begin("emit")
	_, espan := trace.StartSpan(ctx, trace.ScopePass, "emit")
	pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StageEmit, Status: pipeline.StatusWorking})
	start = time.Now()
	res.Outputs = &Outputs{
		Host:    hostgen.Generate(res.Plan, opts.Host),
		Client:  clientgen.Generate(res.Plan, opts.Client),
		Runtime: clientgen.Runtime(),
	}
	pipeline.Emit(sink, pipeline.Event{Stage: pipeline.StageEmit, Status: pipeline.StatusDone, Elapsed: time.Since(start)})
	espan.End("")
	timer.End(idx, "")

	if useCache && res.Bag.Len() == 0 {
		payload := &DiskPayload{
			Host:    res.Outputs.Host,
			Client:  res.Outputs.Client,
			Runtime: res.Outputs.Runtime,
			Created: time.Now(),
		}
		for _, id := range ids {
			f := fs.Get(id)
			payload.FilePaths = append(payload.FilePaths, f.Path)
			payload.FileHashes = append(payload.FileHashes, f.Hash)
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{}, fmt.Sprintf("disk cache write failed: %v", err)))
		}
	}

	finish(res, opts, len(ids))
	return res, nil
}

func finish(res *Result, opts Options, files int) {
	if opts.EmitTimings && opts.Timer != nil {
		report := opts.Timer.Report()
		appendTimingDiagnostic(res.Bag, timingPayload{
			Files:   files,
			Cached:  res.Cached,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
	res.Bag.Sort()
}

func markCached(fs *source.FileSet, ids []source.FileID, sink pipeline.ProgressSink) {
	if sink == nil {
		return
	}
	for _, id := range ids {
		path := pipeline.DisplayPath(fs.Get(id).Path, fs.BaseDir())
		for _, stage := range []pipeline.Stage{pipeline.StageParse, pipeline.StageItems} {
			sink.OnEvent(pipeline.Event{File: path, Stage: stage, Status: pipeline.StatusCached})
		}
	}
	for _, stage := range []pipeline.Stage{pipeline.StagePlan, pipeline.StageEmit} {
		sink.OnEvent(pipeline.Event{Stage: stage, Status: pipeline.StatusCached})
	}
}

func stageStatus(bag *diag.Bag) pipeline.Status {
	if bag.HasErrors() {
		return pipeline.StatusError
	}
	return pipeline.StatusDone
}

// normalizeInputs cleans, sorts and deduplicates paths so item order does
// not depend on argument order.
func normalizeInputs(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		out = append(out, filepath.Clean(p))
	}
	slices.Sort(out)
	return slices.Compact(out)
}
