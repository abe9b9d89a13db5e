package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rid/internal/pipeline"
	"rid/internal/trace"
)

// Outputs are the three generated sources.
type Outputs struct {
	Host    []byte
	Client  []byte
	Runtime []byte
}

// Targets are the destinations of Outputs; an empty path is skipped.
type Targets struct {
	Host       string
	Client     string
	Runtime    string
	ClientCopy string
}

// Written describes one output file after WriteOutputs.
type Written struct {
	Path      string
	Unchanged bool
}

// WriteOutputs stores out at t. Files whose content is already current are
// left untouched so the host build does not rebuild needlessly. Every target
// is attempted; failures are joined.
func WriteOutputs(ctx context.Context, out *Outputs, t Targets, sink pipeline.ProgressSink) ([]Written, error) {
	if out == nil {
		return nil, errors.New("no outputs to write")
	}
	_, span := trace.StartSpan(ctx, trace.ScopePass, "write")
	defer span.End("")

	pairs := []struct {
		path string
		data []byte
	}{
		{t.Host, out.Host},
		{t.Client, out.Client},
		{t.Runtime, out.Runtime},
		{t.ClientCopy, out.Client},
	}
	var (
		written []Written
		errs    []error
	)
	for _, p := range pairs {
		if p.path == "" {
			continue
		}
		pipeline.Emit(sink, pipeline.Event{File: p.path, Stage: pipeline.StageWrite, Status: pipeline.StatusWorking})
		start := time.Now()
		unchanged, err := writeIfChanged(p.path, p.data)
		if err != nil {
			errs = append(errs, err)
			pipeline.Emit(sink, pipeline.Event{File: p.path, Stage: pipeline.StageWrite, Status: pipeline.StatusError, Err: err})
			continue
		}
		written = append(written, Written{Path: p.path, Unchanged: unchanged})
		pipeline.Emit(sink, pipeline.Event{File: p.path, Stage: pipeline.StageWrite, Status: pipeline.StatusDone, Elapsed: time.Since(start)})
	}
	return written, errors.Join(errs...)
}

func writeIfChanged(path string, data []byte) (bool, error) {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, data) {
		return true, nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	f, err := os.CreateTemp(dir, ".rid-*")
	if err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	tmp := f.Name()
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return false, nil
}
