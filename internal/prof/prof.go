// Package prof wires the --cpuprofile, --memprofile and --runtime-trace flags.
package prof

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session holds the profile paths requested on the command line. Empty paths
// are skipped. Stop may be called more than once.
type Session struct {
	CPU, Mem, Trace string

	cpu, rt *os.File
	stopped bool
}

// Start opens the CPU profile and the runtime trace. On failure nothing is
// left running.
func (s *Session) Start() error {
	if s.CPU != "" {
		f, err := startWith(s.CPU, pprof.StartCPUProfile)
		if err != nil {
			return fmt.Errorf("cpu profile: %w", err)
		}
		s.cpu = f
	}
	if s.Trace != "" {
		f, err := startWith(s.Trace, trace.Start)
		if err != nil {
			s.stopCPU()
			return fmt.Errorf("runtime trace: %w", err)
		}
		s.rt = f
	}
	return nil
}

func startWith(path string, start func(w io.Writer) error) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := start(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func (s *Session) stopCPU() error {
	if s.cpu == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := s.cpu.Close()
	s.cpu = nil
	return err
}

func (s *Session) stopTrace() error {
	if s.rt == nil {
		return nil
	}
	trace.Stop()
	err := s.rt.Close()
	s.rt = nil
	return err
}

// Stop ends what Start began, then writes the heap profile.
func (s *Session) Stop() error {
	if s.stopped {
		return nil
	}
	s.stopped = true
	errs := []error{s.stopCPU(), s.stopTrace()}
	if s.Mem != "" {
		errs = append(errs, writeHeap(s.Mem))
	}
	return errors.Join(errs...)
}

func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	runtime.GC()
	werr := pprof.WriteHeapProfile(f)
	return errors.Join(werr, f.Close())
}
