package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// forEach runs fn for every index in [0, n) on at most jobs goroutines.
// Results are written by index, so callers need no locking.
func forEach(ctx context.Context, jobs, n int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, n))
	for i := range n {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
