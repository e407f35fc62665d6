package boot

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"graphboot/ports"
)

// ErrgroupPool is the in-process ports.WorkerPool: a fixed-size goroutine
// pool over an errgroup. The first failure cancels the group context, and
// units not yet started return immediately without running their work.
type ErrgroupPool struct {
	limit int
}

var _ ports.WorkerPool = (*ErrgroupPool)(nil)

// NewErrgroupPool creates a pool with the given concurrency limit.
// A non-positive limit means available hardware concurrency.
func NewErrgroupPool(limit int) *ErrgroupPool {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return &ErrgroupPool{limit: limit}
}

// Limit returns the configured concurrency.
func (p *ErrgroupPool) Limit() int { return p.limit }

// Map runs fn for indices 0..n-1 with at most Limit() in flight and returns
// the first error.
func (p *ErrgroupPool) Map(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.limit)
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, i)
		})
	}
	return eg.Wait()
}
