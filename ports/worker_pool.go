package ports

import "context"

// WorkerPool executes n independent units of work, identified by index
// 0..n-1, with bounded concurrency. Implementations must stop scheduling new
// work after the first failure and return that first error; the caller never
// consumes partial output. The core partitioning/collection logic is
// strategy-independent, so in-process and (hypothetical) distributed pools
// are interchangeable here.
type WorkerPool interface {
	Map(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
}
