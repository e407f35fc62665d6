package boot

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"graphboot/domain/boot"
	"graphboot/domain/core"
	"graphboot/domain/dataset"
	"graphboot/ports"
)

// Driver runs one group's bootstrap: R resamples-with-replacement dispatched
// on the worker pool, results indexed into a pre-sized R×D matrix by
// replicate index so row order never depends on completion order.
type Driver struct {
	pool     ports.WorkerPool
	progress ports.ProgressObserver
	log      zerolog.Logger
}

// NewDriver creates a driver. A nil pool gets the default errgroup pool; a
// nil observer gets the no-op observer.
func NewDriver(pool ports.WorkerPool, progress ports.ProgressObserver, log zerolog.Logger) *Driver {
	if pool == nil {
		pool = NewErrgroupPool(0)
	}
	if progress == nil {
		progress = ports.NopProgress{}
	}
	return &Driver{pool: pool, progress: progress, log: log}
}

// RunGroup computes the observed statistic on the unresampled dataset, then
// evaluates cfg.Replicates resamples. A single failing replicate aborts the
// whole group; completed rows are discarded rather than returned partially.
// Replicate i's random draws depend only on (cfg.Seed, group, i), so results
// are identical under any degree of parallelism.
func (d *Driver) RunGroup(ctx context.Context, data *dataset.ResidualDataset, cfg boot.Config, statistic boot.Statistic) (*boot.GroupBootstrap, error) {
	group := data.Group()
	start := time.Now()

	obsRNG := rand.New(rand.NewSource(core.DeriveSeed(cfg.Seed, group, core.ObservedStreamID)))
	t0, err := statistic(ctx, data, obsRNG)
	if err != nil {
		return nil, wrapReplicateErr(group, core.ObservedStreamID, err)
	}

	n := data.Rows()
	rows := make([][]float64, cfg.Replicates)
	var completed atomic.Int64

	err = d.pool.Map(ctx, cfg.Replicates, func(ctx context.Context, i int) error {
		rng := rand.New(rand.NewSource(core.DeriveSeed(cfg.Seed, group, i)))
		sample := data.Resample(drawIndices(rng, n))
		vec, err := statistic(ctx, sample, rng)
		if err != nil {
			return wrapReplicateErr(group, i, err)
		}
		rows[i] = vec
		d.progress.ReplicateDone(group, int(completed.Add(1)), cfg.Replicates)
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.log.Debug().
		Str("group", group.String()).
		Int("replicates", cfg.Replicates).
		Dur("elapsed", time.Since(start)).
		Msg("group bootstrap complete")

	return boot.NewGroupBootstrap(group, t0, rows, n)
}

// drawIndices draws n row indices with replacement, one bootstrap resample.
func drawIndices(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for k := range idx {
		idx[k] = rng.Intn(n)
	}
	return idx
}

// wrapReplicateErr attaches replicate coordinates, pulling the failing
// density out of the statistic's density tag when present. Context
// cancellation passes through untouched so pool shutdown is not misreported
// as a computation failure.
func wrapReplicateErr(group core.GroupID, replicate int, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	density := 0.0
	var de *densityError
	if errors.As(err, &de) {
		density = de.density
		err = de.cause
	}
	return core.NewReplicateError(group, replicate, density, err)
}
