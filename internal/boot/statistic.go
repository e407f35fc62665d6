// Package boot implements the bootstrap resampling engine: the statistic
// factory, the replicate worker pool and driver, the per-group orchestrator,
// and the normal-approximation summarizer.
package boot

import (
	"context"
	"fmt"
	"math/rand"

	"graphboot/domain/boot"
	"graphboot/domain/core"
	"graphboot/domain/dataset"
	"graphboot/ports"
)

// densityError tags a reducer failure with the density it occurred at so the
// driver can report replicate coordinates.
type densityError struct {
	density float64
	cause   error
}

func (e *densityError) Error() string {
	return fmt.Sprintf("density %g: %v", e.density, e.cause)
}

func (e *densityError) Unwrap() error { return e.cause }

// NewStatistic binds the correlation/threshold builder and the measure
// registry into the per-replicate statistic function. All configuration and
// dependency problems surface here, before any resampling is scheduled.
func NewStatistic(builder ports.MatrixBuilder, registry ports.MeasureRegistry, cfg boot.Config) (boot.Statistic, error) {
	if builder == nil {
		return nil, fmt.Errorf("%w: matrix builder", core.ErrDependencyMissing)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: measure registry", core.ErrDependencyMissing)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reduce, err := registry.Reducer(cfg.Measure, cfg.Transform)
	if err != nil {
		return nil, err
	}

	weighted := cfg.Measure.Weighted()
	densities := append([]float64(nil), cfg.Densities...)

	return func(ctx context.Context, data *dataset.ResidualDataset, rng *rand.Rand) ([]float64, error) {
		adjs, err := builder.Build(ctx, data, densities, weighted)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(adjs))
		for i, adj := range adjs {
			v, err := reduce(adj, rng)
			if err != nil {
				return nil, &densityError{density: adj.Density, cause: err}
			}
			out[i] = v
		}
		return out, nil
	}, nil
}
