package graphmetrics

import (
	"fmt"
	"math/rand"

	"graphboot/domain/boot"
	"graphboot/domain/core"
	"graphboot/domain/graphs"
	"graphboot/ports"
)

// Registry implements ports.MeasureRegistry as a lookup table from measure
// name to reducer pipeline. Dispatch is resolved once per run, not per
// replicate.
type Registry struct {
	reducers map[boot.Measure]ports.MeasureFunc
}

var _ ports.MeasureRegistry = (*Registry)(nil)

// NewRegistry creates the registry with every supported measure wired.
func NewRegistry() *Registry {
	return &Registry{
		reducers: map[boot.Measure]ports.MeasureFunc{
			boot.MeasureModularity:         modularity,
			boot.MeasureModularityWeighted: modularity,
			boot.MeasureEfficiency:         globalEfficiency,
			boot.MeasureClustering:         clusteringCoefficient,
			boot.MeasureMeanShortestPath:   meanShortestPath,
			boot.MeasureAssortativity:      degreeAssortativity,
			boot.MeasureMeanStrength:       meanStrength,
		},
	}
}

// Reducer resolves the pipeline for a measure. The weight transform applies
// only to the distance-based weighted measure (global-efficiency-weighted):
// stronger correlations must become shorter distances before shortest-path
// computation. Modularity-weighted and mean-strength consume raw weights.
func (r *Registry) Reducer(measure boot.Measure, transform boot.WeightTransform) (ports.MeasureFunc, error) {
	if measure == boot.MeasureEfficiencyWeighted {
		xfm, err := resolveTransform(transform)
		if err != nil {
			return nil, err
		}
		return func(adj *graphs.Adjacency, rng *rand.Rand) (float64, error) {
			return globalEfficiency(xfm(adj), rng)
		}, nil
	}

	fn, ok := r.reducers[measure]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedMeasure, measure)
	}
	if measure.Weighted() {
		// Validate the transform even when unused so configuration errors
		// surface uniformly before any resampling.
		if _, err := boot.ParseTransform(string(transform)); err != nil {
			return nil, err
		}
	}
	return fn, nil
}
