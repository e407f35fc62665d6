package ports

import (
	"math/rand"

	"graphboot/domain/boot"
	"graphboot/domain/graphs"
)

// MeasureFunc reduces one adjacency to a single scalar. Reducers that involve
// stochastic search (community detection) draw from rng; deterministic
// reducers ignore it. Must be safe for concurrent use with distinct rng
// streams.
type MeasureFunc func(adj *graphs.Adjacency, rng *rand.Rand) (float64, error)

// MeasureRegistry resolves a measure (and, for weighted measures, a weight
// transform) into the reducer pipeline to run per density. Resolution happens
// once, before any resampling, so an unsupported selection surfaces as a
// configuration error rather than mid-run.
type MeasureRegistry interface {
	Reducer(measure boot.Measure, transform boot.WeightTransform) (MeasureFunc, error)
}
