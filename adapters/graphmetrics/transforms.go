package graphmetrics

import (
	"fmt"
	"math"

	"graphboot/domain/boot"
	"graphboot/domain/core"
	"graphboot/domain/graphs"
)

// transformFn rescales a whole adjacency's edge weights. Transforms that
// normalize by the maximum weight need graph-level context, so the unit here
// is the adjacency rather than a single weight.
type transformFn func(adj *graphs.Adjacency) *graphs.Adjacency

// resolveTransform maps a transform name to its implementation. Correlation
// magnitudes live in (0,1], so every variant below yields non-negative
// distances, which the shortest-path reducers require.
func resolveTransform(t boot.WeightTransform) (transformFn, error) {
	switch t {
	case boot.TransformReciprocal:
		return func(adj *graphs.Adjacency) *graphs.Adjacency {
			return adj.TransformWeights(func(w float64) float64 { return 1 / w })
		}, nil
	case boot.TransformNegLog:
		return func(adj *graphs.Adjacency) *graphs.Adjacency {
			return adj.TransformWeights(func(w float64) float64 { return -math.Log(w) })
		}, nil
	case boot.TransformOneMinus:
		return func(adj *graphs.Adjacency) *graphs.Adjacency {
			return adj.TransformWeights(func(w float64) float64 { return 1 - w })
		}, nil
	case boot.TransformNegLog10Max:
		return func(adj *graphs.Adjacency) *graphs.Adjacency {
			max := adj.MaxWeight()
			return adj.TransformWeights(func(w float64) float64 { return -math.Log10(w / max) })
		}, nil
	case boot.TransformNegLog10Max1:
		return func(adj *graphs.Adjacency) *graphs.Adjacency {
			max := adj.MaxWeight()
			return adj.TransformWeights(func(w float64) float64 { return -math.Log10(w / (max + 1)) })
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedTransform, t)
}
