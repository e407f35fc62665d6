// Package corrmat builds thresholded correlation graphs from residual
// datasets: Pearson correlation across regions, then edge retention down to a
// target density, keeping the strongest absolute correlations.
package corrmat

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"graphboot/domain/core"
	"graphboot/domain/dataset"
	"graphboot/domain/graphs"
	"graphboot/ports"
)

// Builder implements ports.MatrixBuilder with Pearson correlation and
// density thresholding. Stateless and safe for concurrent use.
type Builder struct{}

// NewBuilder creates a correlation/threshold builder.
func NewBuilder() *Builder { return &Builder{} }

var _ ports.MatrixBuilder = (*Builder)(nil)

type candidate struct {
	i, j int
	w    float64 // absolute correlation
}

// Build computes the region-by-region correlation matrix of data and
// thresholds it at every density in order. A resample with zero-variance
// columns (all drawn rows identical in some region) yields undefined
// correlations and is reported as a degenerate resample.
func (b *Builder) Build(ctx context.Context, data *dataset.ResidualDataset, densities []float64, weighted bool) ([]*graphs.Adjacency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, p := data.Rows(), data.Cols()
	if n < 2 {
		return nil, fmt.Errorf("%w: %d observations, need at least 2", core.ErrEmptyDataset, n)
	}

	flat := make([]float64, 0, n*p)
	for i := 0; i < n; i++ {
		flat = append(flat, data.Row(i)...)
	}
	obs := mat.NewDense(n, p, flat)

	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, obs, nil)

	candidates := make([]candidate, 0, p*(p-1)/2)
	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			r := corr.At(i, j)
			if math.IsNaN(r) {
				return nil, fmt.Errorf("%w: undefined correlation between %q and %q",
					core.ErrDegenerateResample, data.Regions()[i], data.Regions()[j])
			}
			candidates = append(candidates, candidate{i: i, j: j, w: math.Abs(r)})
		}
	}

	// Strongest first; ties broken by index so thresholding is deterministic.
	sort.Slice(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.w != cb.w {
			return ca.w > cb.w
		}
		if ca.i != cb.i {
			return ca.i < cb.i
		}
		return ca.j < cb.j
	})

	maxEdges := len(candidates)
	out := make([]*graphs.Adjacency, len(densities))
	for di, density := range densities {
		keep := int(math.Round(density * float64(maxEdges)))
		if keep < 1 {
			return nil, fmt.Errorf("%w: density %g retains no edges over %d regions",
				core.ErrDegenerateResample, density, p)
		}
		adj := graphs.NewAdjacency(p, density, weighted)
		for _, c := range candidates[:keep] {
			if weighted {
				adj.SetEdge(c.i, c.j, c.w)
			} else {
				adj.SetEdge(c.i, c.j, 1)
			}
		}
		out[di] = adj
	}
	return out, nil
}
