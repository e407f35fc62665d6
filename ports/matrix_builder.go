package ports

import (
	"context"

	"graphboot/domain/dataset"
	"graphboot/domain/graphs"
)

// MatrixBuilder turns a (possibly resampled) residual dataset into one
// thresholded adjacency per requested density. Implementations must be
// side-effect free: the builder is invoked once per replicate, concurrently.
type MatrixBuilder interface {
	// Build computes the correlation matrix of data's columns and thresholds
	// it at every density, in density order. weighted selects whether retained
	// edges keep their correlation magnitude or collapse to weight 1.
	Build(ctx context.Context, data *dataset.ResidualDataset, densities []float64, weighted bool) ([]*graphs.Adjacency, error)
}
