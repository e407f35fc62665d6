// Package dataset holds the residual observation matrices the bootstrap
// engine resamples. A ResidualDataset is produced upstream (linear-model
// residuals per subject and region); the engine only reads rows and draws
// them with replacement.
package dataset

import (
	"fmt"

	"graphboot/domain/core"
)

// ResidualDataset is one group's residual observations: one row per subject,
// one column per region/variable. Immutable once constructed; resampled views
// share the underlying row storage.
type ResidualDataset struct {
	group   core.GroupID
	regions []string
	rows    [][]float64
}

// New validates and wraps a residual observation matrix. Rows must be
// rectangular and match the region count.
func New(group core.GroupID, regions []string, rows [][]float64) (*ResidualDataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: group %q", core.ErrEmptyDataset, group)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: group %q", core.ErrNoUsableColumns, group)
	}
	for i, row := range rows {
		if len(row) != len(regions) {
			return nil, fmt.Errorf("%w: group %q row %d has %d values, want %d",
				core.ErrShapeMismatch, group, i, len(row), len(regions))
		}
	}
	return &ResidualDataset{group: group, regions: regions, rows: rows}, nil
}

// Group returns the owning group identifier.
func (d *ResidualDataset) Group() core.GroupID { return d.group }

// Regions returns the column (region) names.
func (d *ResidualDataset) Regions() []string { return d.regions }

// Rows returns the number of observations (subjects).
func (d *ResidualDataset) Rows() int { return len(d.rows) }

// Cols returns the number of regions/variables.
func (d *ResidualDataset) Cols() int { return len(d.regions) }

// Row returns observation i. Callers must not mutate the returned slice.
func (d *ResidualDataset) Row(i int) []float64 { return d.rows[i] }

// Resample returns a view of the dataset with rows selected by indices
// (typically drawn with replacement). The view shares row storage with the
// original, so building it is O(len(indices)).
func (d *ResidualDataset) Resample(indices []int) *ResidualDataset {
	rows := make([][]float64, len(indices))
	for k, idx := range indices {
		rows[k] = d.rows[idx]
	}
	return &ResidualDataset{group: d.group, regions: d.regions, rows: rows}
}
