package boot

import (
	"fmt"

	"graphboot/domain/core"
)

// GroupBootstrap owns one group's bootstrap output: the observed statistic
// vector t0 (length D) and the R×D replicate matrix, row i holding replicate
// i's vector regardless of completion order. Frozen once constructed.
type GroupBootstrap struct {
	group   core.GroupID
	t0      []float64
	rows    [][]float64 // R×D, indexed by replicate
	samples int         // subject count of the source dataset
}

// NewGroupBootstrap validates replicate matrix shape against t0 and freezes
// the result.
func NewGroupBootstrap(group core.GroupID, t0 []float64, rows [][]float64, samples int) (*GroupBootstrap, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: group %q has no replicates", core.ErrAggregation, group)
	}
	for i, row := range rows {
		if len(row) != len(t0) {
			return nil, fmt.Errorf("%w: group %q replicate %d has %d values, want %d",
				core.ErrAggregation, group, i, len(row), len(t0))
		}
	}
	return &GroupBootstrap{group: group, t0: t0, rows: rows, samples: samples}, nil
}

// Group returns the group identifier.
func (g *GroupBootstrap) Group() core.GroupID { return g.group }

// Observed returns t0[d], the statistic of the unresampled dataset.
func (g *GroupBootstrap) Observed(d int) float64 { return g.t0[d] }

// ObservedVector returns a copy of t0.
func (g *GroupBootstrap) ObservedVector() []float64 {
	out := make([]float64, len(g.t0))
	copy(out, g.t0)
	return out
}

// Replicates returns R.
func (g *GroupBootstrap) Replicates() int { return len(g.rows) }

// Densities returns D.
func (g *GroupBootstrap) Densities() int { return len(g.t0) }

// Samples returns the subject count of the source dataset.
func (g *GroupBootstrap) Samples() int { return g.samples }

// Column extracts the bootstrap distribution for density index d: one value
// per replicate, in replicate order.
func (g *GroupBootstrap) Column(d int) []float64 {
	col := make([]float64, len(g.rows))
	for i, row := range g.rows {
		col[i] = row[d]
	}
	return col
}

// BootstrapResult is the terminal artifact of one run: per-group bootstrap
// matrices plus everything needed to summarize and reproduce them.
type BootstrapResult struct {
	RunID      core.RunID
	Measure    Measure
	Transform  WeightTransform
	Densities  []float64
	Confidence float64
	Seed       core.Seed
	Groups     []core.GroupID // caller-specified stable order
	PerGroup   map[core.GroupID]*GroupBootstrap
	CreatedAt  core.Timestamp
}

// Validate checks the cross-group invariant: every GroupBootstrap has
// identical D and R. A violation is an internal error, not user input.
func (r *BootstrapResult) Validate() error {
	if len(r.Groups) == 0 {
		return fmt.Errorf("%w: result has no groups", core.ErrAggregation)
	}
	var wantR, wantD int
	for i, gid := range r.Groups {
		gb, ok := r.PerGroup[gid]
		if !ok {
			return fmt.Errorf("%w: group %q missing from result", core.ErrAggregation, gid)
		}
		if i == 0 {
			wantR, wantD = gb.Replicates(), gb.Densities()
			if wantD != len(r.Densities) {
				return fmt.Errorf("%w: group %q has %d densities, config has %d",
					core.ErrAggregation, gid, wantD, len(r.Densities))
			}
			continue
		}
		if gb.Replicates() != wantR || gb.Densities() != wantD {
			return fmt.Errorf("%w: group %q is %dx%d, want %dx%d",
				core.ErrAggregation, gid, gb.Replicates(), gb.Densities(), wantR, wantD)
		}
	}
	return nil
}

// SummaryRow is one (group, density) line of the summary table.
type SummaryRow struct {
	Group    core.GroupID `json:"group" db:"group_id"`
	Density  float64      `json:"density" db:"density"`
	Observed float64      `json:"observed" db:"observed"`
	StdError float64      `json:"std_error" db:"std_error"`
	CILow    float64      `json:"ci_low" db:"ci_low"`
	CIHigh   float64      `json:"ci_high" db:"ci_high"`
}

// SummaryTable is derived from a BootstrapResult on demand, ordered by group
// order then density order. Never the source of truth.
type SummaryTable []SummaryRow
