package boot

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"graphboot/domain/boot"
	"graphboot/domain/core"
)

// Summarize derives the summary table from a bootstrap result: per (group,
// density), the observed value, the bootstrap standard error (sample standard
// deviation of the replicate column), and the symmetric normal-approximation
// confidence interval observed ± z·SE. No bias correction is applied; this
// matches the plain normal bootstrap interval deliberately.
func Summarize(result *boot.BootstrapResult) (boot.SummaryTable, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: nil result", core.ErrAggregation)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	norm := distuv.Normal{Mu: 0, Sigma: 1}
	z := norm.Quantile(1 - (1-result.Confidence)/2)

	table := make(boot.SummaryTable, 0, len(result.Groups)*len(result.Densities))
	for _, gid := range result.Groups {
		gb := result.PerGroup[gid]
		// The sample standard deviation of a single replicate is NaN, and
		// montanaflynn reports no error for it.
		if gb.Replicates() < 2 {
			return nil, fmt.Errorf("%w: group %q has %d replicates, need at least 2",
				core.ErrAggregation, gid, gb.Replicates())
		}
		for d, density := range result.Densities {
			se, err := stats.StandardDeviationSample(gb.Column(d))
			if err != nil {
				return nil, fmt.Errorf("%w: group %q density %g: %v", core.ErrAggregation, gid, density, err)
			}
			obs := gb.Observed(d)
			table = append(table, boot.SummaryRow{
				Group:    gid,
				Density:  density,
				Observed: obs,
				StdError: se,
				CILow:    obs - z*se,
				CIHigh:   obs + z*se,
			})
		}
	}
	return table, nil
}
