// Package testkit generates deterministic synthetic residual datasets for
// tests and demos. Values come from a small latent-factor model so the
// resulting correlation graphs have real community structure instead of pure
// noise.
package testkit

import (
	"fmt"
	"math/rand"

	"graphboot/domain/core"
	"graphboot/domain/dataset"
)

// Options controls synthetic dataset generation.
type Options struct {
	Subjects int
	Regions  int
	Factors  int     // latent factors; regions load on region % Factors
	Noise    float64 // residual noise standard deviation
	Seed     int64
}

// DefaultOptions are large enough for stable correlation estimates in tests.
func DefaultOptions() Options {
	return Options{Subjects: 40, Regions: 12, Factors: 3, Noise: 0.5, Seed: 7}
}

// Generate builds one group's synthetic residual dataset. The same options
// always produce the same values.
func Generate(group core.GroupID, opts Options) *dataset.ResidualDataset {
	rng := rand.New(rand.NewSource(opts.Seed))
	regions := make([]string, opts.Regions)
	for j := range regions {
		regions[j] = fmt.Sprintf("region_%02d", j+1)
	}

	rows := make([][]float64, opts.Subjects)
	for i := range rows {
		factors := make([]float64, opts.Factors)
		for f := range factors {
			factors[f] = rng.NormFloat64()
		}
		row := make([]float64, opts.Regions)
		for j := range row {
			row[j] = factors[j%opts.Factors] + opts.Noise*rng.NormFloat64()
		}
		rows[i] = row
	}

	ds, err := dataset.New(group, regions, rows)
	if err != nil {
		// Options above guarantee a valid shape; reaching here is a bug.
		panic(err)
	}
	return ds
}

// TwoGroups builds a pair of groups with distinct seeds, the common test
// scenario.
func TwoGroups(opts Options) (*dataset.ResidualDataset, *dataset.ResidualDataset) {
	a := opts
	b := opts
	b.Seed = opts.Seed + 1
	return Generate("A", a), Generate("B", b)
}
