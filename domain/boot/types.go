// Package boot defines the domain model for bootstrap resampling of global
// network-topology measures: the measure taxonomy, run configuration, and the
// per-group and per-run result objects the engine produces.
package boot

import (
	"context"
	"fmt"
	"math/rand"

	"graphboot/domain/core"
	"graphboot/domain/dataset"
)

// Measure selects the global graph measure reduced to one scalar per density.
type Measure string

const (
	MeasureModularity         Measure = "modularity"
	MeasureModularityWeighted Measure = "modularity-weighted"
	MeasureEfficiency         Measure = "global-efficiency"
	MeasureEfficiencyWeighted Measure = "global-efficiency-weighted"
	MeasureClustering         Measure = "clustering-coefficient"
	MeasureMeanShortestPath   Measure = "mean-shortest-path"
	MeasureAssortativity      Measure = "degree-assortativity"
	MeasureMeanStrength       Measure = "mean-strength"
)

// Measures lists every supported measure in a stable order.
func Measures() []Measure {
	return []Measure{
		MeasureModularity, MeasureModularityWeighted,
		MeasureEfficiency, MeasureEfficiencyWeighted,
		MeasureClustering, MeasureMeanShortestPath,
		MeasureAssortativity, MeasureMeanStrength,
	}
}

// ParseMeasure validates a measure name.
func ParseMeasure(name string) (Measure, error) {
	for _, m := range Measures() {
		if Measure(name) == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnsupportedMeasure, name)
}

// Weighted reports whether the measure operates on weighted adjacencies.
func (m Measure) Weighted() bool {
	switch m {
	case MeasureModularityWeighted, MeasureEfficiencyWeighted, MeasureMeanStrength:
		return true
	}
	return false
}

func (m Measure) String() string { return string(m) }

// WeightTransform names a function applied to edge weights before computing
// distance-based weighted measures (strong correlation = short distance).
type WeightTransform string

const (
	TransformReciprocal   WeightTransform = "reciprocal"      // 1/w
	TransformNegLog       WeightTransform = "neglog"          // -log(w)
	TransformOneMinus     WeightTransform = "oneminus"        // 1-w
	TransformNegLog10Max  WeightTransform = "neglog10max"  // -log10(w/max(w))
	TransformNegLog10Max1 WeightTransform = "neglog10max1" // -log10(w/max(w)+1)
)

// Transforms lists every supported weight transform in a stable order.
func Transforms() []WeightTransform {
	return []WeightTransform{
		TransformReciprocal, TransformNegLog, TransformOneMinus,
		TransformNegLog10Max, TransformNegLog10Max1,
	}
}

// ParseTransform validates a weight-transform name.
func ParseTransform(name string) (WeightTransform, error) {
	for _, t := range Transforms() {
		if WeightTransform(name) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnsupportedTransform, name)
}

func (t WeightTransform) String() string { return string(t) }

// Statistic evaluates the configured measure on one (possibly resampled)
// dataset, returning exactly one scalar per density in density-list order.
// It must be pure: safe to call concurrently with distinct rng streams.
type Statistic func(ctx context.Context, data *dataset.ResidualDataset, rng *rand.Rand) ([]float64, error)

// Config holds one bootstrap run's parameters.
type Config struct {
	Replicates int
	Densities  []float64
	Measure    Measure
	Transform  WeightTransform
	Confidence float64
	Seed       core.Seed
	Workers    int // 0 means runtime.NumCPU()
}

// DefaultConfig returns the conventional defaults: 95% confidence and the
// reciprocal weight transform.
func DefaultConfig() Config {
	return Config{
		Confidence: 0.95,
		Transform:  TransformReciprocal,
	}
}

// Validate reports the first configuration problem. It runs before any
// resampling is scheduled so invalid runs never touch graph code.
func (c Config) Validate() error {
	if c.Replicates <= 0 {
		return fmt.Errorf("%w: got %d", core.ErrNonPositiveReplicates, c.Replicates)
	}
	// One replicate has an undefined sample standard deviation.
	if c.Replicates < 2 {
		return core.ErrTooFewReplicates
	}
	if len(c.Densities) == 0 {
		return core.ErrEmptyDensities
	}
	for _, d := range c.Densities {
		if d <= 0 || d > 1 {
			return fmt.Errorf("%w: got %g", core.ErrDensityOutOfRange, d)
		}
	}
	if _, err := ParseMeasure(string(c.Measure)); err != nil {
		return err
	}
	if _, err := ParseTransform(string(c.Transform)); err != nil {
		return err
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return fmt.Errorf("%w: got %g", core.ErrBadConfidence, c.Confidence)
	}
	return nil
}
