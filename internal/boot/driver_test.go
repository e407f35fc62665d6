package boot

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphboot/domain/boot"
	"graphboot/domain/core"
	"graphboot/domain/dataset"
	"graphboot/internal/logging"
	"graphboot/internal/testkit"
)

// rowSumStatistic encodes the drawn resample into the result: one value per
// density equal to the sum of all values in the resampled dataset plus the
// density index. Deterministic given the resample, so row placement and seed
// reproducibility are directly observable.
func rowSumStatistic(densities int) boot.Statistic {
	return func(ctx context.Context, data *dataset.ResidualDataset, rng *rand.Rand) ([]float64, error) {
		sum := 0.0
		for i := 0; i < data.Rows(); i++ {
			for _, v := range data.Row(i) {
				sum += v
			}
		}
		out := make([]float64, densities)
		for d := range out {
			out[d] = sum + float64(d)
		}
		return out, nil
	}
}

func driverConfig(r int) boot.Config {
	cfg := boot.DefaultConfig()
	cfg.Replicates = r
	cfg.Densities = []float64{0.1, 0.2}
	cfg.Measure = boot.MeasureMeanStrength
	cfg.Seed = 42
	return cfg
}

func TestRunGroupDeterministicAcrossParallelism(t *testing.T) {
	ds := testkit.Generate("A", testkit.DefaultOptions())
	cfg := driverConfig(40)

	run := func(workers int) *boot.GroupBootstrap {
		d := NewDriver(NewErrgroupPool(workers), nil, logging.Nop())
		gb, err := d.RunGroup(context.Background(), ds, cfg, rowSumStatistic(2))
		require.NoError(t, err)
		return gb
	}

	serial := run(1)
	parallel := run(8)

	assert.Equal(t, serial.ObservedVector(), parallel.ObservedVector())
	for d := 0; d < 2; d++ {
		assert.Equal(t, serial.Column(d), parallel.Column(d))
	}
}

func TestRunGroupRowOrderIndependentOfCompletionOrder(t *testing.T) {
	ds := testkit.Generate("A", testkit.DefaultOptions())
	cfg := driverConfig(20)

	// Jittered statistic: completion order is scrambled, results must not be.
	jittered := func(ctx context.Context, data *dataset.ResidualDataset, rng *rand.Rand) ([]float64, error) {
		time.Sleep(time.Duration(rng.Intn(3)) * time.Millisecond)
		return rowSumStatistic(2)(ctx, data, rng)
	}

	d := NewDriver(NewErrgroupPool(8), nil, logging.Nop())
	want, err := NewDriver(NewErrgroupPool(1), nil, logging.Nop()).RunGroup(context.Background(), ds, cfg, rowSumStatistic(2))
	require.NoError(t, err)
	got, err := d.RunGroup(context.Background(), ds, cfg, jittered)
	require.NoError(t, err)

	assert.Equal(t, want.Column(0), got.Column(0))
	assert.Equal(t, want.Column(1), got.Column(1))
}

func TestRunGroupAbortsOnReplicateFailure(t *testing.T) {
	ds := testkit.Generate("A", testkit.DefaultOptions())
	cfg := driverConfig(30)

	boom := errors.New("disconnected graph")
	// Observed evaluation sees the original dataset pointer and succeeds;
	// every resampled view is a different pointer and fails.
	statistic := func(ctx context.Context, data *dataset.ResidualDataset, rng *rand.Rand) ([]float64, error) {
		if data == ds {
			return []float64{0, 0}, nil
		}
		return nil, &densityError{density: 0.2, cause: boom}
	}

	d := NewDriver(NewErrgroupPool(4), nil, logging.Nop())
	gb, err := d.RunGroup(context.Background(), ds, cfg, statistic)
	require.Error(t, err)
	assert.Nil(t, gb)
	assert.True(t, core.IsReplicateError(err))

	re, ok := core.AsReplicateError(err)
	require.True(t, ok)
	assert.Equal(t, core.GroupID("A"), re.Group)
	assert.GreaterOrEqual(t, re.Replicate, 0)
	assert.Equal(t, 0.2, re.Density)
	assert.ErrorIs(t, err, boom)
}

func TestRunGroupObservedFailure(t *testing.T) {
	ds := testkit.Generate("A", testkit.DefaultOptions())
	cfg := driverConfig(10)

	statistic := func(ctx context.Context, data *dataset.ResidualDataset, rng *rand.Rand) ([]float64, error) {
		return nil, errors.New("no usable graph")
	}

	_, err := NewDriver(nil, nil, logging.Nop()).RunGroup(context.Background(), ds, cfg, statistic)
	require.Error(t, err)
	re, ok := core.AsReplicateError(err)
	require.True(t, ok)
	assert.Equal(t, -1, re.Replicate)
}

// countingObserver records progress callbacks.
type countingObserver struct {
	mu        sync.Mutex
	replicate int
	groups    []core.GroupID
	maxSeen   int
}

func (o *countingObserver) ReplicateDone(group core.GroupID, completed, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.replicate++
	if completed > o.maxSeen {
		o.maxSeen = completed
	}
}

func (o *countingObserver) GroupDone(group core.GroupID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.groups = append(o.groups, group)
}

func TestRunGroupReportsProgress(t *testing.T) {
	ds := testkit.Generate("A", testkit.DefaultOptions())
	cfg := driverConfig(25)

	obs := &countingObserver{}
	d := NewDriver(NewErrgroupPool(4), obs, logging.Nop())
	_, err := d.RunGroup(context.Background(), ds, cfg, rowSumStatistic(2))
	require.NoError(t, err)

	assert.Equal(t, 25, obs.replicate)
	assert.Equal(t, 25, obs.maxSeen)
}
