package boot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"graphboot/domain/boot"
	"graphboot/domain/core"
	"graphboot/ports"
)

// Orchestrator fans one bootstrap run out across groups: sequential over
// groups, parallel within each group's replicates, one shared worker pool so
// total concurrency stays bounded.
type Orchestrator struct {
	builder  ports.MatrixBuilder
	registry ports.MeasureRegistry
	driver   *Driver
	progress ports.ProgressObserver
	log      zerolog.Logger
}

// NewOrchestrator wires the engine. pool and progress may be nil for the
// defaults.
func NewOrchestrator(builder ports.MatrixBuilder, registry ports.MeasureRegistry, pool ports.WorkerPool, progress ports.ProgressObserver, log zerolog.Logger) *Orchestrator {
	if progress == nil {
		progress = ports.NopProgress{}
	}
	return &Orchestrator{
		builder:  builder,
		registry: registry,
		driver:   NewDriver(pool, progress, log),
		progress: progress,
		log:      log,
	}
}

// Run executes the configured bootstrap for every group the source exposes,
// in the source's stable order. Configuration and dependency errors surface
// before any dataset is read or any replicate is scheduled.
func (o *Orchestrator) Run(ctx context.Context, source ports.ResidualSource, cfg boot.Config) (*boot.BootstrapResult, error) {
	statistic, err := NewStatistic(o.builder, o.registry, cfg)
	if err != nil {
		return nil, err
	}

	groups, err := source.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: residual source has no groups", core.ErrEmptyDataset)
	}

	result := &boot.BootstrapResult{
		RunID:      core.NewRunID(),
		Measure:    cfg.Measure,
		Transform:  cfg.Transform,
		Densities:  append([]float64(nil), cfg.Densities...),
		Confidence: cfg.Confidence,
		Seed:       cfg.Seed,
		Groups:     groups,
		PerGroup:   make(map[core.GroupID]*boot.GroupBootstrap, len(groups)),
		CreatedAt:  core.Now(),
	}

	for _, gid := range groups {
		data, err := source.Dataset(ctx, gid)
		if err != nil {
			return nil, fmt.Errorf("loading group %q: %w", gid, err)
		}
		gb, err := o.driver.RunGroup(ctx, data, cfg, statistic)
		if err != nil {
			return nil, err
		}
		result.PerGroup[gid] = gb
		o.progress.GroupDone(gid)
		o.log.Info().
			Str("run_id", result.RunID.String()).
			Str("group", gid.String()).
			Str("measure", cfg.Measure.String()).
			Msg("group bootstrap finished")
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}
