package ports

import (
	"context"

	"graphboot/domain/boot"
	"graphboot/domain/core"
)

// SummaryRepository persists summarized bootstrap runs. Persistence stays the
// caller's choice; the engine itself never writes anywhere.
type SummaryRepository interface {
	// SaveRun stores the run metadata and its summary rows atomically.
	SaveRun(ctx context.Context, result *boot.BootstrapResult, table boot.SummaryTable) error

	// GetSummary returns the stored summary rows for a run.
	GetSummary(ctx context.Context, runID core.RunID) (boot.SummaryTable, error)
}
