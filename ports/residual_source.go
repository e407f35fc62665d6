package ports

import (
	"context"

	"graphboot/domain/core"
	"graphboot/domain/dataset"
)

// ResidualSource supplies per-group residual observation matrices. The engine
// depends only on row counts and row-level resampling; how residuals were
// produced (linear modeling, file import) is the provider's concern.
type ResidualSource interface {
	// Groups returns the group identifiers in their stable, caller-facing order.
	Groups(ctx context.Context) ([]core.GroupID, error)

	// Dataset returns the residual matrix for one group.
	Dataset(ctx context.Context, group core.GroupID) (*dataset.ResidualDataset, error)
}
