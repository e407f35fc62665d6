// Package postgres persists summarized bootstrap runs. Persistence is
// optional: the engine returns complete results regardless, and callers opt
// in by wiring this repository.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"graphboot/domain/boot"
	"graphboot/domain/core"
	"graphboot/ports"
)

// SummaryRepository implements ports.SummaryRepository on postgres.
type SummaryRepository struct {
	db *sqlx.DB
}

var _ ports.SummaryRepository = (*SummaryRepository)(nil)

// Connect opens a postgres connection and ensures the schema exists.
func Connect(ctx context.Context, url string) (*SummaryRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	repo := &SummaryRepository{db: db}
	if err := repo.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSummaryRepository wraps an existing connection (tests, pooled callers).
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Close releases the underlying connection pool.
func (r *SummaryRepository) Close() error { return r.db.Close() }

func (r *SummaryRepository) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS bootstrap_runs (
		run_id      TEXT PRIMARY KEY,
		measure     TEXT NOT NULL,
		transform   TEXT NOT NULL,
		densities   TEXT NOT NULL,
		confidence  DOUBLE PRECISION NOT NULL,
		seed        BIGINT NOT NULL,
		replicates  INTEGER NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS bootstrap_summaries (
		run_id     TEXT NOT NULL REFERENCES bootstrap_runs(run_id) ON DELETE CASCADE,
		group_id   TEXT NOT NULL,
		density    DOUBLE PRECISION NOT NULL,
		observed   DOUBLE PRECISION NOT NULL,
		std_error  DOUBLE PRECISION NOT NULL,
		ci_low     DOUBLE PRECISION NOT NULL,
		ci_high    DOUBLE PRECISION NOT NULL,
		row_order  INTEGER NOT NULL,
		PRIMARY KEY (run_id, group_id, density)
	);`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveRun stores run metadata and summary rows in one transaction.
func (r *SummaryRepository) SaveRun(ctx context.Context, result *boot.BootstrapResult, table boot.SummaryTable) error {
	if result == nil {
		return fmt.Errorf("%w: nil result", core.ErrAggregation)
	}
	replicates := 0
	if len(result.Groups) > 0 {
		if gb := result.PerGroup[result.Groups[0]]; gb != nil {
			replicates = gb.Replicates()
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO bootstrap_runs
		(run_id, measure, transform, densities, confidence, seed, replicates, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		result.RunID.String(), result.Measure.String(), result.Transform.String(),
		densityList(result.Densities), result.Confidence, int64(result.Seed),
		replicates, result.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, row := range table {
		_, err = tx.ExecContext(ctx, `INSERT INTO bootstrap_summaries
			(run_id, group_id, density, observed, std_error, ci_low, ci_high, row_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			result.RunID.String(), row.Group.String(), row.Density,
			row.Observed, row.StdError, row.CILow, row.CIHigh, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert summary row: %w", err)
		}
	}
	return tx.Commit()
}

// GetSummary returns the stored summary rows for a run in original order.
func (r *SummaryRepository) GetSummary(ctx context.Context, runID core.RunID) (boot.SummaryTable, error) {
	var rows []boot.SummaryRow
	err := r.db.SelectContext(ctx, &rows, `SELECT group_id, density, observed, std_error, ci_low, ci_high
		FROM bootstrap_summaries WHERE run_id = $1 ORDER BY row_order`, runID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: not found", runID)
		}
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}
	return boot.SummaryTable(rows), nil
}

func densityList(densities []float64) string {
	parts := make([]string, len(densities))
	for i, d := range densities {
		parts[i] = fmt.Sprintf("%g", d)
	}
	return strings.Join(parts, ",")
}
