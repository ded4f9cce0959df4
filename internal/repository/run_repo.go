package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fjacquet/revol-ver/internal/models"
)

// RunRepo records an audit row per pipeline run.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a RunRepo on db.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Record stores the outcome of result. inserted is the number of rows the
// transaction writer actually added.
func (r *RunRepo) Record(ctx context.Context, result *models.PipelineResult, source string, inserted int, finishedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO import_runs
		(run_id, period, source, total, accepted, duplicates, out_of_period, invalid, inserted, finished_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		result.RunID, result.Period.Label(), source,
		result.Stats.Total, result.Stats.Accepted, result.Stats.Duplicates,
		result.Stats.OutOfPeriod, result.Stats.Invalid, inserted,
		finishedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert import run: %w", err)
	}
	return nil
}
