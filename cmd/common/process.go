// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"time"

	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"
	"fjacquet/revol-ver/internal/pipeline"
	"fjacquet/revol-ver/internal/validation"
)

// Ingester is the part of the pipeline a sync run drives.
type Ingester interface {
	Load(ctx context.Context, src pipeline.Source) ([]models.RawTransaction, error)
	Process(raws []models.RawTransaction, existing *models.LegIDSet, period models.Period) *models.PipelineResult
}

// TransactionStore persists canonical transactions.
type TransactionStore interface {
	ExistingLegIDs(ctx context.Context) ([]string, error)
	BulkInsert(ctx context.Context, txns []models.Transaction) (int, error)
	Count(ctx context.Context) (int, error)
}

// RunRecorder keeps one audit row per run.
type RunRecorder interface {
	Record(ctx context.Context, result *models.PipelineResult, source string, inserted int, finishedAt time.Time) error
}

// ExportWriter writes accepted transactions to a file and returns its path.
type ExportWriter interface {
	Write(txs []models.Transaction, period models.Period) (string, error)
}

// SyncDeps are the collaborators of ProcessSync.
type SyncDeps struct {
	Ingester Ingester
	Source   pipeline.Source
	Writer   ExportWriter
	// OpenStore opens the database. It is only called when the run needs it.
	OpenStore      func() (TransactionStore, RunRecorder, error)
	DatabaseExists func() bool
	Logger         logging.Logger
	Now            func() time.Time
}

// SyncSummary reports what a sync run did. StoredTotal is the row count of the
// database after the insert.
type SyncSummary struct {
	Result      *models.PipelineResult
	Inserted    int
	StoredTotal int
	ExportPath  string
	UsedDB      bool
}

// NeedsDatabase decides whether a run reads known legIds from the database.
// Runs without deduplication never do. Export-only runs skip a database that
// does not exist yet instead of creating an empty one.
func NeedsDatabase(plan validation.Plan, databaseExists bool) bool {
	if !plan.Deduplicate {
		return false
	}
	if !plan.WriteDB && !databaseExists {
		return false
	}
	return true
}

// ProcessSync loads raw records, classifies them and writes the accepted ones
// to the outputs selected by plan.
func ProcessSync(ctx context.Context, deps SyncDeps, plan validation.Plan) (*SyncSummary, error) {
	log := deps.Logger
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	raws, err := deps.Ingester.Load(ctx, deps.Source)
	if err != nil {
		return nil, err
	}

	summary := &SyncSummary{}
	if len(raws) == 0 {
		summary.Result = deps.Ingester.Process(nil, nil, plan.Period)
		return summary, nil
	}

	var (
		txStore  TransactionStore
		recorder RunRecorder
		existing *models.LegIDSet
	)
	if NeedsDatabase(plan, deps.DatabaseExists != nil && deps.DatabaseExists()) {
		txStore, recorder, err = deps.OpenStore()
		if err != nil {
			return nil, err
		}
		ids, err := txStore.ExistingLegIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("error reading stored legIds: %w", err)
		}
		set := models.NewLegIDSet(ids)
		existing = &set
		summary.UsedDB = true
		log.Debug("Loaded stored legIds", logging.F(logging.FieldCount, set.Len()))
	} else {
		log.Debug("Deduplication against the database skipped")
	}

	result := deps.Ingester.Process(raws, existing, plan.Period)
	summary.Result = result
	if len(result.Accepted) == 0 {
		return summary, nil
	}

	if plan.WriteDB {
		inserted, err := txStore.BulkInsert(ctx, result.Accepted)
		if err != nil {
			return nil, fmt.Errorf("error saving transactions: %w", err)
		}
		summary.Inserted = inserted
		log.Info("Saved transactions to database",
			logging.F(logging.FieldRunID, result.RunID),
			logging.F(logging.FieldCount, inserted))

		if err := recorder.Record(ctx, result, deps.Source.Name(), inserted, now()); err != nil {
			return nil, fmt.Errorf("error recording import run: %w", err)
		}

		if summary.StoredTotal, err = txStore.Count(ctx); err != nil {
			return nil, fmt.Errorf("error counting stored transactions: %w", err)
		}
	}

	if plan.WriteExport {
		path, err := deps.Writer.Write(result.Accepted, plan.Period)
		if err != nil {
			return nil, fmt.Errorf("error exporting transactions: %w", err)
		}
		summary.ExportPath = path
	}

	return summary, nil
}
