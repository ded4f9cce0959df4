// Package pipeline ties a record source to normalization, de-duplication and
// period filtering. Writing the accepted records is left to the caller.
package pipeline

import (
	"context"
	"errors"
	"strings"

	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"
	"fjacquet/revol-ver/internal/parsererror"

	"github.com/google/uuid"
)

// Pipeline runs one ingestion pass. It holds no state between runs.
type Pipeline struct {
	normalizer Normalizer
	logger     logging.Logger
	newRunID   func() string
}

// New creates a Pipeline.
func New(normalizer Normalizer, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Pipeline{
		normalizer: normalizer,
		logger:     logger,
		newRunID:   uuid.NewString,
	}
}

// Load reads the raw records from src. Missing credentials are not an
// error: the run simply has nothing to process.
func (p *Pipeline) Load(ctx context.Context, src Source) ([]models.RawTransaction, error) {
	logger := p.logger.WithField(logging.FieldSource, src.Name())

	records, err := src.Load(ctx)
	if err != nil {
		var authErr *parsererror.AuthNotFoundError
		if errors.As(err, &authErr) {
			logger.WithError(err).Warn("No credentials available, nothing to fetch")
			return nil, nil
		}
		return nil, err
	}

	logger.Info("Loaded raw transactions", logging.F(logging.FieldCount, len(records)))
	return records, nil
}

// Process sorts every raw record into exactly one bucket: invalid, duplicate,
// out of period or accepted, in that order of precedence. A nil existing set
// means nothing has been persisted yet. A legId repeated within raws, as
// happens when monthly pages overlap, is accepted once and then counted as a
// duplicate.
func (p *Pipeline) Process(raws []models.RawTransaction, existing *models.LegIDSet, period models.Period) *models.PipelineResult {
	known := models.NewLegIDSet(nil)
	if existing != nil {
		known = *existing
	}
	seen := make(map[string]struct{}, len(raws))

	result := &models.PipelineResult{
		RunID:    p.newRunID(),
		Period:   period,
		Accepted: make([]models.Transaction, 0, len(raws)),
	}
	logger := p.logger.WithFields(
		logging.F(logging.FieldRunID, result.RunID),
		logging.F(logging.FieldPeriod, period.Label()))

	normalized, failures := p.normalizer.NormalizeAll(raws)
	for _, failure := range failures {
		failureLogger := logger.WithError(failure.Err)
		recordField := logging.F(logging.FieldTransaction, failure.RecordID)
		if parsererror.IsRecordLocal(failure.Err) {
			failureLogger.Warn("Skipping invalid transaction", recordField)
			continue
		}
		failureLogger.Error("Skipping transaction after unexpected failure", recordField)
	}
	result.Invalid = failures

	for _, tx := range normalized {
		if _, dup := seen[tx.LegID]; dup || known.Contains(tx.LegID) {
			result.Duplicates = append(result.Duplicates, tx.LegID)
			continue
		}
		seen[tx.LegID] = struct{}{}

		if period.IsMonth() && !tx.StartedIn(period.Year, period.Month) {
			result.OutOfPeriod = append(result.OutOfPeriod, tx.LegID)
			continue
		}

		result.Accepted = append(result.Accepted, tx)
	}

	result.Stats = models.PipelineStats{
		Total:       len(raws),
		Accepted:    len(result.Accepted),
		Duplicates:  len(result.Duplicates),
		OutOfPeriod: len(result.OutOfPeriod),
		Invalid:     len(result.Invalid),
	}
	p.logSummary(logger, result)
	return result
}

// Run loads the records from src and processes them.
func (p *Pipeline) Run(ctx context.Context, src Source, existing *models.LegIDSet, period models.Period) (*models.PipelineResult, error) {
	raws, err := p.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return p.Process(raws, existing, period), nil
}

func (p *Pipeline) logSummary(logger logging.Logger, result *models.PipelineResult) {
	stats := result.Stats
	total := logging.F(logging.FieldTotal, stats.Total)

	if stats.Duplicates > 0 {
		logger.Warn("Skipped duplicate transactions",
			logging.F(logging.FieldCount, stats.Duplicates), total)
		logger.Debug("Duplicated legIds", logging.F("leg_ids", strings.Join(result.Duplicates, ",")))
	}
	if stats.OutOfPeriod > 0 {
		logger.Warn("Skipped transactions outside of target period",
			logging.F(logging.FieldCount, stats.OutOfPeriod), total)
		logger.Debug("Out of period legIds", logging.F("leg_ids", strings.Join(result.OutOfPeriod, ",")))
	}
	if stats.Invalid > 0 {
		logger.Warn("Skipped invalid transactions",
			logging.F(logging.FieldCount, stats.Invalid), total)
	}

	logger.Info("Found transactions", logging.F(logging.FieldCount, stats.Accepted), total)
	if stats.Accepted == 0 {
		logger.Warn("No transactions to save")
	}
}
