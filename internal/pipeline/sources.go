package pipeline

import (
	"context"
	"fmt"
	"time"

	"fjacquet/revol-ver/internal/fileutils"
	"fjacquet/revol-ver/internal/logging"
	"fjacquet/revol-ver/internal/models"
	"fjacquet/revol-ver/internal/parsererror"
)

// WebSource fetches records from the API with credentials taken from a HAR trace.
type WebSource struct {
	extractor     CredentialExtractor
	fetcher       Fetcher
	tracePath     string
	period        models.Period
	lookbackYears int
	now           func() time.Time
	logger        logging.Logger
}

// NewWebSource creates a WebSource for the given period.
func NewWebSource(extractor CredentialExtractor, fetcher Fetcher, tracePath string, period models.Period, lookbackYears int, logger logging.Logger) *WebSource {
	return &WebSource{
		extractor:     extractor,
		fetcher:       fetcher,
		tracePath:     tracePath,
		period:        period,
		lookbackYears: lookbackYears,
		now:           time.Now,
		logger:        logger,
	}
}

// Name implements Source.
func (s *WebSource) Name() string { return models.SourceWebRequest }

// Load extracts credentials and fetches the period. Missing credentials are
// reported as *parsererror.AuthNotFoundError.
func (s *WebSource) Load(ctx context.Context) ([]models.RawTransaction, error) {
	creds, found, err := s.extractor.ExtractFile(s.tracePath)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &parsererror.AuthNotFoundError{TracePath: s.tracePath}
	}

	if s.period.IsMonth() {
		return s.fetcher.FetchMonth(ctx, creds, s.period)
	}
	return s.fetcher.FetchAll(ctx, creds, s.now(), s.lookbackYears)
}

// FileSource reads records from a JSON export (an array of transaction objects).
type FileSource struct {
	path   string
	logger logging.Logger
}

// NewFileSource creates a FileSource reading path.
func NewFileSource(path string, logger logging.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

// Name implements Source.
func (s *FileSource) Name() string { return models.SourceFile }

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) ([]models.RawTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.Info("Reading JSON transactions", logging.F(logging.FieldFile, s.path))

	var records []models.RawTransaction
	if err := fileutils.ReadJSONFile(s.path, &records); err != nil {
		return nil, fmt.Errorf("failed to load static transactions: %w", err)
	}
	return records, nil
}
