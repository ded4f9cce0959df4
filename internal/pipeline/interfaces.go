package pipeline

import (
	"context"
	"time"

	"fjacquet/revol-ver/internal/harparser"
	"fjacquet/revol-ver/internal/models"
)

// Source produces the raw records of one run.
type Source interface {
	Load(ctx context.Context) ([]models.RawTransaction, error)
	// Name identifies the source in logs, e.g. "web_request".
	Name() string
}

// CredentialExtractor reads API credentials from a captured browser trace.
type CredentialExtractor interface {
	ExtractFile(path string) (harparser.Credentials, bool, error)
}

// Fetcher retrieves raw records from the remote API.
type Fetcher interface {
	FetchMonth(ctx context.Context, creds harparser.Credentials, period models.Period) ([]models.RawTransaction, error)
	FetchAll(ctx context.Context, creds harparser.Credentials, now time.Time, lookbackYears int) ([]models.RawTransaction, error)
}

// Normalizer validates raw records and builds their canonical form.
type Normalizer interface {
	Normalize(raw models.RawTransaction) (models.Transaction, error)
	// NormalizeAll keeps input order and reports each failing record with its index.
	NormalizeAll(raws []models.RawTransaction) ([]models.Transaction, []models.RecordFailure)
}
