package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/revol-ver/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "trans_db.sql"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tx(legID string) models.Transaction {
	started := time.Date(2024, time.February, 10, 9, 30, 0, 0, time.UTC)
	return models.Transaction{
		ID:          "tx-" + legID,
		LegID:       legID,
		Type:        "CARD_PAYMENT",
		State:       "COMPLETED",
		StartedDate: &started,
		Currency:    "CHF",
		Amount:      decimal.RequireFromString("-57.50"),
		Fee:         decimal.Zero,
		Balance:     decimal.RequireFromString("53.92"),
		Tag:         "restaurants",
		Category:    "restaurants",
		Rate:        decimal.NewNullDecimal(decimal.RequireFromString("1.0734")),
	}
}

func TestInitDB_CreatesTables(t *testing.T) {
	db := setupDB(t)

	for _, table := range []string{"raw_transactions", "import_runs"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestInitDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trans_db.sql")
	db, err := InitDB(path)
	require.NoError(t, err)
	_, err = NewTransactionRepo(db).BulkInsert(context.Background(), []models.Transaction{tx("leg-1")})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := InitDB(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	ids, err := NewTransactionRepo(reopened).ExistingLegIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"leg-1"}, ids)
}

func TestTransactionRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepo(setupDB(t))

	ids, err := repo.ExistingLegIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	inserted, err := repo.BulkInsert(ctx, []models.Transaction{tx("leg-1"), tx("leg-2")})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	ids, err = repo.ExistingLegIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"leg-1", "leg-2"}, ids)
}

func TestTransactionRepo_IgnoresKnownLegIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepo(setupDB(t))

	_, err := repo.BulkInsert(ctx, []models.Transaction{tx("leg-1")})
	require.NoError(t, err)

	inserted, err := repo.BulkInsert(ctx, []models.Transaction{tx("leg-1"), tx("leg-3")})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTransactionRepo_StoredValues(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewTransactionRepo(db)

	withoutOptionals := tx("leg-2")
	withoutOptionals.StartedDate = nil
	withoutOptionals.Rate = decimal.NullDecimal{}
	withMerchant := tx("leg-1")
	withMerchant.MerchantName = "Boreal Coffee Shop"

	_, err := repo.BulkInsert(ctx, []models.Transaction{withMerchant, withoutOptionals})
	require.NoError(t, err)

	var amount, started string
	var rate, merchant, account sql.NullString
	err = db.QueryRow(`SELECT amount, startedDate, rate, merchantName, accountId FROM raw_transactions WHERE legId = ?`, "leg-1").
		Scan(&amount, &started, &rate, &merchant, &account)
	require.NoError(t, err)
	assert.Equal(t, "-57.5", amount)
	assert.Equal(t, "2024-02-10 09:30:00", started)
	assert.Equal(t, sql.NullString{String: "1.0734", Valid: true}, rate)
	assert.Equal(t, sql.NullString{String: "Boreal Coffee Shop", Valid: true}, merchant)
	assert.False(t, account.Valid)

	var startedNull, rateNull sql.NullString
	err = db.QueryRow(`SELECT startedDate, rate FROM raw_transactions WHERE legId = ?`, "leg-2").Scan(&startedNull, &rateNull)
	require.NoError(t, err)
	assert.False(t, startedNull.Valid)
	assert.False(t, rateNull.Valid)
}

func TestTransactionRepo_EmptyBatch(t *testing.T) {
	inserted, err := NewTransactionRepo(setupDB(t)).BulkInsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestRunRepo_Record(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepo(setupDB(t))

	result := &models.PipelineResult{
		RunID:  "5d1c7e52-8c1e-4a54-9a3c-0d3f0f6b8f21",
		Period: models.Period{Kind: models.PeriodMonth, Year: 2024, Month: time.February},
		Stats:  models.PipelineStats{Total: 10, Accepted: 6, Duplicates: 2, OutOfPeriod: 1, Invalid: 1},
	}
	finished := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(ctx, result, models.SourceFile, 6, finished))

	later := &models.PipelineResult{RunID: "second", Period: models.AllPeriod()}
	require.NoError(t, repo.Record(ctx, later, models.SourceWebRequest, 0, finished.Add(time.Hour)))

	rows, err := repo.db.QueryContext(ctx,
		`SELECT run_id, period, source, total, accepted, duplicates, out_of_period, invalid, inserted, finished_at
		FROM import_runs ORDER BY finished_at DESC`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	type runRow struct {
		runID, period, source string
		stats                 models.PipelineStats
		inserted              int
		finishedAt            string
	}
	var runs []runRow
	for rows.Next() {
		var r runRow
		require.NoError(t, rows.Scan(&r.runID, &r.period, &r.source,
			&r.stats.Total, &r.stats.Accepted, &r.stats.Duplicates,
			&r.stats.OutOfPeriod, &r.stats.Invalid, &r.inserted, &r.finishedAt))
		runs = append(runs, r)
	}
	require.NoError(t, rows.Err())
	require.Len(t, runs, 2)

	assert.Equal(t, "second", runs[0].runID)
	assert.Equal(t, "all", runs[0].period)

	assert.Equal(t, runRow{
		runID:      result.RunID,
		period:     "month_2024_02",
		source:     models.SourceFile,
		stats:      result.Stats,
		inserted:   6,
		finishedAt: "2024-03-01T08:00:00Z",
	}, runs[1])
}

func TestRunRepo_DuplicateRunID(t *testing.T) {
	ctx := context.Background()
	repo := NewRunRepo(setupDB(t))
	result := &models.PipelineResult{RunID: "run-1", Period: models.AllPeriod()}

	require.NoError(t, repo.Record(ctx, result, models.SourceFile, 0, time.Now()))
	assert.Error(t, repo.Record(ctx, result, models.SourceFile, 0, time.Now()))
}
