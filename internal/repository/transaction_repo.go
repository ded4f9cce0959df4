package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fjacquet/revol-ver/internal/models"
)

const insertTransactionSQL = `INSERT OR IGNORE INTO raw_transactions
	(id, legId, type, state, startedDate, updatedDate, completedDate, createdDate,
	 currency, amount, fee, balance, description, tag, category, relatedTransactionId,
	 accountId, countryCode, rate, merchantCategory, merchantName, comment)
	VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

// TransactionRepo reads and writes the raw_transactions table.
type TransactionRepo struct {
	db *sql.DB
}

// NewTransactionRepo creates a TransactionRepo on db.
func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// BulkInsert stores txns in a single database transaction and returns how
// many rows were actually added. Known legIds are skipped.
func (r *TransactionRepo) BulkInsert(ctx context.Context, txns []models.Transaction) (int, error) {
	inserted := 0
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	stmt, err := sqlTx.PrepareContext(ctx, insertTransactionSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range txns {
		tx := &txns[i]
		res, err := stmt.ExecContext(ctx,
			tx.ID, tx.LegID, tx.Type, tx.State,
			nullableTimestamp(tx.StartedDate), nullableTimestamp(tx.UpdatedDate),
			nullableTimestamp(tx.CompletedDate), nullableTimestamp(tx.CreatedDate),
			tx.Currency, tx.Amount.String(), tx.Fee.String(), tx.Balance.String(),
			tx.Description, tx.Tag, tx.Category, tx.RelatedTransactionID,
			nullableString(tx.AccountID), tx.CountryCode, nullableRate(tx),
			nullableString(tx.MerchantCategory), nullableString(tx.MerchantName), tx.Comment,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert row %d (legId %s): %w", i, tx.LegID, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// ExistingLegIDs returns every legId already stored.
func (r *TransactionRepo) ExistingLegIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT legId FROM raw_transactions")
	if err != nil {
		return nil, fmt.Errorf("query legIds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan legId: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legIds: %w", err)
	}
	return ids, nil
}

// Count returns the number of stored transactions.
func (r *TransactionRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM raw_transactions").Scan(&count)
	return count, err
}

func nullableTimestamp(ts *time.Time) sql.NullString {
	if ts == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: models.FormatTimestamp(ts), Valid: true}
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableRate(tx *models.Transaction) sql.NullString {
	if !tx.Rate.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: tx.Rate.Decimal.String(), Valid: true}
}
