// Package repository persists canonical transactions in SQLite.
//
// Writes are append-only: a transaction whose legId is already stored is ignored.
package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// The CLI is the only writer; a single connection keeps ":memory:" databases
	// coherent across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS raw_transactions (
			id TEXT NOT NULL,
			legId TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			state TEXT NOT NULL,
			startedDate TEXT,
			updatedDate TEXT,
			completedDate TEXT,
			createdDate TEXT,
			currency TEXT NOT NULL,
			amount TEXT NOT NULL,
			fee TEXT NOT NULL,
			balance TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			tag TEXT NOT NULL,
			category TEXT NOT NULL,
			relatedTransactionId TEXT NOT NULL DEFAULT '',
			accountId TEXT,
			countryCode TEXT NOT NULL DEFAULT '',
			rate TEXT,
			merchantCategory TEXT,
			merchantName TEXT,
			comment TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_raw_transactions_started ON raw_transactions(startedDate)`,

		`CREATE TABLE IF NOT EXISTS import_runs (
			run_id TEXT PRIMARY KEY,
			period TEXT NOT NULL,
			source TEXT NOT NULL,
			total INTEGER NOT NULL,
			accepted INTEGER NOT NULL,
			duplicates INTEGER NOT NULL,
			out_of_period INTEGER NOT NULL,
			invalid INTEGER NOT NULL,
			inserted INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}

	return nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
