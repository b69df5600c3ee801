package storage

import (
	"database/sql"
	"fmt"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	created_at       TEXT NOT NULL,
	file_count       INTEGER NOT NULL,
	item_count       INTEGER NOT NULL,
	documented_count INTEGER NOT NULL
)`

const createItemsTable = `
CREATE TABLE IF NOT EXISTS items (
	run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	file         TEXT NOT NULL,
	identifier   TEXT NOT NULL,
	scope        TEXT NOT NULL,
	start_line   INTEGER NOT NULL,
	end_line     INTEGER NOT NULL,
	header_count INTEGER NOT NULL,
	inline_count INTEGER NOT NULL
)`

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)",
	"CREATE INDEX IF NOT EXISTS idx_items_run_id ON items(run_id)",
}

// CreateSchema creates the history tables. It is idempotent and atomic.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"runs", createRunsTable},
		{"items", createItemsTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
