// Package storage keeps a history of measurements in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mvp-joe/commentcov-typescript/internal/coverage"
)

// Store reads and writes measurement runs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path. ":memory:" gives a
// private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		dsn = path + "?_foreign_keys=on&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would get its own empty database.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := migrate(db, path); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// migrate creates the schema while holding a lock file next to the
// database, so plugin processes started together do not race on it.
func migrate(db *sql.DB, path string) error {
	if path == ":memory:" {
		return CreateSchema(db)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock history database: %w", err)
	}
	defer lock.Unlock()

	return CreateSchema(db)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes a run and its items in one transaction.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	_, err = sq.Insert("runs").
		Columns("id", "created_at", "file_count", "item_count", "documented_count").
		Values(run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano), run.FileCount, run.ItemCount, run.DocumentedCount).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to write run %s: %w", run.ID, err)
	}

	if len(run.Items) > 0 {
		// Build once, then reuse the prepared statement per item.
		sqlStr, _, err := sq.Insert("items").
			Columns("run_id", "file", "identifier", "scope", "start_line", "end_line", "header_count", "inline_count").
			Values("", "", "", "", 0, 0, 0, 0).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build SQL: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, sqlStr)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, item := range run.Items {
			if _, err := stmt.ExecContext(ctx,
				run.ID, item.File, item.Identifier, item.Scope.String(),
				item.StartLine, item.EndLine, item.HeaderCount, item.InlineCount,
			); err != nil {
				return fmt.Errorf("failed to write item %s in %s: %w", item.Identifier, item.File, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first, without items. A limit of
// zero or less returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := sq.Select("id", "created_at", "file_count", "item_count", "documented_count").
		From("runs").
		OrderBy("created_at DESC", "id")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var created string
		if err := rows.Scan(&run.ID, &created, &run.FileCount, &run.ItemCount, &run.DocumentedCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at of run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunItems returns the items of a run ordered by file and line.
func (s *Store) RunItems(ctx context.Context, runID string) ([]ItemRecord, error) {
	rows, err := sq.Select("file", "identifier", "scope", "start_line", "end_line", "header_count", "inline_count").
		From("items").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("file", "start_line", "identifier").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query items of run %s: %w", runID, err)
	}
	defer rows.Close()

	items := []ItemRecord{}
	for rows.Next() {
		var item ItemRecord
		var scope string
		if err := rows.Scan(&item.File, &item.Identifier, &scope, &item.StartLine, &item.EndLine, &item.HeaderCount, &item.InlineCount); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if item.Scope, err = coverage.ParseScope(scope); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
