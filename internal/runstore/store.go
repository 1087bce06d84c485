// Package runstore records batch runs in Postgres when a DSN is configured.
// Persistence is best-effort observability: a nil store is a valid no-op,
// and store errors never fail a batch.
package runstore

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	"licenseflow/internal/results"
	"licenseflow/internal/solve"
)

type Store struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

// Open connects to Postgres. An empty DSN returns (nil, nil): run history
// is simply disabled.
func Open(dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, nil
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    input_dir   TEXT NOT NULL,
    provider    TEXT NOT NULL,
    file_count  INTEGER NOT NULL,
    error_count INTEGER NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS run_files (
    run_id           TEXT NOT NULL REFERENCES runs(id),
    position         INTEGER NOT NULL,
    file_path        TEXT NOT NULL,
    license_kind     TEXT NOT NULL,
    license_name     TEXT,
    copyright_holder TEXT,
    action_taken     TEXT NOT NULL,
    function_count   INTEGER,
    error            TEXT,
    PRIMARY KEY (run_id, position)
);`)
	})
	return s.schemaErr
}

// RecordRun persists one batch run and its per-file records. Safe to call
// on a nil store.
func (s *Store) RecordRun(ctx context.Context, runID, inputDir, provider string, rs []solve.TaskResult) error {
	if s == nil || s.db == nil {
		return nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	errCount := 0
	for _, r := range rs {
		if r.Err != nil {
			errCount++
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, input_dir, provider, file_count, error_count) VALUES ($1, $2, $3, $4, $5)`,
		runID, inputDir, provider, len(rs), errCount); err != nil {
		return err
	}

	for i, r := range rs {
		rec := results.ToRecord(r)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_files
			 (run_id, position, file_path, license_kind, license_name, copyright_holder, action_taken, function_count, error)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			runID, i, rec.FilePath, string(rec.LicenseKind), rec.LicenseName,
			rec.CopyrightHolder, string(rec.Action), rec.FunctionCount, nullable(rec.Error)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
