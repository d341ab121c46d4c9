package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/winterpeaks/tourdw/internal/logging"
)

// SQLite is an embedded warehouse backed by a single database file.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates a SQLite database at the given path,
// creating parent directories as needed. The path ":memory:" opens a
// private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access. In-memory
	// databases ignore the request and report journal_mode=memory.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	logging.Debug().Str("path", path).Msg("Opened SQLite warehouse")

	return &SQLite{db: db, path: path}, nil
}

// Exec runs a statement that returns no rows.
func (s *SQLite) Exec(ctx context.Context, stmt string) error {
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

// Query runs a statement and returns its result rows.
func (s *SQLite) Query(ctx context.Context, stmt string) (Rows, error) {
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return &sqliteRows{rows: rows}, nil
}

// Engine identifies the SQL dialect.
func (s *SQLite) Engine() string { return EngineSQLite }

// Close closes the database.
func (s *SQLite) Close() {
	if err := s.db.Close(); err != nil {
		logging.Warn().Err(err).Str("path", s.path).Msg("Closing SQLite warehouse failed")
	}
}

// sqliteRows adapts database/sql rows to Rows, which closes without an
// error return.
type sqliteRows struct {
	rows *sql.Rows
}

func (r *sqliteRows) Next() bool             { return r.rows.Next() }
func (r *sqliteRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *sqliteRows) Err() error             { return r.rows.Err() }
func (r *sqliteRows) Close()                 { _ = r.rows.Close() }
