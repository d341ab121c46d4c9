// Package db provides connections to the warehouse database. The
// warehouse runs on either Postgres (via pgx) or embedded SQLite (via
// modernc.org/sqlite); both are wrapped behind the same minimal
// execute/query surface so the loader and the report runner never
// branch on the engine.
package db

import (
	"context"
	"strings"
)

// Engine names returned by DB.Engine.
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Rows iterates a result set. It is the shared subset of pgx.Rows and
// database/sql.Rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// DB is the engine-neutral connection used by the warehouse loader and
// the report runner. Statements are complete literal SQL; both engines
// accept the portable dialect the schema and queries are written in.
type DB interface {
	Exec(ctx context.Context, sql string) error
	Query(ctx context.Context, sql string) (Rows, error)
	Engine() string
	Close()
}

// Open connects to the warehouse named by target. A postgres:// or
// postgresql:// URL opens a connection pool; anything else is treated
// as a SQLite database path (":memory:" included).
func Open(ctx context.Context, target string) (DB, error) {
	if IsPostgresTarget(target) {
		return ConnectPostgres(ctx, target)
	}
	return OpenSQLite(target)
}

// IsPostgresTarget reports whether target looks like a Postgres
// connection URL rather than a SQLite path.
func IsPostgresTarget(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}
