package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/winterpeaks/tourdw/internal/logging"
)

// Postgres is a pgxpool-backed warehouse connection.
type Postgres struct {
	pool *pgxpool.Pool
}

// DefaultPoolConfig returns default connection pool configuration.
// The warehouse load is bulk inserts from a single process, so the
// pool stays small.
func DefaultPoolConfig() *pgxpool.Config {
	config, _ := pgxpool.ParseConfig("")
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second
	return config
}

// ConnectPostgres establishes a connection pool using the provided
// connection string and verifies it with a ping.
func ConnectPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	defaults := DefaultPoolConfig()
	config.MaxConns = defaults.MaxConns
	config.MinConns = defaults.MinConns
	config.MaxConnLifetime = defaults.MaxConnLifetime
	config.MaxConnIdleTime = defaults.MaxConnIdleTime
	config.HealthCheckPeriod = defaults.HealthCheckPeriod

	logging.Debug().
		Str("host", config.ConnConfig.Host).
		Uint16("port", config.ConnConfig.Port).
		Str("database", config.ConnConfig.Database).
		Msg("Connecting to Postgres warehouse")

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Info().
		Str("host", config.ConnConfig.Host).
		Str("database", config.ConnConfig.Database).
		Msg("Connected to Postgres warehouse")

	return &Postgres{pool: pool}, nil
}

// Exec runs a statement that returns no rows.
func (p *Postgres) Exec(ctx context.Context, sql string) error {
	_, err := p.pool.Exec(ctx, sql)
	return err
}

// Query runs a statement and returns its result rows.
func (p *Postgres) Query(ctx context.Context, sql string) (Rows, error) {
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Engine identifies the SQL dialect.
func (p *Postgres) Engine() string { return EnginePostgres }

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}
