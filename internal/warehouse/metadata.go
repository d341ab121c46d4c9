//-------------------------------------------------------------------------
//
// Winter Peaks Tour Warehouse
//
// Portions copyright (c) 2025 - 2026, Winter Peaks Outdoors Ltd.
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"sort"

	"github.com/winterpeaks/tourdw/internal/db"
	"github.com/winterpeaks/tourdw/internal/logging"
)

const metadataTable = "warehouse_metadata"

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS warehouse_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// SaveMetadata upserts load metadata into the warehouse. The upsert
// syntax is shared by Postgres and SQLite.
func SaveMetadata(ctx context.Context, d db.DB, metadata map[string]string) error {
	if err := d.Exec(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		stmt := fmt.Sprintf(
			"INSERT INTO %s (key, value) VALUES (%s, %s) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
			metadataTable, sqlString(key), sqlString(metadata[key]))
		if err := d.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().Int("keys", len(metadata)).Msg("Saved metadata")
	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, d db.DB, key string) (string, error) {
	stmt := fmt.Sprintf("SELECT value FROM %s WHERE key = %s", metadataTable, sqlString(key))
	rows, err := d.Query(ctx, stmt)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("metadata key %q not found", key)
	}

	var value string
	if err := rows.Scan(&value); err != nil {
		return "", err
	}
	return value, rows.Err()
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, d db.DB) (map[string]string, error) {
	rows, err := d.Query(ctx, "SELECT key, value FROM "+metadataTable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// MetadataExists checks if the metadata table exists, which marks a
// warehouse already holding a loaded dataset.
func MetadataExists(ctx context.Context, d db.DB) (bool, error) {
	stmt := `SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'warehouse_metadata'`
	if d.Engine() == db.EngineSQLite {
		stmt = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'warehouse_metadata'`
	}

	rows, err := d.Query(ctx, stmt)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return false, err
		}
	}
	return count > 0, rows.Err()
}
