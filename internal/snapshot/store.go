//-------------------------------------------------------------------------
//
// Winter Peaks Tour Warehouse
//
// Portions copyright (c) 2025 - 2026, Winter Peaks Outdoors Ltd.
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package snapshot exports a built dataset as local CSV and Parquet
// files plus a JSON manifest. Files are written through a temp-and-rename
// step, so a crashed run never leaves a half-written table behind and a
// new run replaces the previous snapshot file by file.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/winterpeaks/tourdw/internal/dataset"
	"github.com/winterpeaks/tourdw/internal/logging"
)

// Snapshot formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatBoth    = "both"
	FormatNone    = "none"
)

// ValidFormat reports whether s names a supported snapshot format.
func ValidFormat(s string) bool {
	switch s {
	case FormatCSV, FormatParquet, FormatBoth, FormatNone:
		return true
	}
	return false
}

const manifestFile = "_manifest.json"

// Store writes snapshot files under a base directory.
type Store struct {
	dir string
}

// NewStore creates the snapshot directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the snapshot base directory.
func (s *Store) Dir() string {
	return s.dir
}

// Options carries the build metadata recorded in the manifest.
type Options struct {
	Format  string
	Seed    int64
	Version string
}

// Manifest describes the files written by one snapshot run.
type Manifest struct {
	Producer  ProducerInfo        `json:"producer"`
	Seed      int64               `json:"seed"`
	Format    string              `json:"format"`
	CreatedAt time.Time           `json:"created_at"`
	Files     map[string]FileInfo `json:"files"`
}

// ProducerInfo identifies the software that produced the snapshot.
type ProducerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// FileInfo describes a single snapshot file.
type FileInfo struct {
	Table    string `json:"table"`
	RowCount int64  `json:"row_count"`
	ByteSize int64  `json:"byte_size"`
	Checksum string `json:"checksum"`
}

// Write exports every table in the requested format, then the manifest.
// FormatNone is rejected here; the pipeline skips the snapshot stage
// entirely when no snapshot is wanted.
func (s *Store) Write(ds *dataset.Dataset, opts Options) (*Manifest, error) {
	wantCSV := opts.Format == FormatCSV || opts.Format == FormatBoth
	wantParquet := opts.Format == FormatParquet || opts.Format == FormatBoth
	if !wantCSV && !wantParquet {
		return nil, fmt.Errorf("unknown snapshot format: %s", opts.Format)
	}

	manifest := &Manifest{
		Producer:  ProducerInfo{Name: "tourdw", Version: opts.Version},
		Seed:      opts.Seed,
		Format:    opts.Format,
		CreatedAt: time.Now().UTC(),
		Files:     map[string]FileInfo{},
	}

	for _, ex := range exports(ds) {
		if wantCSV {
			data, err := ex.csv()
			if err != nil {
				return nil, fmt.Errorf("build csv for %s: %w", ex.table, err)
			}
			if err := s.writeTableFile(manifest, ex, ex.stem+".csv", data); err != nil {
				return nil, err
			}
		}
		if wantParquet {
			data, err := ex.parquet()
			if err != nil {
				return nil, fmt.Errorf("build parquet for %s: %w", ex.table, err)
			}
			if err := s.writeTableFile(manifest, ex, ex.stem+".parquet", data); err != nil {
				return nil, err
			}
		}
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := s.writeFileAtomic(manifestFile, data); err != nil {
		return nil, err
	}

	logging.Info().
		Str("dir", s.dir).
		Str("format", opts.Format).
		Int("files", len(manifest.Files)).
		Msg("Snapshot written")
	return manifest, nil
}

func (s *Store) writeTableFile(manifest *Manifest, ex tableExport, file string, data []byte) error {
	if err := s.writeFileAtomic(file, data); err != nil {
		return err
	}
	manifest.Files[file] = FileInfo{
		Table:    ex.table,
		RowCount: ex.rows,
		ByteSize: int64(len(data)),
		Checksum: checksum(data),
	}
	logging.Debug().
		Str("file", file).
		Int64("rows", ex.rows).
		Int("bytes", len(data)).
		Msg("Wrote snapshot file")
	return nil
}

// writeFileAtomic writes data through a temp file and rename.
func (s *Store) writeFileAtomic(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("write temp file %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("rename %s to %s: %w", tempPath, path, err)
	}
	return nil
}

// checksum returns the hex SHA-256 of data.
func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReadManifest loads the manifest from a snapshot directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
