package warehouse

import "github.com/winterpeaks/tourdw/internal/logging"

// BatchConfig configures batch insert behavior.
type BatchConfig struct {
	// BatchSize is the number of rows per batch insert.
	BatchSize int

	// ProgressInterval is how often to log progress (in rows).
	ProgressInterval int64
}

// DefaultBatchConfig returns default batch insert configuration.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BatchSize:        500,
		ProgressInterval: 10000,
	}
}

// progressReporter tracks and reports table load progress.
type progressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

func newProgressReporter(tableName string, totalRows, interval int64) *progressReporter {
	return &progressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update advances the row count and logs when an interval is crossed.
func (p *progressReporter) Update(rowsInserted int64) {
	oldRow := p.currentRow
	p.currentRow += rowsInserted

	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := float64(p.currentRow) / float64(p.totalRows) * 100
		logging.Info().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Loading table")
	}
}

// Done logs completion.
func (p *progressReporter) Done() {
	logging.Info().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table loaded")
}
