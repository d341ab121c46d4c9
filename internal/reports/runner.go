package reports

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/winterpeaks/tourdw/internal/db"
	"github.com/winterpeaks/tourdw/internal/logging"
)

// Result is an executed report: the header plus formatted rows in
// query order.
type Result struct {
	Report  Report
	Columns []string
	Rows    [][]string
}

// Run executes a report and formats every value for display. Reports
// are read-only and parameterless, so running one never changes the
// warehouse.
func Run(ctx context.Context, d db.DB, rep Report) (*Result, error) {
	logging.Debug().Str("report", rep.Name).Msg("Running report")

	rows, err := d.Query(ctx, rep.SQL)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", rep.Name, err)
	}
	defer rows.Close()

	res := &Result{Report: rep, Columns: rep.Columns}
	for rows.Next() {
		values := make([]any, len(rep.Columns))
		ptrs := make([]any, len(values))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("report %s: scan: %w", rep.Name, err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("report %s: %w", rep.Name, err)
	}

	logging.Debug().Str("report", rep.Name).Int("rows", len(res.Rows)).Msg("Report complete")
	return res, nil
}

// RunAll executes every catalogue report in order.
func RunAll(ctx context.Context, d db.DB) ([]*Result, error) {
	results := make([]*Result, 0, len(catalogue))
	for _, rep := range catalogue {
		res, err := Run(ctx, d, rep)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// formatValue renders a scanned value for display. Ratios and money
// carry at most four decimal places; NULL stays literal so a missing
// side of an outer join is distinguishable from zero.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(math.Round(x*10000)/10000, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(math.Round(float64(x)*10000)/10000, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}
