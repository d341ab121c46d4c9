package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/winterpeaks/tourdw/internal/db"
	"github.com/winterpeaks/tourdw/internal/warehouse"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show metadata and row counts for the configured warehouse",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	d, err := db.Open(ctx, cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer d.Close()

	exists, err := warehouse.MetadataExists(ctx, d)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("warehouse has not been built; run 'tourdw build' first")
	}

	cmd.Printf("Warehouse: %s (%s)\n\n", cfg.Warehouse, d.Engine())

	meta, err := warehouse.GetAllMetadata(ctx, d)
	if err != nil {
		return err
	}

	// Build-time row counts are in the metadata too; the live counts
	// below supersede them.
	keys := make([]string, 0, len(meta))
	for k := range meta {
		if strings.HasPrefix(k, "rows_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmd.Println(color.New(color.Bold).Sprint("Metadata"))
	for _, k := range keys {
		cmd.Printf("  %-20s %s\n", k, meta[k])
	}
	cmd.Println()

	cmd.Println(color.New(color.Bold).Sprint("Tables"))
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"table", "rows"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, name := range warehouse.Tables {
		n, err := countTable(ctx, d, name)
		if err != nil {
			return err
		}
		table.Append([]string{name, fmt.Sprintf("%d", n)})
	}
	table.Render()

	return nil
}

func countTable(ctx context.Context, d db.DB, table string) (int64, error) {
	rows, err := d.Query(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}
