package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/winterpeaks/tourdw/internal/db"
	"github.com/winterpeaks/tourdw/internal/logging"
	"github.com/winterpeaks/tourdw/internal/reports"
	"github.com/winterpeaks/tourdw/internal/warehouse"
)

var reportName string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run reports against a built warehouse",
	Long: `Report runs the bundled read-only queries against a warehouse built
with 'tourdw build'. Without --report every catalogue report runs in
order; with --report only the named one runs.

Example:
  tourdw report
  tourdw report --report margin_by_region
  tourdw report --warehouse "postgres://user@host:5432/tours"`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List available reports",
	Run: func(cmd *cobra.Command, args []string) {
		reports.RenderCatalogue(cmd.OutOrStdout())
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportName, "report", "",
		"run a single report by name (default: all)")
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateReport(); err != nil {
		return err
	}

	// Handle shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	}()

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

	if reportName != "" {
		rep, err := reports.Get(reportName)
		if err != nil {
			return err
		}
		res, err := reports.Run(ctx, d, rep)
		if err != nil {
			return err
		}
		reports.Render(cmd.OutOrStdout(), res)
		return nil
	}

	results, err := reports.RunAll(ctx, d)
	if err != nil {
		return err
	}
	for i, res := range results {
		if i > 0 {
			cmd.Println()
		}
		reports.Render(cmd.OutOrStdout(), res)
	}
	return nil
}
