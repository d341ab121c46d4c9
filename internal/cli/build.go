package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/winterpeaks/tourdw/internal/logging"
	"github.com/winterpeaks/tourdw/internal/pipeline"
	"github.com/winterpeaks/tourdw/internal/quality"
)

var (
	buildSeed           int64
	buildRoutes         int
	buildGuides         int
	buildStartDate      string
	buildEndDate        string
	buildBatchSize      int
	buildSnapshotDir    string
	buildSnapshotFormat string
	buildSkipWeather    bool
	buildSkipSQL        bool
	buildSkipML         bool
	buildDropExisting   bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the warehouse from scratch",
	Long: `Build runs the full pipeline: synthesize dimensions and bookings, pull
GOV.UK bank holidays and Open-Meteo weather, roll up daily and weekly
facts, validate the dataset, project the 2026 forecast, load the
warehouse and export snapshots.

The build is deterministic for a given seed. A warehouse that already
holds a loaded dataset is refused unless --drop-existing is set.

Example:
  tourdw build --seed 42
  tourdw build --skip-weather --snapshot-format parquet
  tourdw build --warehouse "postgres://user@host:5432/tours" --drop-existing`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().Int64Var(&buildSeed, "seed", 0,
		"random seed for deterministic generation")
	buildCmd.Flags().IntVar(&buildRoutes, "routes", 0,
		"number of tour routes to synthesize")
	buildCmd.Flags().IntVar(&buildGuides, "guides", 0,
		"number of guides to synthesize")
	buildCmd.Flags().StringVar(&buildStartDate, "start-date", "",
		"first calendar date (YYYY-MM-DD)")
	buildCmd.Flags().StringVar(&buildEndDate, "end-date", "",
		"last calendar date (YYYY-MM-DD)")
	buildCmd.Flags().IntVar(&buildBatchSize, "batch-size", 0,
		"rows per warehouse INSERT batch")
	buildCmd.Flags().StringVar(&buildSnapshotDir, "snapshot-dir", "",
		"directory for CSV/Parquet snapshots")
	buildCmd.Flags().StringVar(&buildSnapshotFormat, "snapshot-format", "",
		"snapshot format: csv, parquet, both or none")
	buildCmd.Flags().BoolVar(&buildSkipWeather, "skip-weather", false,
		"skip the Open-Meteo weather pull")
	buildCmd.Flags().BoolVar(&buildSkipSQL, "skip-sql", false,
		"skip loading the warehouse")
	buildCmd.Flags().BoolVar(&buildSkipML, "skip-ml", false,
		"skip the 2026 forecast")
	buildCmd.Flags().BoolVar(&buildDropExisting, "drop-existing", false,
		"drop an existing warehouse schema before loading")
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if cmd.Flags().Changed("seed") {
		cfg.Pipeline.Seed = buildSeed
	}
	if buildRoutes > 0 {
		cfg.Pipeline.Routes = buildRoutes
	}
	if buildGuides > 0 {
		cfg.Pipeline.Guides = buildGuides
	}
	if buildStartDate != "" {
		cfg.Pipeline.StartDate = buildStartDate
	}
	if buildEndDate != "" {
		cfg.Pipeline.EndDate = buildEndDate
	}
	if buildBatchSize > 0 {
		cfg.Pipeline.BatchSize = buildBatchSize
	}
	if buildSnapshotDir != "" {
		cfg.Snapshot.Dir = buildSnapshotDir
	}
	if buildSnapshotFormat != "" {
		cfg.Snapshot.Format = buildSnapshotFormat
	}
	if buildSkipWeather {
		cfg.Pipeline.SkipWeather = true
	}
	if buildSkipSQL {
		cfg.Pipeline.SkipSQL = true
	}
	if buildSkipML {
		cfg.Pipeline.SkipML = true
	}
	if buildDropExisting {
		cfg.Pipeline.DropExisting = true
	}

	// Validate configuration
	if err := cfg.ValidateBuild(); err != nil {
		return err
	}

	logging.Info().
		Int64("seed", cfg.Pipeline.Seed).
		Int("routes", cfg.Pipeline.Routes).
		Int("guides", cfg.Pipeline.Guides).
		Str("warehouse", cfg.Warehouse).
		Msg("Building warehouse")

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

	result, err := pipeline.Run(ctx, cfg)
	if result != nil && result.Validation != nil {
		cmd.Println()
		quality.Render(cmd.OutOrStdout(), result.Validation)
		cmd.Println()
	}
	if err != nil {
		return err
	}

	var elapsed time.Duration
	for _, st := range result.Stages {
		elapsed += st.Elapsed
	}
	logging.Info().
		Int("stages", len(result.Stages)).
		Dur("elapsed", elapsed).
		Int("bookings", len(result.Dataset.Bookings)).
		Bool("loaded", result.Loaded).
		Msg("Build complete")

	return nil
}
