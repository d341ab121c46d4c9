//-------------------------------------------------------------------------
//
// Winter Peaks Tour Warehouse
//
// Portions copyright (c) 2025 - 2026, Winter Peaks Outdoors Ltd.
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for tourdw.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/winterpeaks/tourdw/internal/config"
	"github.com/winterpeaks/tourdw/internal/logging"
	"github.com/winterpeaks/tourdw/pkg/version"
)

var (
	// Global flags
	cfgFile         string
	warehouseTarget string
	logLevel        string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "tourdw",
		Short: "Star-schema warehouse builder for a UK winter tour operator",
		Long: `tourdw builds a small star-schema warehouse for a fictional UK winter
tour company. It synthesizes routes, guides and two years of bookings,
enriches them with GOV.UK bank holidays and Open-Meteo weather, validates
the dataset, projects a naive 2026 weekly booking forecast, and loads
everything into SQLite or PostgreSQL alongside CSV/Parquet snapshots.

The generated data is deterministic for a given seed, so a rebuilt
warehouse answers every bundled report with identical rows.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./tourdw.yaml)")
	rootCmd.PersistentFlags().StringVar(&warehouseTarget, "warehouse", "",
		"warehouse target: SQLite path or postgres:// URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(statusCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if warehouseTarget != "" {
		cfg.Warehouse = warehouseTarget
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
