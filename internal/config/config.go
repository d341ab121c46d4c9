//-------------------------------------------------------------------------
//
// Winter Peaks Tour Warehouse
//
// Portions copyright (c) 2025 - 2026, Winter Peaks Outdoors Ltd.
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for tourdw.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for tourdw.
type Config struct {
	// Warehouse is the warehouse target: a postgres:// connection string
	// or a SQLite file path.
	Warehouse string `mapstructure:"warehouse"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Pipeline holds configuration for the build subcommand.
	Pipeline PipelineConfig `mapstructure:"pipeline"`

	// Sources holds upstream API endpoints.
	Sources SourcesConfig `mapstructure:"sources"`

	// Snapshot holds processed-table export configuration.
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

// PipelineConfig holds configuration for dataset builds.
type PipelineConfig struct {
	// Seed drives all synthetic generation. Same seed, same dataset.
	Seed int64 `mapstructure:"seed"`

	// Routes is the number of tour routes to generate.
	Routes int `mapstructure:"routes"`

	// Guides is the number of guides to generate.
	Guides int `mapstructure:"guides"`

	// StartDate and EndDate bound the date dimension (YYYY-MM-DD).
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`

	// SkipWeather skips the weather pull and daily weather table.
	SkipWeather bool `mapstructure:"skip_weather"`

	// SkipSQL skips loading the warehouse engine.
	SkipSQL bool `mapstructure:"skip_sql"`

	// SkipML skips the 2026 weekly forecast table.
	SkipML bool `mapstructure:"skip_ml"`

	// DropExisting drops an already-initialized warehouse before loading.
	DropExisting bool `mapstructure:"drop_existing"`

	// BatchSize is the number of rows per INSERT batch.
	BatchSize int `mapstructure:"batch_size"`
}

// SourcesConfig holds upstream API configuration.
type SourcesConfig struct {
	// BankHolidaysURL is the GOV.UK bank holidays endpoint.
	BankHolidaysURL string `mapstructure:"bank_holidays_url"`

	// OpenMeteoURL is the Open-Meteo forecast endpoint.
	OpenMeteoURL string `mapstructure:"open_meteo_url"`

	// TimeoutSeconds bounds each API request.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// SnapshotConfig holds processed-table export configuration.
type SnapshotConfig struct {
	// Dir is the snapshot output directory.
	Dir string `mapstructure:"dir"`

	// Format is one of: csv, parquet, both, none.
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Warehouse: "data/processed/winter_tours.sqlite",
		LogLevel:  "info",
		Pipeline: PipelineConfig{
			Seed:      42,
			Routes:    40,
			Guides:    12,
			StartDate: "2024-01-01",
			EndDate:   "2026-12-31",
			BatchSize: 1000,
		},
		Sources: SourcesConfig{
			BankHolidaysURL: "https://www.gov.uk/bank-holidays.json",
			OpenMeteoURL:    "https://api.open-meteo.com/v1/forecast",
			TimeoutSeconds:  30,
		},
		Snapshot: SnapshotConfig{
			Dir:    "data/processed",
			Format: "csv",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./tourdw.yaml
// 3. ~/.config/tourdw/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("tourdw")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "tourdw"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Warehouse == "" {
		return fmt.Errorf("warehouse target is required")
	}
	return nil
}

// ValidateBuild checks configuration required for the build command.
func (c *Config) ValidateBuild() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Pipeline.Routes < 1 {
		return fmt.Errorf("routes must be at least 1")
	}
	if c.Pipeline.Guides < 1 {
		return fmt.Errorf("guides must be at least 1")
	}
	if c.Pipeline.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	start, err := time.Parse("2006-01-02", c.Pipeline.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date %q: %w", c.Pipeline.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", c.Pipeline.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date %q: %w", c.Pipeline.EndDate, err)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date must not precede start_date")
	}
	switch c.Snapshot.Format {
	case "csv", "parquet", "both", "none":
	default:
		return fmt.Errorf("snapshot format must be 'csv', 'parquet', 'both' or 'none'")
	}
	if c.Snapshot.Format != "none" && c.Snapshot.Dir == "" {
		return fmt.Errorf("snapshot dir is required unless format is 'none'")
	}
	if c.Sources.BankHolidaysURL == "" {
		return fmt.Errorf("bank_holidays_url is required")
	}
	if !c.Pipeline.SkipWeather && c.Sources.OpenMeteoURL == "" {
		return fmt.Errorf("open_meteo_url is required unless skip_weather is set")
	}
	if c.Sources.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be at least 1")
	}
	return nil
}

// ValidateReport checks configuration required for the report command.
func (c *Config) ValidateReport() error {
	return c.Validate()
}
