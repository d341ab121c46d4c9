//-------------------------------------------------------------------------
//
// Winter Peaks Tour Warehouse
//
// Portions copyright (c) 2025 - 2026, Winter Peaks Outdoors Ltd.
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package pipeline orchestrates a full dataset build: dimension synthesis,
// bank-holiday and weather pulls, fact generation, rollups, validation,
// the 2026 forecast, the warehouse load and the snapshot export. Skips and
// targets come from the explicit configuration struct, never from ambient
// environment.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/winterpeaks/tourdw/internal/config"
	"github.com/winterpeaks/tourdw/internal/dataset"
	"github.com/winterpeaks/tourdw/internal/db"
	"github.com/winterpeaks/tourdw/internal/holidays"
	"github.com/winterpeaks/tourdw/internal/logging"
	"github.com/winterpeaks/tourdw/internal/quality"
	"github.com/winterpeaks/tourdw/internal/snapshot"
	"github.com/winterpeaks/tourdw/internal/synth"
	"github.com/winterpeaks/tourdw/internal/warehouse"
	"github.com/winterpeaks/tourdw/internal/weather"
	"github.com/winterpeaks/tourdw/pkg/version"
)

// Bookings cover 2024-2025; the calendar continues through 2026 so the
// forecast has a future week grid to land on.
var (
	bookingWindowStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bookingWindowEnd   = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
)

const (
	actualsMinYear = 2024
	actualsMaxYear = 2025
)

// Stage records the elapsed time of one pipeline stage.
type Stage struct {
	Name    string
	Elapsed time.Duration
}

// Result summarizes one pipeline run. It is returned even when the run
// aborts, so callers can render the validation report behind a failure.
type Result struct {
	Seed       int64
	Dataset    *dataset.Dataset
	Validation *quality.Report
	Loaded     bool
	Manifest   *snapshot.Manifest
	Stages     []Stage
}

// Run executes the build stages in order. Skip flags drop the weather,
// forecast and warehouse stages; a validation failure aborts the run
// before anything is written.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	r := &Result{Seed: cfg.Pipeline.Seed, Dataset: &dataset.Dataset{}}
	ds := r.Dataset
	f := synth.NewFakerWithSeed(uint64(cfg.Pipeline.Seed))
	timeout := time.Duration(cfg.Sources.TimeoutSeconds) * time.Second

	err := r.stage(ctx, "DIM: routes and guides", func(ctx context.Context) error {
		ds.Routes = synth.GenerateRoutes(f, cfg.Pipeline.Routes)
		ds.Guides = synth.GenerateGuides(f, cfg.Pipeline.Guides)
		return nil
	})
	if err != nil {
		return r, err
	}

	var cal holidays.Calendar
	err = r.stage(ctx, "API: bank holidays", func(ctx context.Context) error {
		var err error
		cal, err = holidays.NewClient(cfg.Sources.BankHolidaysURL, timeout).Fetch(ctx)
		return err
	})
	if err != nil {
		return r, err
	}

	err = r.stage(ctx, "DIM: date", func(ctx context.Context) error {
		start, err := time.Parse("2006-01-02", cfg.Pipeline.StartDate)
		if err != nil {
			return fmt.Errorf("invalid start_date: %w", err)
		}
		end, err := time.Parse("2006-01-02", cfg.Pipeline.EndDate)
		if err != nil {
			return fmt.Errorf("invalid end_date: %w", err)
		}
		ds.Calendar = dataset.BuildCalendar(start, end, cal.Flags())
		return nil
	})
	if err != nil {
		return r, err
	}

	err = r.stage(ctx, "TRANSFORM: bank holiday dimensions", func(ctx context.Context) error {
		var err error
		ds.BankHolidays, err = holidays.BuildHolidayDim(cal)
		if err != nil {
			return err
		}
		ds.HolidayBridge = holidays.BuildHolidayBridge(ds.BankHolidays)
		ds.RegionDivisions = holidays.RegionDivisions()
		return nil
	})
	if err != nil {
		return r, err
	}

	if !cfg.Pipeline.SkipWeather {
		var hours []weather.Hour
		err = r.stage(ctx, "API: weather (UKMO)", func(ctx context.Context) error {
			client := weather.NewClient(cfg.Sources.OpenMeteoURL, timeout)
			for _, rt := range ds.Routes {
				routeHours, err := client.FetchHourly(ctx, rt.RouteID, rt.RouteLat, rt.RouteLon)
				if err != nil {
					return fmt.Errorf("route %d: %w", rt.RouteID, err)
				}
				hours = append(hours, routeHours...)
			}
			return nil
		})
		if err != nil {
			return r, err
		}

		err = r.stage(ctx, "TRANSFORM: weather daily", func(ctx context.Context) error {
			ds.WeatherDaily = weather.BuildDaily(hours)
			return nil
		})
		if err != nil {
			return r, err
		}
	}

	err = r.stage(ctx, "SYNTH: fact_bookings", func(ctx context.Context) error {
		closed := map[string]map[string]bool{
			holidays.DivisionEnglandWales:    cal.ClosedDates(holidays.DivisionEnglandWales),
			holidays.DivisionScotland:        cal.ClosedDates(holidays.DivisionScotland),
			holidays.DivisionNorthernIreland: cal.ClosedDates(holidays.DivisionNorthernIreland),
		}
		divisions := make(map[string]string, len(ds.RegionDivisions))
		for _, rd := range ds.RegionDivisions {
			divisions[rd.Region] = rd.Division
		}
		ds.Bookings = synth.GenerateBookings(f, ds.Routes, ds.Guides,
			calendarBetween(ds.Calendar, bookingWindowStart, bookingWindowEnd),
			closed, divisions)
		return nil
	})
	if err != nil {
		return r, err
	}

	err = r.stage(ctx, "MODEL: daily and weekly rollups", func(ctx context.Context) error {
		ds.RouteDays = dataset.BuildRouteDay(ds.Bookings, ds.Calendar, ds.Routes)
		ds.RouteWeeks = dataset.BuildRouteWeek(ds.RouteDays, actualsMinYear, actualsMaxYear)
		return nil
	})
	if err != nil {
		return r, err
	}

	err = r.stage(ctx, "QUALITY: validate", func(ctx context.Context) error {
		r.Validation = quality.Validate(ds)
		if r.Validation.Failed() {
			return fmt.Errorf("dataset validation failed")
		}
		if n := r.Validation.Warnings(); n > 0 {
			logging.Warn().Int("warnings", n).Msg("Validation passed with warnings")
		}
		return nil
	})
	if err != nil {
		return r, err
	}

	if !cfg.Pipeline.SkipML {
		err = r.stage(ctx, "ML: 2026 weekly forecast", func(ctx context.Context) error {
			ds.ForecastWeeks = dataset.BuildForecastWeeks(ds.Calendar, ds.Routes, ds.RouteWeeks)
			return nil
		})
		if err != nil {
			return r, err
		}
	}

	if !cfg.Pipeline.SkipSQL {
		err = r.stage(ctx, "SQL: load warehouse", func(ctx context.Context) error {
			return loadWarehouse(ctx, cfg, r)
		})
		if err != nil {
			return r, err
		}
	}

	if cfg.Snapshot.Format != snapshot.FormatNone {
		err = r.stage(ctx, "SNAPSHOT: export processed tables", func(ctx context.Context) error {
			store, err := snapshot.NewStore(cfg.Snapshot.Dir)
			if err != nil {
				return err
			}
			r.Manifest, err = store.Write(ds, snapshot.Options{
				Format:  cfg.Snapshot.Format,
				Seed:    cfg.Pipeline.Seed,
				Version: version.Short(),
			})
			return err
		})
		if err != nil {
			return r, err
		}
	}

	return r, nil
}

// stage runs one named pipeline stage, recording its elapsed time and
// refusing to start once the context is cancelled.
func (r *Result) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := logging.Step(name)
	start := time.Now()
	err := fn(ctx)
	r.Stages = append(r.Stages, Stage{Name: name, Elapsed: time.Since(start)})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	done()
	return nil
}

func loadWarehouse(ctx context.Context, cfg *config.Config, r *Result) error {
	d, err := db.Open(ctx, cfg.Warehouse)
	if err != nil {
		return err
	}
	defer d.Close()

	if cfg.Pipeline.DropExisting {
		if err := warehouse.DropSchema(ctx, d); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
	} else {
		exists, err := warehouse.MetadataExists(ctx, d)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("warehouse already contains a loaded dataset (rerun with --drop-existing)")
		}
	}

	loader := warehouse.NewLoader(d)
	if cfg.Pipeline.BatchSize > 0 {
		bc := warehouse.DefaultBatchConfig()
		bc.BatchSize = cfg.Pipeline.BatchSize
		loader.SetBatchConfig(bc)
	}
	if err := loader.LoadDataset(ctx, r.Dataset); err != nil {
		return err
	}
	if err := warehouse.SaveMetadata(ctx, d, buildMetadata(r, cfg)); err != nil {
		return err
	}
	r.Loaded = true
	return nil
}

func buildMetadata(r *Result, cfg *config.Config) map[string]string {
	meta := map[string]string{
		"app":      "tourdw",
		"version":  version.Short(),
		"seed":     strconv.FormatInt(cfg.Pipeline.Seed, 10),
		"built_at": time.Now().UTC().Format(time.RFC3339),
	}
	if len(r.Dataset.ForecastWeeks) > 0 {
		meta["prediction_version"] = r.Dataset.ForecastWeeks[0].PredictionVersion
	}
	for table, n := range RowCounts(r.Dataset) {
		meta["rows_"+table] = strconv.Itoa(n)
	}
	return meta
}

// RowCounts maps warehouse table names to dataset row counts.
func RowCounts(ds *dataset.Dataset) map[string]int {
	return map[string]int{
		"dim_route":                len(ds.Routes),
		"dim_guide":                len(ds.Guides),
		"dim_date":                 len(ds.Calendar),
		"dim_bank_holiday":         len(ds.BankHolidays),
		"bridge_bank_holiday_date": len(ds.HolidayBridge),
		"dim_region_division":      len(ds.RegionDivisions),
		"weather_daily_ukmo":       len(ds.WeatherDaily),
		"fact_bookings":            len(ds.Bookings),
		"fact_route_day":           len(ds.RouteDays),
		"fact_route_week":          len(ds.RouteWeeks),
		"fact_forecast_week_2026":  len(ds.ForecastWeeks),
	}
}

// calendarBetween filters the calendar to days inside [start, end].
func calendarBetween(calendar []dataset.CalendarDay, start, end time.Time) []dataset.CalendarDay {
	var out []dataset.CalendarDay
	for _, day := range calendar {
		if day.Date.Before(start) || day.Date.After(end) {
			continue
		}
		out = append(out, day)
	}
	return out
}
