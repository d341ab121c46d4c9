package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/winterpeaks/tourdw/internal/config"
	"github.com/winterpeaks/tourdw/internal/dataset"
	"github.com/winterpeaks/tourdw/internal/db"
	"github.com/winterpeaks/tourdw/internal/warehouse"
)

const holidayFeedJSON = `{
  "england-and-wales": {
    "division": "england-and-wales",
    "events": [
      {"title": "New Year's Day", "date": "2025-01-01", "notes": "", "bunting": true},
      {"title": "Good Friday", "date": "2025-04-18", "notes": "", "bunting": false},
      {"title": "Summer bank holiday", "date": "2025-08-25", "notes": "", "bunting": true}
    ]
  },
  "scotland": {
    "division": "scotland",
    "events": [
      {"title": "2nd January", "date": "2025-01-02", "notes": "", "bunting": true}
    ]
  }
}`

const weatherJSON = `{
  "hourly": {
    "time": ["2026-01-17T00:00", "2026-01-17T01:00"],
    "temperature_2m": [-1.4, -2.0],
    "precipitation": [0.0, 0.3],
    "snowfall": [0.0, 0.7],
    "wind_speed_10m": [20.1, 24.9],
    "wind_gusts_10m": [38.2, 44.0],
    "weather_code": [71, 73]
  }
}`

func newHolidayServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(holidayFeedJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newWeatherServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(weatherJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, holidayURL, weatherURL string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Warehouse = filepath.Join(t.TempDir(), "warehouse.sqlite")
	cfg.Pipeline.Seed = 7
	cfg.Pipeline.Routes = 3
	cfg.Pipeline.Guides = 2
	cfg.Pipeline.BatchSize = 200
	cfg.Sources.BankHolidaysURL = holidayURL
	cfg.Sources.OpenMeteoURL = weatherURL
	cfg.Sources.TimeoutSeconds = 5
	cfg.Snapshot.Dir = t.TempDir()
	cfg.Snapshot.Format = "csv"
	return cfg
}

func TestRunFullPipeline(t *testing.T) {
	cfg := testConfig(t, newHolidayServer(t).URL, newWeatherServer(t).URL)
	ctx := context.Background()

	r, err := Run(ctx, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	ds := r.Dataset
	if len(ds.Routes) != 3 || len(ds.Guides) != 2 {
		t.Errorf("dims = %d routes, %d guides", len(ds.Routes), len(ds.Guides))
	}
	// 2024 is a leap year: 366 + 365 + 365.
	if len(ds.Calendar) != 1096 {
		t.Errorf("calendar days = %d, want 1096", len(ds.Calendar))
	}
	if len(ds.Bookings) == 0 {
		t.Error("no bookings generated")
	}
	if len(ds.RouteWeeks) == 0 {
		t.Error("no weekly rollup rows")
	}
	if len(ds.WeatherDaily) != 3 {
		t.Errorf("weather days = %d, want one per route", len(ds.WeatherDaily))
	}
	if len(ds.ForecastWeeks) == 0 {
		t.Error("no forecast rows")
	}
	for _, f := range ds.ForecastWeeks {
		if f.ISOYear != 2026 {
			t.Fatalf("forecast iso_year = %d, want 2026", f.ISOYear)
		}
	}

	if r.Validation == nil || r.Validation.Failed() {
		t.Errorf("validation = %+v", r.Validation)
	}
	if !r.Loaded {
		t.Error("warehouse not loaded")
	}
	if r.Manifest == nil || len(r.Manifest.Files) != 11 {
		t.Fatalf("manifest = %+v", r.Manifest)
	}
	if len(r.Stages) == 0 {
		t.Fatal("no stages recorded")
	}

	// The loaded warehouse must hold exactly the built dataset.
	d, err := db.Open(ctx, cfg.Warehouse)
	if err != nil {
		t.Fatalf("open warehouse: %v", err)
	}
	defer d.Close()

	rows, err := d.Query(ctx, "SELECT COUNT(*) FROM fact_bookings")
	if err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	var n int64
	if !rows.Next() {
		t.Fatal("no count row")
	}
	if err := rows.Scan(&n); err != nil {
		t.Fatalf("scan: %v", err)
	}
	rows.Close()
	if int(n) != len(ds.Bookings) {
		t.Errorf("warehouse bookings = %d, dataset = %d", n, len(ds.Bookings))
	}

	seed, err := warehouse.GetMetadataValue(ctx, d, "seed")
	if err != nil {
		t.Fatalf("metadata seed: %v", err)
	}
	if seed != "7" {
		t.Errorf("metadata seed = %q, want 7", seed)
	}
}

func TestRunSkipsOptionalStages(t *testing.T) {
	weatherHit := false
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		weatherHit = true
		w.Write([]byte(weatherJSON))
	}))
	t.Cleanup(weatherSrv.Close)

	cfg := testConfig(t, newHolidayServer(t).URL, weatherSrv.URL)
	cfg.Pipeline.SkipWeather = true
	cfg.Pipeline.SkipSQL = true
	cfg.Pipeline.SkipML = true
	cfg.Snapshot.Format = "none"

	r, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if weatherHit {
		t.Error("weather endpoint called despite skip_weather")
	}
	if len(r.Dataset.WeatherDaily) != 0 {
		t.Error("weather rows built despite skip_weather")
	}
	if len(r.Dataset.ForecastWeeks) != 0 {
		t.Error("forecast built despite skip_ml")
	}
	if r.Loaded {
		t.Error("warehouse loaded despite skip_sql")
	}
	if r.Manifest != nil {
		t.Error("snapshot written despite format none")
	}
	if _, err := os.Stat(cfg.Warehouse); !os.IsNotExist(err) {
		t.Errorf("warehouse file should not exist, stat err = %v", err)
	}

	for _, s := range r.Stages {
		switch s.Name {
		case "API: weather (UKMO)", "ML: 2026 weekly forecast", "SQL: load warehouse":
			t.Errorf("stage %q ran despite skip flag", s.Name)
		}
	}
}

func TestRunAbortsOnValidationFailure(t *testing.T) {
	cfg := testConfig(t, newHolidayServer(t).URL, newWeatherServer(t).URL)
	// A calendar entirely after the booking window yields zero bookings,
	// which the core-tables check rejects.
	cfg.Pipeline.StartDate = "2026-01-01"
	cfg.Pipeline.EndDate = "2026-12-31"
	cfg.Pipeline.SkipWeather = true

	r, err := Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if r.Validation == nil || !r.Validation.Failed() {
		t.Errorf("validation report = %+v", r.Validation)
	}
	if r.Loaded {
		t.Error("warehouse loaded after failed validation")
	}
	if _, statErr := os.Stat(cfg.Warehouse); !os.IsNotExist(statErr) {
		t.Error("warehouse file written after failed validation")
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	cfg := testConfig(t, newHolidayServer(t).URL, newWeatherServer(t).URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := Run(ctx, cfg)
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(r.Stages) != 0 {
		t.Errorf("stages ran after cancellation: %v", r.Stages)
	}
}

func TestRunRefusesSecondLoadWithoutDrop(t *testing.T) {
	cfg := testConfig(t, newHolidayServer(t).URL, newWeatherServer(t).URL)
	cfg.Pipeline.SkipWeather = true
	cfg.Snapshot.Format = "none"
	ctx := context.Background()

	if _, err := Run(ctx, cfg); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := Run(ctx, cfg); err == nil {
		t.Fatal("second run should refuse to overwrite the warehouse")
	}

	cfg.Pipeline.DropExisting = true
	r, err := Run(ctx, cfg)
	if err != nil {
		t.Fatalf("run with drop_existing: %v", err)
	}
	if !r.Loaded {
		t.Error("warehouse not reloaded")
	}
}

func TestCalendarBetween(t *testing.T) {
	days := []dataset.CalendarDay{
		{Date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	got := calendarBetween(days,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Date.Year() != 2024 || got[1].Date.Year() != 2025 {
		t.Errorf("window = %v .. %v", got[0].Date, got[1].Date)
	}
}

func TestRowCounts(t *testing.T) {
	ds := &dataset.Dataset{
		Routes:   make([]dataset.Route, 4),
		Bookings: make([]dataset.Booking, 9),
	}
	counts := RowCounts(ds)
	if counts["dim_route"] != 4 {
		t.Errorf("dim_route = %d, want 4", counts["dim_route"])
	}
	if counts["fact_bookings"] != 9 {
		t.Errorf("fact_bookings = %d, want 9", counts["fact_bookings"])
	}
	if counts["fact_forecast_week_2026"] != 0 {
		t.Errorf("fact_forecast_week_2026 = %d, want 0", counts["fact_forecast_week_2026"])
	}
	if len(counts) != 11 {
		t.Errorf("len(counts) = %d, want 11", len(counts))
	}
}
