//-------------------------------------------------------------------------
//
// Winter Peaks Tour Warehouse
//
// Portions copyright (c) 2025 - 2026, Winter Peaks Outdoors Ltd.
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package warehouse persists a built dataset into the star schema and
// records load metadata. Inserts are literal multi-row VALUES batches,
// which keeps the load path identical on Postgres and SQLite.
package warehouse

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/winterpeaks/tourdw/internal/dataset"
	"github.com/winterpeaks/tourdw/internal/db"
	"github.com/winterpeaks/tourdw/internal/logging"
)

// Loader bulk-inserts dataset rows into the warehouse.
type Loader struct {
	db  db.DB
	cfg BatchConfig
}

// NewLoader creates a loader with default batch configuration.
func NewLoader(d db.DB) *Loader {
	return &Loader{db: d, cfg: DefaultBatchConfig()}
}

// SetBatchConfig overrides the default batching.
func (l *Loader) SetBatchConfig(cfg BatchConfig) {
	l.cfg = cfg
}

// LoadDataset creates the star schema and loads every table, dimensions
// before facts.
func (l *Loader) LoadDataset(ctx context.Context, ds *dataset.Dataset) error {
	if err := CreateSchema(ctx, l.db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if err := loadTable(ctx, l, "dim_route", routeColumns, ds.Routes, renderRoute); err != nil {
		return err
	}
	if err := loadTable(ctx, l, "dim_guide", guideColumns, ds.Guides, renderGuide); err != nil {
		return err
	}
	if err := loadTable(ctx, l, "dim_date", dateColumns, ds.Calendar, renderCalendarDay); err != nil {
		return err
	}
	if err := loadTable(ctx, l, "dim_bank_holiday", holidayColumns, ds.BankHolidays, renderBankHoliday); err != nil {
		return err
	}
	if err := loadTable(ctx, l, "bridge_bank_holiday_date", bridgeColumns, ds.HolidayBridge, renderHolidayDate); err != nil {
		return err
	}
	if err := loadTable(ctx, l, "dim_region_division", regionDivisionColumns, ds.RegionDivisions, renderRegionDivision); err != nil {
		return err
	}
	if err := loadTable(ctx, l, "weather_daily_ukmo", weatherColumns, ds.WeatherDaily, renderWeatherDay); err != nil {
		return err
	}
	if err := loadTable(ctx, l, "fact_bookings", bookingColumns, ds.Bookings, renderBooking); err != nil {
		return err
	}
	if err := loadTable(ctx, l, "fact_route_day", routeDayColumns, ds.RouteDays, renderRouteDay); err != nil {
		return err
	}
	if err := loadTable(ctx, l, "fact_route_week", routeWeekColumns, ds.RouteWeeks, renderRouteWeek); err != nil {
		return err
	}
	if err := loadTable(ctx, l, "fact_forecast_week_2026", forecastColumns, ds.ForecastWeeks, renderForecastWeek); err != nil {
		return err
	}

	return nil
}

// loadTable renders rows into VALUES tuples and inserts them in batches.
func loadTable[T any](ctx context.Context, l *Loader, table, columns string, rows []T, render func(T) string) error {
	if len(rows) == 0 {
		logging.Debug().Str("table", table).Msg("No rows to load")
		return nil
	}

	logging.Info().Str("table", table).Int("rows", len(rows)).Msg("Loading table")
	progress := newProgressReporter(table, int64(len(rows)), l.cfg.ProgressInterval)

	batch := make([]string, 0, l.cfg.BatchSize)
	for _, row := range rows {
		batch = append(batch, render(row))

		if len(batch) >= l.cfg.BatchSize {
			if err := l.insertBatch(ctx, table, columns, batch); err != nil {
				return err
			}
			progress.Update(int64(len(batch)))
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := l.insertBatch(ctx, table, columns, batch); err != nil {
			return err
		}
		progress.Update(int64(len(batch)))
	}

	progress.Done()
	return nil
}

func (l *Loader) insertBatch(ctx context.Context, table, columns string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	stmt := fmt.Sprintf("INSERT INTO %s %s VALUES %s", table, columns, strings.Join(values, ", "))
	if err := l.db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

const (
	routeColumns          = "(route_id, route_name, region, gpx_path, distance_km, duration_hours, difficulty, route_lat, route_lon)"
	guideColumns          = "(guide_id, guide_name, email, phone, bio)"
	dateColumns           = "(date_key, date, year, quarter, month, month_name, day, day_name, iso_year, iso_week, iso_day, is_weekend, season, is_bank_holiday_any, is_bank_holiday_england_wales, is_bank_holiday_scotland, is_bank_holiday_northern_ireland)"
	holidayColumns        = "(bank_holiday_id, date, division, title, notes, bunting)"
	bridgeColumns         = "(date_key, date, division, bank_holiday_id)"
	regionDivisionColumns = "(region, division)"
	weatherColumns        = "(route_id, date, temp_mean, temp_min, temp_max, precip_sum, snowfall_sum, wind_speed_max, wind_gusts_max, weather_code_mode)"
	bookingColumns        = "(booking_id, booking_date, date_key, route_id, region, guide_id, party_size, difficulty, duration_hours, discount_flag, discount_pct, price_per_person_ex_vat, sales_ex_vat, vat_amount, sales_inc_vat, staff_cost, margin_amount, margin_pct, season, is_weekend, is_bank_holiday, holiday_division)"
	routeDayColumns       = "(date_key, date, year, quarter, month, month_name, iso_year, iso_week, day_name, is_weekend, season, route_id, region, difficulty, distance_km, duration_hours, route_lat, route_lon, bookings_count, party_size_total, party_size_avg, discount_bookings, discount_rate, sales_ex_vat, vat_amount, sales_inc_vat, staff_cost, margin_amount, margin_pct_weighted, is_bank_holiday_england_wales, is_bank_holiday_scotland, is_bank_holiday_northern_ireland, is_bank_holiday_any)"
	routeWeekColumns      = "(iso_year, iso_week, route_id, region, bookings_count, party_size_total, sales_ex_vat, vat_amount, sales_inc_vat, staff_cost, margin_amount, discount_bookings, bank_holiday_days_any, weekend_days, discount_rate, margin_pct_weighted, difficulty, distance_km, duration_hours, week_start)"
	forecastColumns       = "(iso_year, iso_week, weekend_days, bank_holiday_days_any, week_start, route_id, region, difficulty, distance_km, duration_hours, predicted_bookings_count, prediction_version, year)"
)

func renderRoute(r dataset.Route) string {
	return tuple(
		sqlInt(r.RouteID),
		sqlString(r.RouteName),
		sqlString(r.Region),
		sqlString(r.GPXPath),
		sqlFloat(r.DistanceKM),
		sqlFloat(r.DurationHours),
		sqlString(r.Difficulty),
		sqlFloat(r.RouteLat),
		sqlFloat(r.RouteLon),
	)
}

func renderGuide(g dataset.Guide) string {
	return tuple(
		sqlInt(g.GuideID),
		sqlString(g.GuideName),
		sqlString(g.Email),
		sqlString(g.Phone),
		sqlString(g.Bio),
	)
}

func renderCalendarDay(d dataset.CalendarDay) string {
	return tuple(
		sqlInt(d.DateKey),
		sqlDate(d.Date),
		sqlInt(d.Year),
		sqlInt(d.Quarter),
		sqlInt(d.Month),
		sqlString(d.MonthName),
		sqlInt(d.Day),
		sqlString(d.DayName),
		sqlInt(d.ISOYear),
		sqlInt(d.ISOWeek),
		sqlInt(d.ISODay),
		sqlBool(d.IsWeekend),
		sqlString(d.Season),
		sqlBool(d.IsBankHolidayAny),
		sqlBool(d.IsBankHolidayEnglandWales),
		sqlBool(d.IsBankHolidayScotland),
		sqlBool(d.IsBankHolidayNorthernIreland),
	)
}

func renderBankHoliday(h dataset.BankHoliday) string {
	return tuple(
		sqlInt64(h.BankHolidayID),
		sqlDate(h.Date),
		sqlString(h.Division),
		sqlString(h.Title),
		sqlString(h.Notes),
		sqlBool(h.Bunting),
	)
}

func renderHolidayDate(h dataset.HolidayDate) string {
	return tuple(
		sqlInt(dataset.DateKey(h.Date)),
		sqlDate(h.Date),
		sqlString(h.Division),
		sqlInt64(h.BankHolidayID),
	)
}

func renderRegionDivision(r dataset.RegionDivision) string {
	return tuple(
		sqlString(r.Region),
		sqlString(r.Division),
	)
}

func renderWeatherDay(w dataset.WeatherDay) string {
	return tuple(
		sqlInt(w.RouteID),
		sqlDate(w.Date),
		sqlFloat(w.TempMean),
		sqlFloat(w.TempMin),
		sqlFloat(w.TempMax),
		sqlFloat(w.PrecipSum),
		sqlFloat(w.SnowfallSum),
		sqlFloat(w.WindSpeedMax),
		sqlFloat(w.WindGustsMax),
		sqlInt(w.WeatherCodeMode),
	)
}

func renderBooking(b dataset.Booking) string {
	return tuple(
		sqlInt(b.BookingID),
		sqlDate(b.BookingDate),
		sqlInt(b.DateKey),
		sqlInt(b.RouteID),
		sqlString(b.Region),
		sqlInt(b.GuideID),
		sqlInt(b.PartySize),
		sqlString(b.Difficulty),
		sqlFloat(b.DurationHours),
		sqlBool(b.DiscountFlag),
		sqlFloat(b.DiscountPct),
		sqlFloat(b.PricePerPersonExVAT),
		sqlFloat(b.SalesExVAT),
		sqlFloat(b.VATAmount),
		sqlFloat(b.SalesIncVAT),
		sqlFloat(b.StaffCost),
		sqlFloat(b.MarginAmount),
		sqlFloat(b.MarginPct),
		sqlString(b.Season),
		sqlBool(b.IsWeekend),
		sqlBool(b.IsBankHoliday),
		sqlString(b.HolidayDivision),
	)
}

func renderRouteDay(d dataset.RouteDay) string {
	return tuple(
		sqlInt(d.DateKey),
		sqlDate(d.Date),
		sqlInt(d.Year),
		sqlInt(d.Quarter),
		sqlInt(d.Month),
		sqlString(d.MonthName),
		sqlInt(d.ISOYear),
		sqlInt(d.ISOWeek),
		sqlString(d.DayName),
		sqlBool(d.IsWeekend),
		sqlString(d.Season),
		sqlInt(d.RouteID),
		sqlString(d.Region),
		sqlString(d.Difficulty),
		sqlFloat(d.DistanceKM),
		sqlFloat(d.DurationHours),
		sqlFloat(d.RouteLat),
		sqlFloat(d.RouteLon),
		sqlInt(d.BookingsCount),
		sqlInt(d.PartySizeTotal),
		sqlFloat(d.PartySizeAvg),
		sqlInt(d.DiscountBookings),
		sqlFloat(d.DiscountRate),
		sqlFloat(d.SalesExVAT),
		sqlFloat(d.VATAmount),
		sqlFloat(d.SalesIncVAT),
		sqlFloat(d.StaffCost),
		sqlFloat(d.MarginAmount),
		sqlFloatPtr(d.MarginPctWeighted),
		sqlBool(d.IsBankHolidayEnglandWales),
		sqlBool(d.IsBankHolidayScotland),
		sqlBool(d.IsBankHolidayNorthernIreland),
		sqlBool(d.IsBankHolidayAny),
	)
}

func renderRouteWeek(w dataset.RouteWeek) string {
	return tuple(
		sqlInt(w.ISOYear),
		sqlInt(w.ISOWeek),
		sqlInt(w.RouteID),
		sqlString(w.Region),
		sqlInt(w.BookingsCount),
		sqlInt(w.PartySizeTotal),
		sqlFloat(w.SalesExVAT),
		sqlFloat(w.VATAmount),
		sqlFloat(w.SalesIncVAT),
		sqlFloat(w.StaffCost),
		sqlFloat(w.MarginAmount),
		sqlInt(w.DiscountBookings),
		sqlInt(w.BankHolidayDaysAny),
		sqlInt(w.WeekendDays),
		sqlFloatPtr(w.DiscountRate),
		sqlFloatPtr(w.MarginPctWeighted),
		sqlString(w.Difficulty),
		sqlFloat(w.DistanceKM),
		sqlFloat(w.DurationHours),
		sqlDate(w.WeekStart),
	)
}

func renderForecastWeek(f dataset.ForecastWeek) string {
	return tuple(
		sqlInt(f.ISOYear),
		sqlInt(f.ISOWeek),
		sqlInt(f.WeekendDays),
		sqlInt(f.BankHolidayDaysAny),
		sqlDate(f.WeekStart),
		sqlInt(f.RouteID),
		sqlString(f.Region),
		sqlString(f.Difficulty),
		sqlFloat(f.DistanceKM),
		sqlFloat(f.DurationHours),
		sqlFloat(f.PredictedBookingsCount),
		sqlString(f.PredictionVersion),
		sqlInt(f.Year),
	)
}

func tuple(fields ...string) string {
	return "(" + strings.Join(fields, ", ") + ")"
}

func sqlString(s string) string {
	return "'" + escapeSingleQuote(s) + "'"
}

func sqlDate(t time.Time) string {
	return "'" + t.Format("2006-01-02") + "'"
}

func sqlBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func sqlInt(i int) string {
	return strconv.Itoa(i)
}

func sqlInt64(i int64) string {
	return strconv.FormatInt(i, 10)
}

func sqlFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func sqlFloatPtr(f *float64) string {
	if f == nil {
		return "NULL"
	}
	return sqlFloat(*f)
}

func escapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
