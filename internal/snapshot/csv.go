package snapshot

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/winterpeaks/tourdw/internal/dataset"
)

// tableExport renders one dataset table in either snapshot format.
// File stems follow the upstream pipeline's naming, so fact files carry
// the covered year range.
type tableExport struct {
	table   string
	stem    string
	rows    int64
	csv     func() ([]byte, error)
	parquet func() ([]byte, error)
}

func export[T any](table, stem string, rows []T, header []string, render func(T) []string) tableExport {
	return tableExport{
		table:   table,
		stem:    stem,
		rows:    int64(len(rows)),
		csv:     func() ([]byte, error) { return csvBytes(header, rows, render) },
		parquet: func() ([]byte, error) { return parquetBytes(rows) },
	}
}

func exports(ds *dataset.Dataset) []tableExport {
	return []tableExport{
		export("dim_route", "dim_route", ds.Routes, routeHeader, renderRouteCSV),
		export("dim_guide", "dim_guide", ds.Guides, guideHeader, renderGuideCSV),
		export("dim_date", "dim_date", ds.Calendar, dateHeader, renderDateCSV),
		export("dim_bank_holiday", "dim_bank_holiday", ds.BankHolidays, holidayHeader, renderHolidayCSV),
		export("bridge_bank_holiday_date", "bridge_bank_holiday_date", ds.HolidayBridge, bridgeHeader, renderBridgeCSV),
		export("dim_region_division", "dim_region_division", ds.RegionDivisions, regionDivisionHeader, renderRegionDivisionCSV),
		export("weather_daily_ukmo", "weather_daily_ukmo", ds.WeatherDaily, weatherHeader, renderWeatherCSV),
		export("fact_bookings", "fact_bookings_2024_2025", ds.Bookings, bookingHeader, renderBookingCSV),
		export("fact_route_day", "fact_route_day_2024_2025", ds.RouteDays, routeDayHeader, renderRouteDayCSV),
		export("fact_route_week", "fact_route_week_2024_2025", ds.RouteWeeks, routeWeekHeader, renderRouteWeekCSV),
		export("fact_forecast_week_2026", "fact_forecast_week_2026", ds.ForecastWeeks, forecastHeader, renderForecastCSV),
	}
}

func csvBytes[T any](header []string, rows []T, render func(T) []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(render(row)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	routeHeader = []string{"route_id", "route_name", "region", "gpx_path", "distance_km",
		"duration_hours", "difficulty", "route_lat", "route_lon"}
	guideHeader = []string{"guide_id", "guide_name", "email", "phone", "bio"}
	dateHeader  = []string{"date", "date_key", "year", "quarter", "month", "month_name",
		"day", "day_name", "iso_year", "iso_week", "iso_day", "is_weekend", "season",
		"is_bank_holiday_any", "is_bank_holiday_england_wales", "is_bank_holiday_scotland",
		"is_bank_holiday_northern_ireland"}
	holidayHeader        = []string{"bank_holiday_id", "date", "division", "title", "notes", "bunting"}
	bridgeHeader         = []string{"date", "division", "bank_holiday_id"}
	regionDivisionHeader = []string{"region", "division"}
	weatherHeader        = []string{"route_id", "date", "temp_mean", "temp_min", "temp_max",
		"precip_sum", "snowfall_sum", "wind_speed_max", "wind_gusts_max", "weather_code_mode"}
	bookingHeader = []string{"booking_id", "booking_date", "date_key", "route_id", "region",
		"guide_id", "party_size", "difficulty", "duration_hours", "discount_flag", "discount_pct",
		"price_per_person_ex_vat", "sales_ex_vat", "vat_amount", "sales_inc_vat", "staff_cost",
		"margin_amount", "margin_pct", "season", "is_weekend", "is_bank_holiday", "holiday_division"}
	routeDayHeader = []string{"date_key", "date", "year", "quarter", "month", "month_name",
		"iso_year", "iso_week", "day_name", "is_weekend", "season", "route_id", "region",
		"difficulty", "distance_km", "duration_hours", "route_lat", "route_lon", "bookings_count",
		"party_size_total", "party_size_avg", "discount_bookings", "discount_rate", "sales_ex_vat",
		"vat_amount", "sales_inc_vat", "staff_cost", "margin_amount", "margin_pct_weighted",
		"is_bank_holiday_england_wales", "is_bank_holiday_scotland",
		"is_bank_holiday_northern_ireland", "is_bank_holiday_any"}
	routeWeekHeader = []string{"iso_year", "iso_week", "route_id", "region", "bookings_count",
		"party_size_total", "sales_ex_vat", "vat_amount", "sales_inc_vat", "staff_cost",
		"margin_amount", "discount_bookings", "bank_holiday_days_any", "weekend_days",
		"discount_rate", "margin_pct_weighted", "difficulty", "distance_km", "duration_hours",
		"week_start"}
	forecastHeader = []string{"iso_year", "iso_week", "weekend_days", "bank_holiday_days_any",
		"week_start", "route_id", "region", "difficulty", "distance_km", "duration_hours",
		"predicted_bookings_count", "prediction_version", "year"}
)

func renderRouteCSV(r dataset.Route) []string {
	return []string{
		csvInt(r.RouteID), r.RouteName, r.Region, r.GPXPath, csvFloat(r.DistanceKM),
		csvFloat(r.DurationHours), r.Difficulty, csvFloat(r.RouteLat), csvFloat(r.RouteLon),
	}
}

func renderGuideCSV(g dataset.Guide) []string {
	return []string{csvInt(g.GuideID), g.GuideName, g.Email, g.Phone, g.Bio}
}

func renderDateCSV(d dataset.CalendarDay) []string {
	return []string{
		csvDate(d.Date), csvInt(d.DateKey), csvInt(d.Year), csvInt(d.Quarter), csvInt(d.Month),
		d.MonthName, csvInt(d.Day), d.DayName, csvInt(d.ISOYear), csvInt(d.ISOWeek),
		csvInt(d.ISODay), csvBool(d.IsWeekend), d.Season, csvBool(d.IsBankHolidayAny),
		csvBool(d.IsBankHolidayEnglandWales), csvBool(d.IsBankHolidayScotland),
		csvBool(d.IsBankHolidayNorthernIreland),
	}
}

func renderHolidayCSV(h dataset.BankHoliday) []string {
	return []string{
		csvInt64(h.BankHolidayID), csvDate(h.Date), h.Division, h.Title, h.Notes, csvBool(h.Bunting),
	}
}

func renderBridgeCSV(b dataset.HolidayDate) []string {
	return []string{csvDate(b.Date), b.Division, csvInt64(b.BankHolidayID)}
}

func renderRegionDivisionCSV(r dataset.RegionDivision) []string {
	return []string{r.Region, r.Division}
}

func renderWeatherCSV(w dataset.WeatherDay) []string {
	return []string{
		csvInt(w.RouteID), csvDate(w.Date), csvFloat(w.TempMean), csvFloat(w.TempMin),
		csvFloat(w.TempMax), csvFloat(w.PrecipSum), csvFloat(w.SnowfallSum),
		csvFloat(w.WindSpeedMax), csvFloat(w.WindGustsMax), csvInt(w.WeatherCodeMode),
	}
}

func renderBookingCSV(b dataset.Booking) []string {
	return []string{
		csvInt(b.BookingID), csvDate(b.BookingDate), csvInt(b.DateKey), csvInt(b.RouteID),
		b.Region, csvInt(b.GuideID), csvInt(b.PartySize), b.Difficulty, csvFloat(b.DurationHours),
		csvBool(b.DiscountFlag), csvFloat(b.DiscountPct), csvFloat(b.PricePerPersonExVAT),
		csvFloat(b.SalesExVAT), csvFloat(b.VATAmount), csvFloat(b.SalesIncVAT),
		csvFloat(b.StaffCost), csvFloat(b.MarginAmount), csvFloat(b.MarginPct), b.Season,
		csvBool(b.IsWeekend), csvBool(b.IsBankHoliday), b.HolidayDivision,
	}
}

func renderRouteDayCSV(d dataset.RouteDay) []string {
	return []string{
		csvInt(d.DateKey), csvDate(d.Date), csvInt(d.Year), csvInt(d.Quarter), csvInt(d.Month),
		d.MonthName, csvInt(d.ISOYear), csvInt(d.ISOWeek), d.DayName, csvBool(d.IsWeekend),
		d.Season, csvInt(d.RouteID), d.Region, d.Difficulty, csvFloat(d.DistanceKM),
		csvFloat(d.DurationHours), csvFloat(d.RouteLat), csvFloat(d.RouteLon),
		csvInt(d.BookingsCount), csvInt(d.PartySizeTotal), csvFloat(d.PartySizeAvg),
		csvInt(d.DiscountBookings), csvFloat(d.DiscountRate), csvFloat(d.SalesExVAT),
		csvFloat(d.VATAmount), csvFloat(d.SalesIncVAT), csvFloat(d.StaffCost),
		csvFloat(d.MarginAmount), csvFloatPtr(d.MarginPctWeighted),
		csvBool(d.IsBankHolidayEnglandWales), csvBool(d.IsBankHolidayScotland),
		csvBool(d.IsBankHolidayNorthernIreland), csvBool(d.IsBankHolidayAny),
	}
}

func renderRouteWeekCSV(w dataset.RouteWeek) []string {
	return []string{
		csvInt(w.ISOYear), csvInt(w.ISOWeek), csvInt(w.RouteID), w.Region,
		csvInt(w.BookingsCount), csvInt(w.PartySizeTotal), csvFloat(w.SalesExVAT),
		csvFloat(w.VATAmount), csvFloat(w.SalesIncVAT), csvFloat(w.StaffCost),
		csvFloat(w.MarginAmount), csvInt(w.DiscountBookings), csvInt(w.BankHolidayDaysAny),
		csvInt(w.WeekendDays), csvFloatPtr(w.DiscountRate), csvFloatPtr(w.MarginPctWeighted),
		w.Difficulty, csvFloat(w.DistanceKM), csvFloat(w.DurationHours), csvDate(w.WeekStart),
	}
}

func renderForecastCSV(f dataset.ForecastWeek) []string {
	return []string{
		csvInt(f.ISOYear), csvInt(f.ISOWeek), csvInt(f.WeekendDays),
		csvInt(f.BankHolidayDaysAny), csvDate(f.WeekStart), csvInt(f.RouteID), f.Region,
		f.Difficulty, csvFloat(f.DistanceKM), csvFloat(f.DurationHours),
		csvFloat(f.PredictedBookingsCount), f.PredictionVersion, csvInt(f.Year),
	}
}

func csvInt(v int) string {
	return strconv.Itoa(v)
}

func csvInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

func csvFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// csvFloatPtr renders nil as an empty cell, matching how a missing
// value round-trips through CSV tooling.
func csvFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return csvFloat(*v)
}

func csvBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func csvDate(t time.Time) string {
	return t.Format("2006-01-02")
}
