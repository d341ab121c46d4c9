// Package dataset holds the in-memory tables produced by a pipeline build:
// dimensions, the bookings fact, the derived rollups, and the 2026 weekly
// forecast. The warehouse and snapshot layers persist these rows; the
// builders in this package derive them.
package dataset

import "time"

// Route is one guided tour route (dim_route).
type Route struct {
	RouteID       int     `parquet:"route_id"`
	RouteName     string  `parquet:"route_name"`
	Region        string  `parquet:"region"`
	GPXPath       string  `parquet:"gpx_path"`
	DistanceKM    float64 `parquet:"distance_km"`
	DurationHours float64 `parquet:"duration_hours"`
	Difficulty    string  `parquet:"difficulty"`
	RouteLat      float64 `parquet:"route_lat"`
	RouteLon      float64 `parquet:"route_lon"`
}

// Guide is one tour guide (dim_guide).
type Guide struct {
	GuideID   int    `parquet:"guide_id"`
	GuideName string `parquet:"guide_name"`
	Email     string `parquet:"email"`
	Phone     string `parquet:"phone"`
	Bio       string `parquet:"bio"`
}

// CalendarDay is one calendar date (dim_date). DateKey is the YYYYMMDD
// integer form of Date; the ISO fields follow ISO-8601 week numbering.
type CalendarDay struct {
	Date                         time.Time `parquet:"date"`
	DateKey                      int       `parquet:"date_key"`
	Year                         int       `parquet:"year"`
	Quarter                      int       `parquet:"quarter"`
	Month                        int       `parquet:"month"`
	MonthName                    string    `parquet:"month_name"`
	Day                          int       `parquet:"day"`
	DayName                      string    `parquet:"day_name"`
	ISOYear                      int       `parquet:"iso_year"`
	ISOWeek                      int       `parquet:"iso_week"`
	ISODay                       int       `parquet:"iso_day"`
	IsWeekend                    bool      `parquet:"is_weekend"`
	Season                       string    `parquet:"season"`
	IsBankHolidayAny             bool      `parquet:"is_bank_holiday_any"`
	IsBankHolidayEnglandWales    bool      `parquet:"is_bank_holiday_england_wales"`
	IsBankHolidayScotland        bool      `parquet:"is_bank_holiday_scotland"`
	IsBankHolidayNorthernIreland bool      `parquet:"is_bank_holiday_northern_ireland"`
}

// BankHoliday is one bank holiday event in one division (dim_bank_holiday).
// The surrogate key is deterministic across runs.
type BankHoliday struct {
	BankHolidayID int64     `parquet:"bank_holiday_id"`
	Date          time.Time `parquet:"date"`
	Division      string    `parquet:"division"`
	Title         string    `parquet:"title"`
	Notes         string    `parquet:"notes"`
	Bunting       bool      `parquet:"bunting"`
}

// HolidayDate relates calendar dates to holiday events
// (bridge_bank_holiday_date).
type HolidayDate struct {
	Date          time.Time `parquet:"date"`
	Division      string    `parquet:"division"`
	BankHolidayID int64     `parquet:"bank_holiday_id"`
}

// RegionDivision maps a tour region to its bank-holiday division
// (dim_region_division).
type RegionDivision struct {
	Region   string `parquet:"region"`
	Division string `parquet:"division"`
}

// WeatherDay is one route-day of aggregated UKMO weather
// (weather_daily_ukmo).
type WeatherDay struct {
	RouteID         int       `parquet:"route_id"`
	Date            time.Time `parquet:"date"`
	TempMean        float64   `parquet:"temp_mean"`
	TempMin         float64   `parquet:"temp_min"`
	TempMax         float64   `parquet:"temp_max"`
	PrecipSum       float64   `parquet:"precip_sum"`
	SnowfallSum     float64   `parquet:"snowfall_sum"`
	WindSpeedMax    float64   `parquet:"wind_speed_max"`
	WindGustsMax    float64   `parquet:"wind_gusts_max"`
	WeatherCodeMode int       `parquet:"weather_code_mode"`
}

// Booking is one booking event (fact_bookings). Money columns are ex-VAT
// unless named otherwise, rounded to 2dp; percentage columns to 4dp.
type Booking struct {
	BookingID           int       `parquet:"booking_id"`
	BookingDate         time.Time `parquet:"booking_date"`
	DateKey             int       `parquet:"date_key"`
	RouteID             int       `parquet:"route_id"`
	Region              string    `parquet:"region"`
	GuideID             int       `parquet:"guide_id"`
	PartySize           int       `parquet:"party_size"`
	Difficulty          string    `parquet:"difficulty"`
	DurationHours       float64   `parquet:"duration_hours"`
	DiscountFlag        bool      `parquet:"discount_flag"`
	DiscountPct         float64   `parquet:"discount_pct"`
	PricePerPersonExVAT float64   `parquet:"price_per_person_ex_vat"`
	SalesExVAT          float64   `parquet:"sales_ex_vat"`
	VATAmount           float64   `parquet:"vat_amount"`
	SalesIncVAT         float64   `parquet:"sales_inc_vat"`
	StaffCost           float64   `parquet:"staff_cost"`
	MarginAmount        float64   `parquet:"margin_amount"`
	MarginPct           float64   `parquet:"margin_pct"`
	Season              string    `parquet:"season"`
	IsWeekend           bool      `parquet:"is_weekend"`
	IsBankHoliday       bool      `parquet:"is_bank_holiday"`
	HolidayDivision     string    `parquet:"holiday_division"`
}

// RouteDay is the daily rollup at (date_key, route_id, region) grain
// (fact_route_day), carrying the calendar and route attributes used for
// slicing. MarginPctWeighted is SUM(margin)/SUM(sales), nil when the sales
// sum is zero.
type RouteDay struct {
	DateKey                      int       `parquet:"date_key"`
	Date                         time.Time `parquet:"date"`
	Year                         int       `parquet:"year"`
	Quarter                      int       `parquet:"quarter"`
	Month                        int       `parquet:"month"`
	MonthName                    string    `parquet:"month_name"`
	ISOYear                      int       `parquet:"iso_year"`
	ISOWeek                      int       `parquet:"iso_week"`
	DayName                      string    `parquet:"day_name"`
	IsWeekend                    bool      `parquet:"is_weekend"`
	Season                       string    `parquet:"season"`
	RouteID                      int       `parquet:"route_id"`
	Region                       string    `parquet:"region"`
	Difficulty                   string    `parquet:"difficulty"`
	DistanceKM                   float64   `parquet:"distance_km"`
	DurationHours                float64   `parquet:"duration_hours"`
	RouteLat                     float64   `parquet:"route_lat"`
	RouteLon                     float64   `parquet:"route_lon"`
	BookingsCount                int       `parquet:"bookings_count"`
	PartySizeTotal               int       `parquet:"party_size_total"`
	PartySizeAvg                 float64   `parquet:"party_size_avg"`
	DiscountBookings             int       `parquet:"discount_bookings"`
	DiscountRate                 float64   `parquet:"discount_rate"`
	SalesExVAT                   float64   `parquet:"sales_ex_vat"`
	VATAmount                    float64   `parquet:"vat_amount"`
	SalesIncVAT                  float64   `parquet:"sales_inc_vat"`
	StaffCost                    float64   `parquet:"staff_cost"`
	MarginAmount                 float64   `parquet:"margin_amount"`
	MarginPctWeighted            *float64  `parquet:"margin_pct_weighted,optional"`
	IsBankHolidayEnglandWales    bool      `parquet:"is_bank_holiday_england_wales"`
	IsBankHolidayScotland        bool      `parquet:"is_bank_holiday_scotland"`
	IsBankHolidayNorthernIreland bool      `parquet:"is_bank_holiday_northern_ireland"`
	IsBankHolidayAny             bool      `parquet:"is_bank_holiday_any"`
}

// RouteWeek is the weekly rollup at (iso_year, iso_week, route_id, region)
// grain (fact_route_week). BankHolidayDaysAny and WeekendDays count the
// contributing route-days carrying those flags. WeekStart is the Monday of
// the ISO week.
type RouteWeek struct {
	ISOYear            int       `parquet:"iso_year"`
	ISOWeek            int       `parquet:"iso_week"`
	RouteID            int       `parquet:"route_id"`
	Region             string    `parquet:"region"`
	BookingsCount      int       `parquet:"bookings_count"`
	PartySizeTotal     int       `parquet:"party_size_total"`
	SalesExVAT         float64   `parquet:"sales_ex_vat"`
	VATAmount          float64   `parquet:"vat_amount"`
	SalesIncVAT        float64   `parquet:"sales_inc_vat"`
	StaffCost          float64   `parquet:"staff_cost"`
	MarginAmount       float64   `parquet:"margin_amount"`
	DiscountBookings   int       `parquet:"discount_bookings"`
	BankHolidayDaysAny int       `parquet:"bank_holiday_days_any"`
	WeekendDays        int       `parquet:"weekend_days"`
	DiscountRate       *float64  `parquet:"discount_rate,optional"`
	MarginPctWeighted  *float64  `parquet:"margin_pct_weighted,optional"`
	Difficulty         string    `parquet:"difficulty"`
	DistanceKM         float64   `parquet:"distance_km"`
	DurationHours      float64   `parquet:"duration_hours"`
	WeekStart          time.Time `parquet:"week_start"`
}

// ForecastWeek is one predicted route-week for 2026
// (fact_forecast_week_2026).
type ForecastWeek struct {
	ISOYear                int       `parquet:"iso_year"`
	ISOWeek                int       `parquet:"iso_week"`
	WeekendDays            int       `parquet:"weekend_days"`
	BankHolidayDaysAny     int       `parquet:"bank_holiday_days_any"`
	WeekStart              time.Time `parquet:"week_start"`
	RouteID                int       `parquet:"route_id"`
	Region                 string    `parquet:"region"`
	Difficulty             string    `parquet:"difficulty"`
	DistanceKM             float64   `parquet:"distance_km"`
	DurationHours          float64   `parquet:"duration_hours"`
	PredictedBookingsCount float64   `parquet:"predicted_bookings_count"`
	PredictionVersion      string    `parquet:"prediction_version"`
	Year                   int       `parquet:"year"`
}

// Dataset is the full in-memory result of a pipeline build.
type Dataset struct {
	Routes          []Route
	Guides          []Guide
	Calendar        []CalendarDay
	BankHolidays    []BankHoliday
	HolidayBridge   []HolidayDate
	RegionDivisions []RegionDivision
	WeatherDaily    []WeatherDay
	Bookings        []Booking
	RouteDays       []RouteDay
	RouteWeeks      []RouteWeek
	ForecastWeeks   []ForecastWeek
}

// RoutesByID indexes routes by route_id.
func RoutesByID(routes []Route) map[int]Route {
	m := make(map[int]Route, len(routes))
	for _, r := range routes {
		m[r.RouteID] = r
	}
	return m
}

// CalendarByKey indexes calendar days by date_key.
func CalendarByKey(days []CalendarDay) map[int]CalendarDay {
	m := make(map[int]CalendarDay, len(days))
	for _, d := range days {
		m[d.DateKey] = d
	}
	return m
}

// DateKey converts a date to its YYYYMMDD integer key.
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
