package warehouse

import (
	"context"

	"github.com/winterpeaks/tourdw/internal/db"
)

// Tables lists every warehouse table in load order: dimensions first,
// then facts, so referential checks against freshly loaded dimensions
// always see complete keys.
var Tables = []string{
	"dim_route",
	"dim_guide",
	"dim_date",
	"dim_bank_holiday",
	"bridge_bank_holiday_date",
	"dim_region_division",
	"weather_daily_ukmo",
	"fact_bookings",
	"fact_route_day",
	"fact_route_week",
	"fact_forecast_week_2026",
}

// Schema SQL for the star schema. The dialect is the common subset of
// Postgres and SQLite: DOUBLE PRECISION carries REAL affinity in SQLite,
// DATE columns store ISO-8601 text there, and flag columns are INTEGER
// 0/1 on both engines. Facts carry no foreign key constraints; the
// quality checks verify referential integrity before anything is loaded.
const createSchemaSQL = `
-- Routes: the guided tour catalogue
CREATE TABLE IF NOT EXISTS dim_route (
    route_id       INTEGER PRIMARY KEY,
    route_name     TEXT NOT NULL,
    region         TEXT NOT NULL,
    gpx_path       TEXT NOT NULL,
    distance_km    DOUBLE PRECISION NOT NULL,
    duration_hours DOUBLE PRECISION NOT NULL,
    difficulty     TEXT NOT NULL,
    route_lat      DOUBLE PRECISION NOT NULL,
    route_lon      DOUBLE PRECISION NOT NULL
);

-- Guides: tour leaders referenced by bookings
CREATE TABLE IF NOT EXISTS dim_guide (
    guide_id   INTEGER PRIMARY KEY,
    guide_name TEXT NOT NULL,
    email      TEXT NOT NULL,
    phone      TEXT NOT NULL,
    bio        TEXT
);

-- Dates: one row per calendar day, ISO-8601 week numbering
CREATE TABLE IF NOT EXISTS dim_date (
    date_key                         INTEGER PRIMARY KEY,
    date                             DATE NOT NULL,
    year                             INTEGER NOT NULL,
    quarter                          INTEGER NOT NULL,
    month                            INTEGER NOT NULL,
    month_name                       TEXT NOT NULL,
    day                              INTEGER NOT NULL,
    day_name                         TEXT NOT NULL,
    iso_year                         INTEGER NOT NULL,
    iso_week                         INTEGER NOT NULL,
    iso_day                          INTEGER NOT NULL,
    is_weekend                       INTEGER NOT NULL,
    season                           TEXT NOT NULL,
    is_bank_holiday_any              INTEGER NOT NULL,
    is_bank_holiday_england_wales    INTEGER NOT NULL,
    is_bank_holiday_scotland         INTEGER NOT NULL,
    is_bank_holiday_northern_ireland INTEGER NOT NULL
);

-- Bank holidays: one row per GOV.UK event per division
CREATE TABLE IF NOT EXISTS dim_bank_holiday (
    bank_holiday_id BIGINT PRIMARY KEY,
    date            DATE NOT NULL,
    division        TEXT NOT NULL,
    title           TEXT NOT NULL,
    notes           TEXT,
    bunting         INTEGER NOT NULL
);

-- Bridge between calendar dates and bank holiday events
CREATE TABLE IF NOT EXISTS bridge_bank_holiday_date (
    date_key        INTEGER NOT NULL,
    date            DATE NOT NULL,
    division        TEXT NOT NULL,
    bank_holiday_id BIGINT NOT NULL,
    PRIMARY KEY (date_key, bank_holiday_id)
);

-- Region to bank-holiday division mapping
CREATE TABLE IF NOT EXISTS dim_region_division (
    region   TEXT PRIMARY KEY,
    division TEXT NOT NULL
);

-- Daily weather per route, aggregated from hourly UKMO forecasts
CREATE TABLE IF NOT EXISTS weather_daily_ukmo (
    route_id          INTEGER NOT NULL,
    date              DATE NOT NULL,
    temp_mean         DOUBLE PRECISION NOT NULL,
    temp_min          DOUBLE PRECISION NOT NULL,
    temp_max          DOUBLE PRECISION NOT NULL,
    precip_sum        DOUBLE PRECISION NOT NULL,
    snowfall_sum      DOUBLE PRECISION NOT NULL,
    wind_speed_max    DOUBLE PRECISION NOT NULL,
    wind_gusts_max    DOUBLE PRECISION NOT NULL,
    weather_code_mode INTEGER NOT NULL,
    PRIMARY KEY (route_id, date)
);

-- Bookings: one row per booking event, money ex-VAT unless named otherwise
CREATE TABLE IF NOT EXISTS fact_bookings (
    booking_id              INTEGER PRIMARY KEY,
    booking_date            DATE NOT NULL,
    date_key                INTEGER NOT NULL,
    route_id                INTEGER NOT NULL,
    region                  TEXT NOT NULL,
    guide_id                INTEGER NOT NULL,
    party_size              INTEGER NOT NULL,
    difficulty              TEXT NOT NULL,
    duration_hours          DOUBLE PRECISION NOT NULL,
    discount_flag           INTEGER NOT NULL,
    discount_pct            DOUBLE PRECISION NOT NULL,
    price_per_person_ex_vat DOUBLE PRECISION NOT NULL,
    sales_ex_vat            DOUBLE PRECISION NOT NULL,
    vat_amount              DOUBLE PRECISION NOT NULL,
    sales_inc_vat           DOUBLE PRECISION NOT NULL,
    staff_cost              DOUBLE PRECISION NOT NULL,
    margin_amount           DOUBLE PRECISION NOT NULL,
    margin_pct              DOUBLE PRECISION NOT NULL,
    season                  TEXT NOT NULL,
    is_weekend              INTEGER NOT NULL,
    is_bank_holiday         INTEGER NOT NULL,
    holiday_division        TEXT
);

-- Daily rollup at (date_key, route_id) grain
CREATE TABLE IF NOT EXISTS fact_route_day (
    date_key                         INTEGER NOT NULL,
    date                             DATE NOT NULL,
    year                             INTEGER NOT NULL,
    quarter                          INTEGER NOT NULL,
    month                            INTEGER NOT NULL,
    month_name                       TEXT NOT NULL,
    iso_year                         INTEGER NOT NULL,
    iso_week                         INTEGER NOT NULL,
    day_name                         TEXT NOT NULL,
    is_weekend                       INTEGER NOT NULL,
    season                           TEXT NOT NULL,
    route_id                         INTEGER NOT NULL,
    region                           TEXT NOT NULL,
    difficulty                       TEXT NOT NULL,
    distance_km                      DOUBLE PRECISION NOT NULL,
    duration_hours                   DOUBLE PRECISION NOT NULL,
    route_lat                        DOUBLE PRECISION NOT NULL,
    route_lon                        DOUBLE PRECISION NOT NULL,
    bookings_count                   INTEGER NOT NULL,
    party_size_total                 INTEGER NOT NULL,
    party_size_avg                   DOUBLE PRECISION NOT NULL,
    discount_bookings                INTEGER NOT NULL,
    discount_rate                    DOUBLE PRECISION NOT NULL,
    sales_ex_vat                     DOUBLE PRECISION NOT NULL,
    vat_amount                       DOUBLE PRECISION NOT NULL,
    sales_inc_vat                    DOUBLE PRECISION NOT NULL,
    staff_cost                       DOUBLE PRECISION NOT NULL,
    margin_amount                    DOUBLE PRECISION NOT NULL,
    margin_pct_weighted              DOUBLE PRECISION,
    is_bank_holiday_england_wales    INTEGER NOT NULL,
    is_bank_holiday_scotland         INTEGER NOT NULL,
    is_bank_holiday_northern_ireland INTEGER NOT NULL,
    is_bank_holiday_any              INTEGER NOT NULL,
    PRIMARY KEY (date_key, route_id)
);

-- Weekly rollup at (iso_year, iso_week, route_id) grain
CREATE TABLE IF NOT EXISTS fact_route_week (
    iso_year              INTEGER NOT NULL,
    iso_week              INTEGER NOT NULL,
    route_id              INTEGER NOT NULL,
    region                TEXT NOT NULL,
    bookings_count        INTEGER NOT NULL,
    party_size_total      INTEGER NOT NULL,
    sales_ex_vat          DOUBLE PRECISION NOT NULL,
    vat_amount            DOUBLE PRECISION NOT NULL,
    sales_inc_vat         DOUBLE PRECISION NOT NULL,
    staff_cost            DOUBLE PRECISION NOT NULL,
    margin_amount         DOUBLE PRECISION NOT NULL,
    discount_bookings     INTEGER NOT NULL,
    bank_holiday_days_any INTEGER NOT NULL,
    weekend_days          INTEGER NOT NULL,
    discount_rate         DOUBLE PRECISION,
    margin_pct_weighted   DOUBLE PRECISION,
    difficulty            TEXT NOT NULL,
    distance_km           DOUBLE PRECISION NOT NULL,
    duration_hours        DOUBLE PRECISION NOT NULL,
    week_start            DATE NOT NULL,
    PRIMARY KEY (iso_year, iso_week, route_id)
);

-- Seasonal-naive weekly forecast for 2026
CREATE TABLE IF NOT EXISTS fact_forecast_week_2026 (
    iso_year                 INTEGER NOT NULL,
    iso_week                 INTEGER NOT NULL,
    weekend_days             INTEGER NOT NULL,
    bank_holiday_days_any    INTEGER NOT NULL,
    week_start               DATE NOT NULL,
    route_id                 INTEGER NOT NULL,
    region                   TEXT NOT NULL,
    difficulty               TEXT NOT NULL,
    distance_km              DOUBLE PRECISION NOT NULL,
    duration_hours           DOUBLE PRECISION NOT NULL,
    predicted_bookings_count DOUBLE PRECISION NOT NULL,
    prediction_version       TEXT NOT NULL,
    year                     INTEGER NOT NULL,
    PRIMARY KEY (iso_year, iso_week, route_id)
);

-- Load metadata written after a successful build
CREATE TABLE IF NOT EXISTS warehouse_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fact_bookings_date_key ON fact_bookings(date_key);
CREATE INDEX IF NOT EXISTS idx_fact_bookings_route_id ON fact_bookings(route_id);
CREATE INDEX IF NOT EXISTS idx_fact_bookings_guide_id ON fact_bookings(guide_id);
CREATE INDEX IF NOT EXISTS idx_fact_route_day_route_id ON fact_route_day(route_id);
CREATE INDEX IF NOT EXISTS idx_fact_route_day_iso ON fact_route_day(iso_year, iso_week);
CREATE INDEX IF NOT EXISTS idx_fact_route_week_route_id ON fact_route_week(route_id);
CREATE INDEX IF NOT EXISTS idx_fact_route_week_region ON fact_route_week(region);
CREATE INDEX IF NOT EXISTS idx_fact_forecast_route_id ON fact_forecast_week_2026(route_id);
CREATE INDEX IF NOT EXISTS idx_weather_daily_date ON weather_daily_ukmo(date);
`

// Drop schema SQL. Facts drop before the dimensions they reference.
const dropSchemaSQL = `
DROP TABLE IF EXISTS warehouse_metadata;
DROP TABLE IF EXISTS fact_forecast_week_2026;
DROP TABLE IF EXISTS fact_route_week;
DROP TABLE IF EXISTS fact_route_day;
DROP TABLE IF EXISTS fact_bookings;
DROP TABLE IF EXISTS weather_daily_ukmo;
DROP TABLE IF EXISTS dim_region_division;
DROP TABLE IF EXISTS bridge_bank_holiday_date;
DROP TABLE IF EXISTS dim_bank_holiday;
DROP TABLE IF EXISTS dim_date;
DROP TABLE IF EXISTS dim_guide;
DROP TABLE IF EXISTS dim_route;
`

// CreateSchema creates the warehouse star schema.
func CreateSchema(ctx context.Context, d db.DB) error {
	return d.Exec(ctx, createSchemaSQL)
}

// DropSchema drops the warehouse star schema.
func DropSchema(ctx context.Context, d db.DB) error {
	return d.Exec(ctx, dropSchemaSQL)
}
