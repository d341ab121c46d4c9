//-------------------------------------------------------------------------
//
// Winter Peaks Tour Warehouse
//
// Portions copyright (c) 2025 - 2026, Winter Peaks Outdoors Ltd.
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package reports holds the canned analysis queries shipped with the
// warehouse. Every report is a parameterless read-only SELECT in the
// shared Postgres/SQLite dialect; reporting constants (years, limits)
// are embedded in the SQL.
package reports

import (
	"fmt"
)

// Report is one canned analysis query.
type Report struct {
	// Name is the report identifier used on the command line.
	Name string

	// Title is the human-readable heading.
	Title string

	// Description says what business question the report answers.
	Description string

	// Columns is the result header, matching the SELECT list order.
	Columns []string

	// SQL is the complete statement.
	SQL string
}

// catalogue holds every report in display order.
var catalogue = []Report{
	{
		Name:        "top_routes_by_sales",
		Title:       "Top routes by sales",
		Description: "The ten routes with the highest total ex-VAT sales across 2024-2025.",
		Columns:     []string{"route_name", "region", "sales_ex_vat"},
		SQL: `SELECT r.route_name, r.region, SUM(b.sales_ex_vat) AS sales_ex_vat
FROM fact_bookings b
JOIN dim_route r ON b.route_id = r.route_id
GROUP BY r.route_name, r.region
ORDER BY sales_ex_vat DESC
LIMIT 10`,
	},
	{
		Name:        "margin_by_region",
		Title:       "Margin by region",
		Description: "Sales-weighted margin percentage per region: SUM(margin) over SUM(sales), never an average of per-booking percentages.",
		Columns:     []string{"region", "sales_ex_vat", "margin_amount", "margin_pct_weighted"},
		SQL: `SELECT region,
       SUM(sales_ex_vat) AS sales_ex_vat,
       SUM(margin_amount) AS margin_amount,
       SUM(margin_amount) / NULLIF(SUM(sales_ex_vat), 0) AS margin_pct_weighted
FROM fact_bookings
GROUP BY region
ORDER BY margin_pct_weighted DESC NULLS LAST`,
	},
	{
		Name:        "bank_holiday_impact",
		Title:       "Bank holiday impact",
		Description: "Bookings split into bank-holiday and ordinary days, with volume, sales and weighted margin per side.",
		Columns:     []string{"is_bank_holiday", "bookings_count", "sales_ex_vat", "sales_per_booking", "margin_pct_weighted"},
		SQL: `SELECT is_bank_holiday,
       COUNT(*) AS bookings_count,
       SUM(sales_ex_vat) AS sales_ex_vat,
       SUM(sales_ex_vat) / COUNT(*) AS sales_per_booking,
       SUM(margin_amount) / NULLIF(SUM(sales_ex_vat), 0) AS margin_pct_weighted
FROM fact_bookings
GROUP BY is_bank_holiday
ORDER BY is_bank_holiday`,
	},
	{
		Name:        "weekly_trend_by_region",
		Title:       "Weekly trend by region",
		Description: "Bookings and sales per ISO week and region, in calendar order. Week numbering is ISO-8601, so year-boundary days land in the right week.",
		Columns:     []string{"iso_year", "iso_week", "region", "bookings_count", "sales_ex_vat"},
		SQL: `SELECT iso_year, iso_week, region,
       SUM(bookings_count) AS bookings_count,
       SUM(sales_ex_vat) AS sales_ex_vat
FROM fact_route_week
GROUP BY iso_year, iso_week, region
ORDER BY iso_year, iso_week, region`,
	},
	{
		Name:        "top_route_days",
		Title:       "Highest-demand route-days",
		Description: "The 25 busiest route-days straight from the daily rollup, no joins.",
		Columns:     []string{"date", "route_id", "region", "difficulty", "bookings_count", "party_size_total", "sales_ex_vat", "margin_pct_weighted"},
		SQL: `SELECT CAST(date AS TEXT) AS date, route_id, region, difficulty,
       bookings_count, party_size_total, sales_ex_vat, margin_pct_weighted
FROM fact_route_day
ORDER BY bookings_count DESC, sales_ex_vat DESC
LIMIT 25`,
	},
	{
		Name:        "top_route_weeks",
		Title:       "Top route-weeks by bookings",
		Description: "The ten busiest route-weeks straight from the weekly rollup.",
		Columns:     []string{"iso_year", "iso_week", "route_id", "region", "bookings_count", "sales_ex_vat", "margin_pct_weighted"},
		SQL: `SELECT iso_year, iso_week, route_id, region,
       bookings_count, sales_ex_vat, margin_pct_weighted
FROM fact_route_week
ORDER BY bookings_count DESC, sales_ex_vat DESC
LIMIT 10`,
	},
	{
		Name:        "actual_vs_forecast",
		Title:       "Actual 2025 vs forecast 2026",
		Description: "Weekly bookings by region: 2025 actuals against the 2026 forecast. Weeks present on only one side appear with NULL on the other; delta is forecast minus actual.",
		Columns:     []string{"iso_week", "region", "actual_bookings_2025", "predicted_bookings_2026", "delta_bookings"},
		SQL:         actualVsForecastSQL(),
	},
	{
		Name:        "busiest_forecast_routes",
		Title:       "Busiest forecast routes",
		Description: "The fifteen routes with the highest predicted 2026 bookings.",
		Columns:     []string{"route_name", "region", "predicted_bookings_2026"},
		SQL: `SELECT r.route_name, r.region, SUM(f.predicted_bookings_count) AS predicted_bookings_2026
FROM fact_forecast_week_2026 f
JOIN dim_route r ON f.route_id = r.route_id
GROUP BY r.route_name, r.region
ORDER BY predicted_bookings_2026 DESC
LIMIT 15`,
	},
}

// actualVsForecastSQL compares weekly 2025 actuals with the 2026
// forecast through the portable full-outer-join emulation.
func actualVsForecastSQL() string {
	joined := FullOuterJoin(JoinSpec{
		Left: `SELECT iso_week, region, SUM(bookings_count) AS actual_bookings_2025
FROM fact_route_week
WHERE iso_year = 2025
GROUP BY iso_week, region`,
		Right: `SELECT iso_week, region, SUM(predicted_bookings_count) AS predicted_bookings_2026
FROM fact_forecast_week_2026
GROUP BY iso_week, region`,
		Keys:      []string{"iso_week", "region"},
		LeftCols:  []string{"actual_bookings_2025"},
		RightCols: []string{"predicted_bookings_2026"},
	})

	return fmt.Sprintf(`SELECT iso_week, region,
       actual_bookings_2025,
       predicted_bookings_2026,
       COALESCE(predicted_bookings_2026, 0) - COALESCE(actual_bookings_2025, 0) AS delta_bookings
FROM (%s) cmp
ORDER BY iso_week, region`, joined)
}

// All returns every report in catalogue order.
func All() []Report {
	out := make([]Report, len(catalogue))
	copy(out, catalogue)
	return out
}

// Get retrieves a report by name.
func Get(name string) (Report, error) {
	for _, rep := range catalogue {
		if rep.Name == name {
			return rep, nil
		}
	}
	return Report{}, fmt.Errorf("unknown report: %s", name)
}

// List returns all report names in catalogue order.
func List() []string {
	names := make([]string, 0, len(catalogue))
	for _, rep := range catalogue {
		names = append(names, rep.Name)
	}
	return names
}
