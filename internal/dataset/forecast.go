package dataset

import (
	"math"
	"sort"
)

// PredictionVersion tags forecast rows with the model that produced them.
const PredictionVersion = "seasonal_naive_v1"

// BuildForecastWeeks publishes fact_forecast_week_2026: a scaffold of 2026
// calendar weeks crossed with every route, predicted with a seasonal naive
// baseline. A route-week's prediction is the route's bookings count in the
// same ISO week of 2025; weeks without a 2025 counterpart (2026 has an ISO
// week 53) fall back to the route's 2025 weekly mean.
func BuildForecastWeeks(calendar []CalendarDay, routes []Route, weeks []RouteWeek) []ForecastWeek {
	type weekKey struct {
		isoYear int
		isoWeek int
	}

	// Scaffold from 2026 calendar dates only: weekend and holiday day
	// counts cover the days falling inside the calendar year.
	type weekCal struct {
		weekendDays int
		holidayDays int
	}
	scaffold := make(map[weekKey]*weekCal)
	weeks2025 := make(map[int]bool)
	for _, d := range calendar {
		if d.ISOYear == 2025 {
			weeks2025[d.ISOWeek] = true
		}
		if d.Year != 2026 {
			continue
		}
		k := weekKey{d.ISOYear, d.ISOWeek}
		wc := scaffold[k]
		if wc == nil {
			wc = &weekCal{}
			scaffold[k] = wc
		}
		if d.IsWeekend {
			wc.weekendDays++
		}
		if d.IsBankHolidayAny {
			wc.holidayDays++
		}
	}

	keys := make([]weekKey, 0, len(scaffold))
	for k := range scaffold {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].isoYear != keys[j].isoYear {
			return keys[i].isoYear < keys[j].isoYear
		}
		return keys[i].isoWeek < keys[j].isoWeek
	})

	// 2025 actuals: per route-week counts plus per-route totals for the
	// weekly-mean fallback.
	type routeWeekKey struct {
		routeID int
		isoWeek int
	}
	actual := make(map[routeWeekKey]int)
	totals := make(map[int]int)
	for _, w := range weeks {
		if w.ISOYear != 2025 {
			continue
		}
		actual[routeWeekKey{w.RouteID, w.ISOWeek}] += w.BookingsCount
		totals[w.RouteID] += w.BookingsCount
	}
	weekCount := len(weeks2025)

	sorted := make([]Route, len(routes))
	copy(sorted, routes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RouteID < sorted[j].RouteID })

	var out []ForecastWeek
	for _, k := range keys {
		wc := scaffold[k]
		for _, rt := range sorted {
			var predicted float64
			if n, ok := actual[routeWeekKey{rt.RouteID, k.isoWeek}]; ok {
				predicted = float64(n)
			} else if weekCount > 0 {
				predicted = float64(totals[rt.RouteID]) / float64(weekCount)
			}
			if predicted < 0 {
				predicted = 0
			}

			out = append(out, ForecastWeek{
				ISOYear:                k.isoYear,
				ISOWeek:                k.isoWeek,
				WeekendDays:            wc.weekendDays,
				BankHolidayDaysAny:     wc.holidayDays,
				WeekStart:              ISOWeekStart(k.isoYear, k.isoWeek),
				RouteID:                rt.RouteID,
				Region:                 rt.Region,
				Difficulty:             rt.Difficulty,
				DistanceKM:             rt.DistanceKM,
				DurationHours:          rt.DurationHours,
				PredictedBookingsCount: math.Round(predicted*1000) / 1000,
				PredictionVersion:      PredictionVersion,
				Year:                   2026,
			})
		}
	}
	return out
}
