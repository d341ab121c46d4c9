package dataset

import (
	"reflect"
	"testing"
	"time"
)

func forecastFixture() ([]CalendarDay, []Route, []RouteWeek) {
	hol := HolidayFlags{EnglandWales: map[string]bool{"2026-01-01": true}}
	cal := BuildCalendar(date(2024, time.January, 1), date(2026, time.December, 31), hol)
	routes := testRoutes()
	weeks := []RouteWeek{
		{ISOYear: 2025, ISOWeek: 10, RouteID: 1, Region: "North", BookingsCount: 7},
		{ISOYear: 2025, ISOWeek: 11, RouteID: 1, Region: "North", BookingsCount: 3},
		// Prior-year history must not feed the seasonal baseline.
		{ISOYear: 2024, ISOWeek: 10, RouteID: 1, Region: "North", BookingsCount: 99},
	}
	return cal, routes, weeks
}

func TestBuildForecastWeeksScaffold(t *testing.T) {
	cal, routes, weeks := forecastFixture()
	out := BuildForecastWeeks(cal, routes, weeks)

	// 2026 contains ISO weeks 1 through 53; every route appears in each.
	if want := 53 * len(routes); len(out) != want {
		t.Fatalf("expected %d forecast rows, got %d", want, len(out))
	}

	first := out[0]
	if first.ISOYear != 2026 || first.ISOWeek != 1 || first.RouteID != 1 {
		t.Errorf("first row = (%d, W%d, route %d), want (2026, W1, route 1)",
			first.ISOYear, first.ISOWeek, first.RouteID)
	}
	last := out[len(out)-1]
	if last.ISOYear != 2026 || last.ISOWeek != 53 || last.RouteID != 2 {
		t.Errorf("last row = (%d, W%d, route %d), want (2026, W53, route 2)",
			last.ISOYear, last.ISOWeek, last.RouteID)
	}

	// Week 1 of 2026 starts Monday 29 Dec 2025; only the four January days
	// fall inside the forecast year, two of them a weekend.
	if !first.WeekStart.Equal(date(2025, time.December, 29)) {
		t.Errorf("W1 WeekStart = %s, want 2025-12-29", first.WeekStart.Format("2006-01-02"))
	}
	if first.WeekendDays != 2 {
		t.Errorf("W1 WeekendDays = %d, want 2", first.WeekendDays)
	}
	if first.BankHolidayDaysAny != 1 {
		t.Errorf("W1 BankHolidayDaysAny = %d, want 1", first.BankHolidayDaysAny)
	}
	if last.WeekendDays != 0 {
		t.Errorf("W53 WeekendDays = %d, want 0", last.WeekendDays)
	}

	for _, fw := range out {
		if fw.Year != 2026 {
			t.Fatalf("Year = %d, want 2026", fw.Year)
		}
		if fw.PredictionVersion != PredictionVersion {
			t.Fatalf("PredictionVersion = %q, want %q", fw.PredictionVersion, PredictionVersion)
		}
	}
}

func TestBuildForecastWeeksSeasonalNaive(t *testing.T) {
	cal, routes, weeks := forecastFixture()
	out := BuildForecastWeeks(cal, routes, weeks)

	byKey := make(map[[2]int]ForecastWeek)
	for _, fw := range out {
		byKey[[2]int{fw.ISOWeek, fw.RouteID}] = fw
	}

	// Matching 2025 week carries straight over.
	if got := byKey[[2]int{10, 1}].PredictedBookingsCount; got != 7 {
		t.Errorf("W10 route 1 predicted = %v, want 7", got)
	}
	if got := byKey[[2]int{11, 1}].PredictedBookingsCount; got != 3 {
		t.Errorf("W11 route 1 predicted = %v, want 3", got)
	}

	// Weeks without 2025 history fall back to the route's weekly mean over
	// the 52 ISO weeks of 2025, rounded to 3dp. Week 53 has no 2025
	// counterpart at all.
	wantMean := 0.192
	if got := byKey[[2]int{12, 1}].PredictedBookingsCount; got != wantMean {
		t.Errorf("W12 route 1 predicted = %v, want %v", got, wantMean)
	}
	if got := byKey[[2]int{53, 1}].PredictedBookingsCount; got != wantMean {
		t.Errorf("W53 route 1 predicted = %v, want %v", got, wantMean)
	}

	// A route with no history predicts zero everywhere.
	if got := byKey[[2]int{10, 2}].PredictedBookingsCount; got != 0 {
		t.Errorf("W10 route 2 predicted = %v, want 0", got)
	}

	// Route attributes ride along.
	if got := byKey[[2]int{10, 1}].Difficulty; got != "hard" {
		t.Errorf("W10 route 1 difficulty = %q, want hard", got)
	}
	if got := byKey[[2]int{10, 1}].Region; got != "North" {
		t.Errorf("W10 route 1 region = %q, want North", got)
	}
}

func TestBuildForecastWeeksDeterministic(t *testing.T) {
	cal, routes, weeks := forecastFixture()
	a := BuildForecastWeeks(cal, routes, weeks)
	b := BuildForecastWeeks(cal, routes, weeks)
	if !reflect.DeepEqual(a, b) {
		t.Error("same inputs produced different forecasts")
	}
}
