package dataset

import (
	"testing"
	"time"
)

func testRoutes() []Route {
	return []Route{
		{RouteID: 1, RouteName: "Striding Edge Circuit", Region: "North", Difficulty: "hard", DistanceKM: 14.5, DurationHours: 7, RouteLat: 54.52, RouteLon: -3.01},
		{RouteID: 2, RouteName: "Cat Bells Ramble", Region: "North", Difficulty: "easy", DistanceKM: 6.2, DurationHours: 3, RouteLat: 54.56, RouteLon: -3.17},
	}
}

func TestBuildRouteDayWeightedMargin(t *testing.T) {
	routes := testRoutes()
	cal := BuildCalendar(date(2025, time.March, 3), date(2025, time.March, 3), HolidayFlags{})
	bookings := []Booking{
		{BookingID: 1, DateKey: 20250303, RouteID: 1, Region: "North", PartySize: 2, SalesExVAT: 100, MarginAmount: 20},
		{BookingID: 2, DateKey: 20250303, RouteID: 1, Region: "North", PartySize: 4, SalesExVAT: 50, MarginAmount: 5, DiscountFlag: true},
	}

	days := BuildRouteDay(bookings, cal, routes)
	if len(days) != 1 {
		t.Fatalf("expected 1 route-day, got %d", len(days))
	}
	d := days[0]

	if d.BookingsCount != 2 {
		t.Errorf("BookingsCount = %d, want 2", d.BookingsCount)
	}
	if d.SalesExVAT != 150 {
		t.Errorf("SalesExVAT = %v, want 150", d.SalesExVAT)
	}
	if d.MarginAmount != 25 {
		t.Errorf("MarginAmount = %v, want 25", d.MarginAmount)
	}
	if d.MarginPctWeighted == nil {
		t.Fatal("MarginPctWeighted is nil, want 25/150")
	}
	// Sum-then-divide, not the 0.15 average of the per-row 0.20 and 0.10.
	if got, want := *d.MarginPctWeighted, 25.0/150.0; got != want {
		t.Errorf("MarginPctWeighted = %v, want %v", got, want)
	}
	if d.PartySizeAvg != 3 {
		t.Errorf("PartySizeAvg = %v, want 3", d.PartySizeAvg)
	}
	if d.DiscountBookings != 1 {
		t.Errorf("DiscountBookings = %d, want 1", d.DiscountBookings)
	}
	if d.DiscountRate != 0.5 {
		t.Errorf("DiscountRate = %v, want 0.5", d.DiscountRate)
	}

	// Calendar and route attributes ride along for slicing.
	if d.ISOYear != 2025 || d.ISOWeek != 10 {
		t.Errorf("ISO week = %d-W%d, want 2025-W10", d.ISOYear, d.ISOWeek)
	}
	if d.Season != "spring" {
		t.Errorf("Season = %q, want spring", d.Season)
	}
	if d.Difficulty != "hard" {
		t.Errorf("Difficulty = %q, want hard", d.Difficulty)
	}
	if d.DistanceKM != 14.5 {
		t.Errorf("DistanceKM = %v, want 14.5", d.DistanceKM)
	}
}

func TestBuildRouteDayZeroSales(t *testing.T) {
	routes := testRoutes()
	cal := BuildCalendar(date(2025, time.March, 3), date(2025, time.March, 3), HolidayFlags{})
	bookings := []Booking{
		{BookingID: 1, DateKey: 20250303, RouteID: 1, Region: "North", PartySize: 1, SalesExVAT: 0, MarginAmount: 0},
	}

	days := BuildRouteDay(bookings, cal, routes)
	if len(days) != 1 {
		t.Fatalf("expected 1 route-day, got %d", len(days))
	}
	if days[0].MarginPctWeighted != nil {
		t.Errorf("MarginPctWeighted = %v, want nil when sales sum to zero", *days[0].MarginPctWeighted)
	}
}

func TestBuildRouteDayGrainAndOrder(t *testing.T) {
	routes := testRoutes()
	cal := BuildCalendar(date(2025, time.March, 3), date(2025, time.March, 4), HolidayFlags{})
	bookings := []Booking{
		{BookingID: 1, DateKey: 20250304, RouteID: 2, Region: "North", PartySize: 2, SalesExVAT: 80, MarginAmount: 30},
		{BookingID: 2, DateKey: 20250303, RouteID: 2, Region: "North", PartySize: 3, SalesExVAT: 90, MarginAmount: 31},
		{BookingID: 3, DateKey: 20250303, RouteID: 1, Region: "North", PartySize: 2, SalesExVAT: 120, MarginAmount: 45},
		{BookingID: 4, DateKey: 20250303, RouteID: 1, Region: "North", PartySize: 5, SalesExVAT: 260, MarginAmount: 95},
	}

	days := BuildRouteDay(bookings, cal, routes)
	if len(days) != 3 {
		t.Fatalf("expected 3 route-days, got %d", len(days))
	}

	// Ordered by date_key then route_id.
	wantOrder := []struct {
		dateKey int
		routeID int
	}{
		{20250303, 1},
		{20250303, 2},
		{20250304, 2},
	}
	for i, want := range wantOrder {
		if days[i].DateKey != want.dateKey || days[i].RouteID != want.routeID {
			t.Errorf("days[%d] = (%d, %d), want (%d, %d)",
				i, days[i].DateKey, days[i].RouteID, want.dateKey, want.routeID)
		}
	}

	if days[0].BookingsCount != 2 {
		t.Errorf("route 1 BookingsCount = %d, want 2", days[0].BookingsCount)
	}
	if days[0].SalesExVAT != 380 {
		t.Errorf("route 1 SalesExVAT = %v, want 380", days[0].SalesExVAT)
	}
}

func TestBuildRouteWeekAggregation(t *testing.T) {
	routes := testRoutes()
	hol := HolidayFlags{EnglandWales: map[string]bool{"2025-04-18": true}}
	cal := BuildCalendar(date(2025, time.April, 14), date(2025, time.April, 20), hol)

	bookings := []Booking{
		{BookingID: 1, DateKey: 20250414, RouteID: 1, Region: "North", PartySize: 2, SalesExVAT: 100, MarginAmount: 40},
		{BookingID: 2, DateKey: 20250414, RouteID: 1, Region: "North", PartySize: 3, SalesExVAT: 150, MarginAmount: 50, DiscountFlag: true},
		{BookingID: 3, DateKey: 20250418, RouteID: 1, Region: "North", PartySize: 4, SalesExVAT: 200, MarginAmount: 70},
		{BookingID: 4, DateKey: 20250419, RouteID: 1, Region: "North", PartySize: 2, SalesExVAT: 110, MarginAmount: 41},
		{BookingID: 5, DateKey: 20250420, RouteID: 1, Region: "North", PartySize: 6, SalesExVAT: 300, MarginAmount: 99},
	}

	days := BuildRouteDay(bookings, cal, routes)
	weeks := BuildRouteWeek(days, 2024, 2025)
	if len(weeks) != 1 {
		t.Fatalf("expected 1 route-week, got %d", len(weeks))
	}
	w := weeks[0]

	if w.ISOYear != 2025 || w.ISOWeek != 16 {
		t.Errorf("ISO week = %d-W%d, want 2025-W16", w.ISOYear, w.ISOWeek)
	}
	if w.BookingsCount != 5 {
		t.Errorf("BookingsCount = %d, want 5", w.BookingsCount)
	}
	if w.SalesExVAT != 860 {
		t.Errorf("SalesExVAT = %v, want 860", w.SalesExVAT)
	}
	if w.BankHolidayDaysAny != 1 {
		t.Errorf("BankHolidayDaysAny = %d, want 1", w.BankHolidayDaysAny)
	}
	if w.WeekendDays != 2 {
		t.Errorf("WeekendDays = %d, want 2", w.WeekendDays)
	}
	if w.DiscountRate == nil || *w.DiscountRate != 0.2 {
		t.Errorf("DiscountRate = %v, want 0.2", w.DiscountRate)
	}
	if w.MarginPctWeighted == nil {
		t.Fatal("MarginPctWeighted is nil")
	}
	if got, want := *w.MarginPctWeighted, 300.0/860.0; got != want {
		t.Errorf("MarginPctWeighted = %v, want %v", got, want)
	}
	if !w.WeekStart.Equal(date(2025, time.April, 14)) {
		t.Errorf("WeekStart = %s, want 2025-04-14", w.WeekStart.Format("2006-01-02"))
	}
	if w.Difficulty != "hard" {
		t.Errorf("Difficulty = %q, want hard", w.Difficulty)
	}
}

func TestBuildRouteWeekYearFilter(t *testing.T) {
	routes := testRoutes()
	cal := BuildCalendar(date(2025, time.December, 22), date(2025, time.December, 31), HolidayFlags{})

	// Dec 28 sits in ISO 2025-W52; Dec 29-31 already belong to ISO 2026-W01
	// and must not leak into a 2024-2025 weekly rollup.
	bookings := []Booking{
		{BookingID: 1, DateKey: 20251228, RouteID: 1, Region: "North", PartySize: 2, SalesExVAT: 100, MarginAmount: 40},
		{BookingID: 2, DateKey: 20251229, RouteID: 1, Region: "North", PartySize: 2, SalesExVAT: 100, MarginAmount: 40},
		{BookingID: 3, DateKey: 20251231, RouteID: 1, Region: "North", PartySize: 2, SalesExVAT: 100, MarginAmount: 40},
	}

	days := BuildRouteDay(bookings, cal, routes)
	if len(days) != 3 {
		t.Fatalf("expected 3 route-days, got %d", len(days))
	}

	weeks := BuildRouteWeek(days, 2024, 2025)
	if len(weeks) != 1 {
		t.Fatalf("expected 1 route-week after year filter, got %d", len(weeks))
	}
	if weeks[0].ISOYear != 2025 || weeks[0].ISOWeek != 52 {
		t.Errorf("ISO week = %d-W%d, want 2025-W52", weeks[0].ISOYear, weeks[0].ISOWeek)
	}
	if weeks[0].BookingsCount != 1 {
		t.Errorf("BookingsCount = %d, want 1", weeks[0].BookingsCount)
	}

	// Widening the window brings the boundary week back.
	all := BuildRouteWeek(days, 2024, 2026)
	if len(all) != 2 {
		t.Fatalf("expected 2 route-weeks without filter, got %d", len(all))
	}
	if all[1].ISOYear != 2026 || all[1].ISOWeek != 1 {
		t.Errorf("ISO week = %d-W%d, want 2026-W01", all[1].ISOYear, all[1].ISOWeek)
	}
	if all[1].BookingsCount != 2 {
		t.Errorf("boundary week BookingsCount = %d, want 2", all[1].BookingsCount)
	}
}

func TestBuildRouteWeekOrder(t *testing.T) {
	routes := testRoutes()
	cal := BuildCalendar(date(2024, time.December, 23), date(2025, time.January, 5), HolidayFlags{})
	bookings := []Booking{
		{BookingID: 1, DateKey: 20250101, RouteID: 2, Region: "North", PartySize: 2, SalesExVAT: 50, MarginAmount: 20},
		{BookingID: 2, DateKey: 20250101, RouteID: 1, Region: "North", PartySize: 2, SalesExVAT: 50, MarginAmount: 20},
		{BookingID: 3, DateKey: 20241224, RouteID: 2, Region: "North", PartySize: 2, SalesExVAT: 50, MarginAmount: 20},
	}

	days := BuildRouteDay(bookings, cal, routes)
	weeks := BuildRouteWeek(days, 2024, 2025)
	if len(weeks) != 3 {
		t.Fatalf("expected 3 route-weeks, got %d", len(weeks))
	}

	wantOrder := []struct {
		isoYear int
		isoWeek int
		routeID int
	}{
		{2024, 52, 2},
		{2025, 1, 1},
		{2025, 1, 2},
	}
	for i, want := range wantOrder {
		w := weeks[i]
		if w.ISOYear != want.isoYear || w.ISOWeek != want.isoWeek || w.RouteID != want.routeID {
			t.Errorf("weeks[%d] = (%d, %d, %d), want (%d, %d, %d)",
				i, w.ISOYear, w.ISOWeek, w.RouteID, want.isoYear, want.isoWeek, want.routeID)
		}
	}
}
