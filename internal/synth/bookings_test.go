package synth

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/winterpeaks/tourdw/internal/dataset"
	"github.com/winterpeaks/tourdw/internal/holidays"
)

func bookingFixture() ([]dataset.Route, []dataset.Guide, map[string]string) {
	var routes []dataset.Route
	for i := 1; i <= 30; i++ {
		region := "lake_district"
		if i > 15 {
			region = "scotland"
		}
		routes = append(routes, dataset.Route{
			RouteID:       i,
			RouteName:     fmt.Sprintf("Test Route %d", i),
			Region:        region,
			Difficulty:    "easy",
			DistanceKM:    10,
			DurationHours: 5,
		})
	}
	guides := []dataset.Guide{
		{GuideID: 1, GuideName: "A"},
		{GuideID: 2, GuideName: "B"},
		{GuideID: 3, GuideName: "C"},
	}
	divisions := map[string]string{
		"lake_district": holidays.DivisionEnglandWales,
		"scotland":      holidays.DivisionScotland,
	}
	return routes, guides, divisions
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateBookingsInvariants(t *testing.T) {
	routes, guides, divisions := bookingFixture()
	cal := dataset.BuildCalendar(day(2025, time.January, 1), day(2025, time.March, 31), dataset.HolidayFlags{})

	f := NewFakerWithSeed(42)
	bookings := GenerateBookings(f, routes, guides, cal, nil, divisions)
	if len(bookings) == 0 {
		t.Fatal("expected some bookings over a 90-day window")
	}

	guideIDs := map[int]bool{1: true, 2: true, 3: true}
	for i, b := range bookings {
		if b.BookingID != i+1 {
			t.Fatalf("booking %d has id %d, want sequential", i, b.BookingID)
		}
		if b.PartySize < 1 || b.PartySize > 6 {
			t.Errorf("booking %d party size %d outside 1-6", b.BookingID, b.PartySize)
		}
		if b.MarginPct < 0.30 || b.MarginPct > 0.50 {
			t.Errorf("booking %d margin pct %v outside [0.30, 0.50]", b.BookingID, b.MarginPct)
		}
		if b.SalesExVAT < 0 {
			t.Errorf("booking %d has negative sales %v", b.BookingID, b.SalesExVAT)
		}
		if b.PricePerPersonExVAT < 60 || b.PricePerPersonExVAT > 190 {
			t.Errorf("booking %d price %v outside 60-190", b.BookingID, b.PricePerPersonExVAT)
		}
		if b.DateKey < 20250101 || b.DateKey > 20250331 {
			t.Errorf("booking %d date key %d outside window", b.BookingID, b.DateKey)
		}
		if !guideIDs[b.GuideID] {
			t.Errorf("booking %d has unknown guide %d", b.BookingID, b.GuideID)
		}
		if math.Abs(b.VATAmount-b.SalesExVAT*VATRate) > 0.01 {
			t.Errorf("booking %d vat %v vs sales %v", b.BookingID, b.VATAmount, b.SalesExVAT)
		}
		if math.Abs(b.SalesIncVAT-(b.SalesExVAT+b.VATAmount)) > 0.02 {
			t.Errorf("booking %d inc-vat %v vs %v", b.BookingID, b.SalesIncVAT, b.SalesExVAT+b.VATAmount)
		}
		if b.DiscountFlag && (b.DiscountPct < 0.05 || b.DiscountPct > 0.20) {
			t.Errorf("booking %d discount pct %v outside 0.05-0.20", b.BookingID, b.DiscountPct)
		}
		if !b.DiscountFlag && b.DiscountPct != 0 {
			t.Errorf("booking %d undiscounted but pct %v", b.BookingID, b.DiscountPct)
		}
	}
}

func TestGenerateBookingsSkipsClosedDates(t *testing.T) {
	routes, guides, divisions := bookingFixture()
	hol := dataset.HolidayFlags{
		EnglandWales: map[string]bool{"2025-12-25": true, "2025-12-26": true},
		Scotland:     map[string]bool{"2025-12-25": true, "2025-12-26": true},
	}
	cal := dataset.BuildCalendar(day(2025, time.December, 20), day(2025, time.December, 31), hol)

	closed := map[string]map[string]bool{
		holidays.DivisionEnglandWales: {"2025-12-25": true, "2025-12-26": true},
		holidays.DivisionScotland:     {"2025-12-25": true},
	}

	f := NewFakerWithSeed(42)
	bookings := GenerateBookings(f, routes, guides, cal, closed, divisions)
	if len(bookings) == 0 {
		t.Fatal("expected some bookings")
	}

	for _, b := range bookings {
		if b.Region == "lake_district" && (b.DateKey == 20251225 || b.DateKey == 20251226) {
			t.Errorf("booking %d on closed england-and-wales date %d", b.BookingID, b.DateKey)
		}
		if b.Region == "scotland" && b.DateKey == 20251225 {
			t.Errorf("booking %d on closed scotland date %d", b.BookingID, b.DateKey)
		}
	}
}

func TestGenerateBookingsHolidayFlags(t *testing.T) {
	routes, guides, divisions := bookingFixture()
	hol := dataset.HolidayFlags{
		EnglandWales: map[string]bool{"2025-08-25": true},
		Scotland:     map[string]bool{"2025-08-04": true},
	}
	cal := dataset.BuildCalendar(day(2025, time.August, 1), day(2025, time.August, 31), hol)

	f := NewFakerWithSeed(42)
	bookings := GenerateBookings(f, routes, guides, cal, nil, divisions)

	summerHoliday := 0
	for _, b := range bookings {
		switch {
		case b.Region == "lake_district" && b.DateKey == 20250825:
			summerHoliday++
			if !b.IsBankHoliday {
				t.Errorf("booking %d on EW summer holiday not flagged", b.BookingID)
			}
			if b.HolidayDivision != holidays.DivisionEnglandWales {
				t.Errorf("booking %d division = %q", b.BookingID, b.HolidayDivision)
			}
		case b.Region == "scotland" && b.DateKey == 20250825:
			// Not a Scottish bank holiday.
			if b.IsBankHoliday {
				t.Errorf("booking %d flagged for the wrong division", b.BookingID)
			}
		case b.Region == "scotland" && b.DateKey == 20250804:
			if !b.IsBankHoliday {
				t.Errorf("booking %d on Scottish holiday not flagged", b.BookingID)
			}
		}
		if b.Season != "summer" {
			t.Errorf("booking %d season = %q, want summer", b.BookingID, b.Season)
		}
	}
	if summerHoliday == 0 {
		t.Error("no lake_district bookings landed on the flagged holiday at all")
	}
}

func TestGenerateBookingsDeterministic(t *testing.T) {
	routes, guides, divisions := bookingFixture()
	cal := dataset.BuildCalendar(day(2025, time.February, 1), day(2025, time.February, 28), dataset.HolidayFlags{})

	a := GenerateBookings(NewFakerWithSeed(42), routes, guides, cal, nil, divisions)
	b := GenerateBookings(NewFakerWithSeed(42), routes, guides, cal, nil, divisions)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different bookings")
	}
}

func TestExpectedBookings(t *testing.T) {
	// lake_district winter easy weekend holiday is the demand ceiling.
	mu := expectedBookings("lake_district", "winter", "easy", true, true)
	if mu < 1.9 || mu > 2.0 {
		t.Errorf("peak mu = %v, want about 1.95", mu)
	}

	// scotland summer severe weekday is the floor.
	mu = expectedBookings("scotland", "summer", "severe", false, false)
	if mu < 0.31 || mu > 0.32 {
		t.Errorf("floor mu = %v, want about 0.316", mu)
	}

	// Unknown keys fall back to a neutral uplift.
	mu = expectedBookings("gritstone", "winter", "easy", false, false)
	want := expectedBookings("peak_district", "winter", "easy", false, false)
	if mu != want {
		t.Errorf("unknown region mu = %v, want %v", mu, want)
	}
}
