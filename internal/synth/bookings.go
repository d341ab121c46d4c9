package synth

import (
	"math"

	"github.com/winterpeaks/tourdw/internal/dataset"
	"github.com/winterpeaks/tourdw/internal/holidays"
)

// VATRate is the UK standard rate applied to every booking.
const VATRate = 0.20

// Demand uplifts applied to the baseline mean bookings per route-day.
const (
	baselineMu        = 0.55
	weekendUplift     = 1.20
	openHolidayUplift = 1.40
)

var regionUplift = map[string]float64{
	"lake_district": 1.35,
	"wales":         1.15,
	"peak_district": 1.00,
	"scotland":      0.90,
}

var seasonUplift = map[string]float64{
	"winter": 1.30,
	"spring": 1.00,
	"summer": 0.85,
	"autumn": 1.10,
}

var difficultyUplift = map[string]float64{
	"easy":     1.20,
	"moderate": 1.00,
	"hard":     0.90,
	"severe":   0.75,
}

var difficultyPremium = map[string]float64{
	"easy":     0.95,
	"moderate": 1.00,
	"hard":     1.10,
	"severe":   1.20,
}

// Party size 1..6 odds per difficulty; harder routes skew small.
var partySizes = []int{1, 2, 3, 4, 5, 6}

var partyWeights = map[string][]int{
	"easy":     {10, 25, 25, 20, 12, 8},
	"moderate": {15, 28, 25, 17, 10, 5},
	"hard":     {22, 33, 23, 13, 7, 2},
	"severe":   {30, 38, 20, 8, 3, 1},
}

// GenerateBookings walks route x calendar day, draws a Poisson bookings
// count per route-day, and prices each booking. Days that are closed
// holidays for the route's division produce no bookings at all; open bank
// holidays instead see uplifted demand. The caller passes the calendar
// already restricted to the booking window.
func GenerateBookings(
	f *Faker,
	routes []dataset.Route,
	guides []dataset.Guide,
	calendar []dataset.CalendarDay,
	closed map[string]map[string]bool,
	divisions map[string]string,
) []dataset.Booking {
	var bookings []dataset.Booking
	id := 1

	for _, rt := range routes {
		division := divisions[rt.Region]
		if division == "" {
			division = holidays.DivisionEnglandWales
		}
		closedDates := closed[division]

		for _, day := range calendar {
			if closedDates[day.Date.Format("2006-01-02")] {
				continue
			}
			isHoliday := holidayFlag(day, division)

			mu := expectedBookings(rt.Region, day.Season, rt.Difficulty, day.IsWeekend, isHoliday)
			n := f.Poisson(mu)
			if n <= 0 {
				continue
			}

			for i := 0; i < n; i++ {
				party := partySize(f, rt.Difficulty)
				discounted, discountPct := drawDiscount(f, party, day.Season, day.IsWeekend)

				ppp := pricePerPerson(f, rt.DurationHours, rt.Difficulty)
				listValue := ppp * float64(party)
				discountValue := 0.0
				if discounted {
					discountValue = listValue * discountPct
				}
				sales := math.Max(listValue-discountValue, 0)

				marginPct := drawMarginPct(f, discounted, party)
				marginAmount := sales * marginPct

				// Staff take 50-75% of the non-margin cost base.
				totalCost := math.Max(sales-marginAmount, 0)
				staffShare := clip(f.Gaussian(0.62, 0.06), 0.50, 0.75)
				staffCost := totalCost * staffShare

				vat := sales * VATRate

				bookings = append(bookings, dataset.Booking{
					BookingID:           id,
					BookingDate:         day.Date,
					DateKey:             day.DateKey,
					RouteID:             rt.RouteID,
					Region:              rt.Region,
					GuideID:             Choose(f, guides).GuideID,
					PartySize:           party,
					Difficulty:          rt.Difficulty,
					DurationHours:       round2(rt.DurationHours),
					DiscountFlag:        discounted,
					DiscountPct:         round4(discountPct),
					PricePerPersonExVAT: round2(ppp),
					SalesExVAT:          round2(sales),
					VATAmount:           round2(vat),
					SalesIncVAT:         round2(sales + vat),
					StaffCost:           round2(staffCost),
					MarginAmount:        round2(marginAmount),
					MarginPct:           round4(marginPct),
					Season:              day.Season,
					IsWeekend:           day.IsWeekend,
					IsBankHoliday:       isHoliday,
					HolidayDivision:     division,
				})
				id++
			}
		}
	}
	return bookings
}

func holidayFlag(day dataset.CalendarDay, division string) bool {
	switch division {
	case holidays.DivisionScotland:
		return day.IsBankHolidayScotland
	case holidays.DivisionNorthernIreland:
		return day.IsBankHolidayNorthernIreland
	default:
		return day.IsBankHolidayEnglandWales
	}
}

func expectedBookings(region, season, difficulty string, weekend, openHoliday bool) float64 {
	mu := baselineMu
	mu *= upliftOr(regionUplift, region)
	mu *= upliftOr(seasonUplift, season)
	mu *= upliftOr(difficultyUplift, difficulty)
	if weekend {
		mu *= weekendUplift
	}
	if openHoliday {
		mu *= openHolidayUplift
	}
	return clip(mu, 0.05, 3.0)
}

func upliftOr(m map[string]float64, key string) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return 1.0
}

func partySize(f *Faker, difficulty string) int {
	weights, ok := partyWeights[difficulty]
	if !ok {
		weights = partyWeights["severe"]
	}
	return ChooseWeighted(f, partySizes, weights)
}

// drawDiscount is likelier for big groups, summer dates and weekdays,
// capped at 35%.
func drawDiscount(f *Faker, party int, season string, weekend bool) (bool, float64) {
	prob := 0.10
	if party >= 4 {
		prob += 0.10
	}
	if season == "summer" {
		prob += 0.05
	}
	if !weekend {
		prob += 0.03
	}
	if prob > 0.35 {
		prob = 0.35
	}
	if f.Float64(0, 1) >= prob {
		return false, 0
	}
	return true, f.Float64(0.05, 0.20)
}

func pricePerPerson(f *Faker, durationHours float64, difficulty string) float64 {
	base := 75.0 + durationHours*8.0
	mult, ok := difficultyPremium[difficulty]
	if !ok {
		mult = 1.0
	}
	noise := f.Gaussian(1.0, 0.06)
	return clip(base*mult*noise, 60, 190)
}

// drawMarginPct targets 30-50%: lower when discounted, nudged up for
// larger parties, clipped back into the band either way.
func drawMarginPct(f *Faker, discounted bool, party int) float64 {
	m := f.Float64(0.30, 0.50)
	if discounted {
		m -= f.Float64(0.03, 0.08)
	}
	scale := float64(party-2) * 0.008
	if scale < 0 {
		scale = 0
	}
	if scale > 0.03 {
		scale = 0.03
	}
	m += scale
	return clip(m, 0.30, 0.50)
}
