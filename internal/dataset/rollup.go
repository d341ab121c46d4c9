package dataset

import "sort"

// BuildRouteDay aggregates bookings to (date_key, route_id, region) grain
// and joins the calendar and route attributes used for slicing. The
// weighted margin is SUM(margin_amount)/SUM(sales_ex_vat), nil when the
// sales sum is zero; it is never an average of per-row percentages.
func BuildRouteDay(bookings []Booking, calendar []CalendarDay, routes []Route) []RouteDay {
	type grain struct {
		dateKey int
		routeID int
		region  string
	}
	type acc struct {
		bookings  int
		partySize int
		sales     float64
		vat       float64
		incVAT    float64
		staff     float64
		margin    float64
		discounts int
	}

	groups := make(map[grain]*acc)
	for _, b := range bookings {
		g := grain{b.DateKey, b.RouteID, b.Region}
		a := groups[g]
		if a == nil {
			a = &acc{}
			groups[g] = a
		}
		a.bookings++
		a.partySize += b.PartySize
		a.sales += b.SalesExVAT
		a.vat += b.VATAmount
		a.incVAT += b.SalesIncVAT
		a.staff += b.StaffCost
		a.margin += b.MarginAmount
		if b.DiscountFlag {
			a.discounts++
		}
	}

	dayByKey := CalendarByKey(calendar)
	routeByID := RoutesByID(routes)

	days := make([]RouteDay, 0, len(groups))
	for g, a := range groups {
		cal := dayByKey[g.dateKey]
		rt := routeByID[g.routeID]

		row := RouteDay{
			DateKey:                      g.dateKey,
			Date:                         cal.Date,
			Year:                         cal.Year,
			Quarter:                      cal.Quarter,
			Month:                        cal.Month,
			MonthName:                    cal.MonthName,
			ISOYear:                      cal.ISOYear,
			ISOWeek:                      cal.ISOWeek,
			DayName:                      cal.DayName,
			IsWeekend:                    cal.IsWeekend,
			Season:                       cal.Season,
			RouteID:                      g.routeID,
			Region:                       g.region,
			Difficulty:                   rt.Difficulty,
			DistanceKM:                   rt.DistanceKM,
			DurationHours:                rt.DurationHours,
			RouteLat:                     rt.RouteLat,
			RouteLon:                     rt.RouteLon,
			BookingsCount:                a.bookings,
			PartySizeTotal:               a.partySize,
			PartySizeAvg:                 float64(a.partySize) / float64(a.bookings),
			DiscountBookings:             a.discounts,
			DiscountRate:                 float64(a.discounts) / float64(a.bookings),
			SalesExVAT:                   a.sales,
			VATAmount:                    a.vat,
			SalesIncVAT:                  a.incVAT,
			StaffCost:                    a.staff,
			MarginAmount:                 a.margin,
			MarginPctWeighted:            weightedRatio(a.margin, a.sales),
			IsBankHolidayEnglandWales:    cal.IsBankHolidayEnglandWales,
			IsBankHolidayScotland:        cal.IsBankHolidayScotland,
			IsBankHolidayNorthernIreland: cal.IsBankHolidayNorthernIreland,
			IsBankHolidayAny:             cal.IsBankHolidayAny,
		}
		days = append(days, row)
	}

	sort.Slice(days, func(i, j int) bool {
		if days[i].DateKey != days[j].DateKey {
			return days[i].DateKey < days[j].DateKey
		}
		return days[i].RouteID < days[j].RouteID
	})
	return days
}

// BuildRouteWeek aggregates the daily rollup to (iso_year, iso_week,
// route_id, region) grain, keeping only ISO years within [minYear, maxYear].
// BankHolidayDaysAny and WeekendDays count the contributing route-days that
// carry those flags.
func BuildRouteWeek(days []RouteDay, minYear, maxYear int) []RouteWeek {
	type grain struct {
		isoYear int
		isoWeek int
		routeID int
		region  string
	}
	type acc struct {
		bookings    int
		partySize   int
		sales       float64
		vat         float64
		incVAT      float64
		staff       float64
		margin      float64
		discounts   int
		holidayDays int
		weekendDays int
		difficulty  string
		distanceKM  float64
		duration    float64
	}

	groups := make(map[grain]*acc)
	for _, d := range days {
		if d.ISOYear < minYear || d.ISOYear > maxYear {
			continue
		}
		g := grain{d.ISOYear, d.ISOWeek, d.RouteID, d.Region}
		a := groups[g]
		if a == nil {
			a = &acc{difficulty: d.Difficulty, distanceKM: d.DistanceKM, duration: d.DurationHours}
			groups[g] = a
		}
		a.bookings += d.BookingsCount
		a.partySize += d.PartySizeTotal
		a.sales += d.SalesExVAT
		a.vat += d.VATAmount
		a.incVAT += d.SalesIncVAT
		a.staff += d.StaffCost
		a.margin += d.MarginAmount
		a.discounts += d.DiscountBookings
		if d.IsBankHolidayAny {
			a.holidayDays++
		}
		if d.IsWeekend {
			a.weekendDays++
		}
	}

	weeks := make([]RouteWeek, 0, len(groups))
	for g, a := range groups {
		weeks = append(weeks, RouteWeek{
			ISOYear:            g.isoYear,
			ISOWeek:            g.isoWeek,
			RouteID:            g.routeID,
			Region:             g.region,
			BookingsCount:      a.bookings,
			PartySizeTotal:     a.partySize,
			SalesExVAT:         a.sales,
			VATAmount:          a.vat,
			SalesIncVAT:        a.incVAT,
			StaffCost:          a.staff,
			MarginAmount:       a.margin,
			DiscountBookings:   a.discounts,
			BankHolidayDaysAny: a.holidayDays,
			WeekendDays:        a.weekendDays,
			DiscountRate:       intRatio(a.discounts, a.bookings),
			MarginPctWeighted:  weightedRatio(a.margin, a.sales),
			Difficulty:         a.difficulty,
			DistanceKM:         a.distanceKM,
			DurationHours:      a.duration,
			WeekStart:          ISOWeekStart(g.isoYear, g.isoWeek),
		})
	}

	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].ISOYear != weeks[j].ISOYear {
			return weeks[i].ISOYear < weeks[j].ISOYear
		}
		if weeks[i].ISOWeek != weeks[j].ISOWeek {
			return weeks[i].ISOWeek < weeks[j].ISOWeek
		}
		return weeks[i].RouteID < weeks[j].RouteID
	})
	return weeks
}

// weightedRatio divides summed numerator by summed denominator, returning
// nil rather than an error or zero when the denominator sums to zero.
func weightedRatio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den
	return &v
}

func intRatio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}
