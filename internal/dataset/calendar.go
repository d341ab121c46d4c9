package dataset

import "time"

// HolidayFlags carries per-division bank holiday date sets keyed by
// ISO-8601 date strings (YYYY-MM-DD).
type HolidayFlags struct {
	EnglandWales    map[string]bool
	Scotland        map[string]bool
	NorthernIreland map[string]bool
}

// BuildCalendar returns one CalendarDay per date from start to end
// inclusive, enriched with the given bank holiday flags. ISO fields follow
// ISO-8601: week 1 is the week containing the year's first Thursday, weeks
// run Monday to Sunday.
func BuildCalendar(start, end time.Time, hol HolidayFlags) []CalendarDay {
	start = midnightUTC(start)
	end = midnightUTC(end)

	var days []CalendarDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		isoYear, isoWeek := d.ISOWeek()
		key := d.Format("2006-01-02")

		ew := hol.EnglandWales[key]
		sc := hol.Scotland[key]
		ni := hol.NorthernIreland[key]

		days = append(days, CalendarDay{
			Date:                         d,
			DateKey:                      DateKey(d),
			Year:                         d.Year(),
			Quarter:                      (int(d.Month())-1)/3 + 1,
			Month:                        int(d.Month()),
			MonthName:                    d.Month().String(),
			Day:                          d.Day(),
			DayName:                      d.Weekday().String(),
			ISOYear:                      isoYear,
			ISOWeek:                      isoWeek,
			ISODay:                       isoWeekday(d),
			IsWeekend:                    d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
			Season:                       seasonOf(d.Month()),
			IsBankHolidayAny:             ew || sc || ni,
			IsBankHolidayEnglandWales:    ew,
			IsBankHolidayScotland:        sc,
			IsBankHolidayNorthernIreland: ni,
		})
	}
	return days
}

// ISOWeekStart returns the Monday of the given ISO week.
func ISOWeekStart(isoYear, isoWeek int) time.Time {
	// January 4th is always inside ISO week 1.
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -(isoWeekday(jan4) - 1))
	return monday.AddDate(0, 0, (isoWeek-1)*7)
}

// isoWeekday maps Go's Sunday-based weekday to ISO's Monday=1..Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func seasonOf(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
