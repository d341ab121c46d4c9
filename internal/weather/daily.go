package weather

import (
	"sort"
	"strings"
	"time"

	"github.com/winterpeaks/tourdw/internal/dataset"
)

// BuildDaily aggregates hourly observations to (route_id, date) grain:
// temperature mean/min/max, precipitation and snowfall sums, wind maxima
// and the modal weather code. Null hours are skipped per measure; hours
// with an unparseable timestamp are dropped. Ties in the code mode break
// toward the smallest code.
func BuildDaily(hours []Hour) []dataset.WeatherDay {
	type grain struct {
		routeID int
		date    string
	}
	type acc struct {
		tempSum   float64
		tempCount int
		tempMin   float64
		tempMax   float64
		precip    float64
		snowfall  float64
		windMax   float64
		gustsMax  float64
		codes     map[int]int
	}

	groups := make(map[grain]*acc)
	for _, h := range hours {
		date, ok := dateOf(h.Time)
		if !ok {
			continue
		}
		g := grain{h.RouteID, date}
		a := groups[g]
		if a == nil {
			a = &acc{codes: make(map[int]int)}
			groups[g] = a
		}
		if h.Temperature != nil {
			v := *h.Temperature
			if a.tempCount == 0 || v < a.tempMin {
				a.tempMin = v
			}
			if a.tempCount == 0 || v > a.tempMax {
				a.tempMax = v
			}
			a.tempSum += v
			a.tempCount++
		}
		if h.Precipitation != nil {
			a.precip += *h.Precipitation
		}
		if h.Snowfall != nil {
			a.snowfall += *h.Snowfall
		}
		if h.WindSpeed != nil && *h.WindSpeed > a.windMax {
			a.windMax = *h.WindSpeed
		}
		if h.WindGusts != nil && *h.WindGusts > a.gustsMax {
			a.gustsMax = *h.WindGusts
		}
		if h.WeatherCode != nil {
			a.codes[*h.WeatherCode]++
		}
	}

	days := make([]dataset.WeatherDay, 0, len(groups))
	for g, a := range groups {
		day, _ := time.Parse("2006-01-02", g.date)
		wd := dataset.WeatherDay{
			RouteID:         g.routeID,
			Date:            day,
			PrecipSum:       a.precip,
			SnowfallSum:     a.snowfall,
			WindSpeedMax:    a.windMax,
			WindGustsMax:    a.gustsMax,
			WeatherCodeMode: modalCode(a.codes),
		}
		if a.tempCount > 0 {
			wd.TempMean = a.tempSum / float64(a.tempCount)
			wd.TempMin = a.tempMin
			wd.TempMax = a.tempMax
		}
		days = append(days, wd)
	}

	sort.Slice(days, func(i, j int) bool {
		if days[i].RouteID != days[j].RouteID {
			return days[i].RouteID < days[j].RouteID
		}
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// dateOf extracts the date part of a local ISO timestamp like
// "2026-01-17T08:00".
func dateOf(ts string) (string, bool) {
	date, _, _ := strings.Cut(ts, "T")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", false
	}
	return date, true
}

func modalCode(codes map[int]int) int {
	mode, best := 0, 0
	for code, n := range codes {
		if n > best || (n == best && best > 0 && code < mode) {
			mode, best = code, n
		}
	}
	return mode
}
