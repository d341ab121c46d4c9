//-------------------------------------------------------------------------
//
// Winter Peaks Tour Warehouse
//
// Portions copyright (c) 2025 - 2026, Winter Peaks Outdoors Ltd.
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package holidays fetches the GOV.UK bank holiday calendar and reshapes
// it into the holiday dimension, the date bridge, and the per-division
// flag sets consumed by the date dimension.
package holidays

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/winterpeaks/tourdw/internal/dataset"
)

// Division keys as published by GOV.UK.
const (
	DivisionEnglandWales    = "england-and-wales"
	DivisionScotland        = "scotland"
	DivisionNorthernIreland = "northern-ireland"
)

// Event is one bank holiday entry within a division.
type Event struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Notes   string `json:"notes"`
	Bunting bool   `json:"bunting"`
}

// Division is one division block of the GOV.UK payload.
type Division struct {
	Division string  `json:"division"`
	Events   []Event `json:"events"`
}

// Calendar is the parsed GOV.UK bank holiday calendar keyed by division.
type Calendar map[string]Division

// closureKeywords mark holidays on which tours do not run. Matching is a
// case-insensitive substring test; the curly-apostrophe variant appears in
// the live GOV.UK feed.
var closureKeywords = []string{
	"Christmas Day",
	"Boxing Day",
	"New Year",
	"New Year's Day",
	"New Year’s Day",
	"Good Friday",
	"Easter Monday",
}

// Events returns the event list for a division, nil when the division is
// not present in the calendar.
func (c Calendar) Events(division string) []Event {
	return c[division].Events
}

// Flags converts the calendar into the per-division date sets that flag
// rows of the date dimension.
func (c Calendar) Flags() dataset.HolidayFlags {
	return dataset.HolidayFlags{
		EnglandWales:    c.dateSet(DivisionEnglandWales),
		Scotland:        c.dateSet(DivisionScotland),
		NorthernIreland: c.dateSet(DivisionNorthernIreland),
	}
}

func (c Calendar) dateSet(division string) map[string]bool {
	set := make(map[string]bool)
	for _, ev := range c[division].Events {
		set[ev.Date] = true
	}
	return set
}

// ClosedDates returns the division's holiday dates on which tours are
// closed, keyed by ISO date string.
func (c Calendar) ClosedDates(division string) map[string]bool {
	closed := make(map[string]bool)
	for _, ev := range c[division].Events {
		title := strings.ToLower(ev.Title)
		for _, kw := range closureKeywords {
			if strings.Contains(title, strings.ToLower(kw)) {
				closed[ev.Date] = true
				break
			}
		}
	}
	return closed
}

// BuildHolidayDim flattens the calendar into dim_bank_holiday rows sorted
// by date, division and title, with duplicates removed. The surrogate key
// hashes "division|date|title" so identical feeds always produce identical
// ids.
func BuildHolidayDim(cal Calendar) ([]dataset.BankHoliday, error) {
	var rows []dataset.BankHoliday
	seen := make(map[string]bool)

	for divisionKey, division := range cal {
		for _, ev := range division.Events {
			date, err := time.Parse("2006-01-02", ev.Date)
			if err != nil {
				return nil, fmt.Errorf("parse holiday date %q (%s): %w", ev.Date, ev.Title, err)
			}
			key := divisionKey + "|" + ev.Date + "|" + ev.Title
			if seen[key] {
				continue
			}
			seen[key] = true
			rows = append(rows, dataset.BankHoliday{
				BankHolidayID: holidayID(key),
				Date:          date,
				Division:      divisionKey,
				Title:         ev.Title,
				Notes:         ev.Notes,
				Bunting:       ev.Bunting,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		if rows[i].Division != rows[j].Division {
			return rows[i].Division < rows[j].Division
		}
		return rows[i].Title < rows[j].Title
	})
	return rows, nil
}

// BuildHolidayBridge derives the (date, division, bank_holiday_id) bridge
// from the holiday dimension, ordered by date then division.
func BuildHolidayBridge(dim []dataset.BankHoliday) []dataset.HolidayDate {
	bridge := make([]dataset.HolidayDate, 0, len(dim))
	for _, bh := range dim {
		bridge = append(bridge, dataset.HolidayDate{
			Date:          bh.Date,
			Division:      bh.Division,
			BankHolidayID: bh.BankHolidayID,
		})
	}
	sort.Slice(bridge, func(i, j int) bool {
		if !bridge[i].Date.Equal(bridge[j].Date) {
			return bridge[i].Date.Before(bridge[j].Date)
		}
		return bridge[i].Division < bridge[j].Division
	})
	return bridge
}

// RegionDivisions maps tour regions to their bank holiday division. Every
// English and Welsh region shares the england-and-wales calendar.
func RegionDivisions() []dataset.RegionDivision {
	return []dataset.RegionDivision{
		{Region: "lake_district", Division: DivisionEnglandWales},
		{Region: "peak_district", Division: DivisionEnglandWales},
		{Region: "wales", Division: DivisionEnglandWales},
		{Region: "scotland", Division: DivisionScotland},
	}
}

// DivisionForRegion resolves a region's division, defaulting to
// england-and-wales for regions without an explicit mapping.
func DivisionForRegion(region string) string {
	for _, rd := range RegionDivisions() {
		if rd.Region == region {
			return rd.Division
		}
	}
	return DivisionEnglandWales
}

func holidayID(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64() % 1_000_000_000_000)
}
