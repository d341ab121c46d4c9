//-------------------------------------------------------------------------
//
// Winter Peaks Tour Warehouse
//
// Portions copyright (c) 2025 - 2026, Winter Peaks Outdoors Ltd.
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package quality validates a built dataset before it is snapshotted or
// loaded. Checks run in a fixed order and all of them run even after a
// failure, so one report lists everything wrong with a build.
package quality

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/fatih/color"

	"github.com/winterpeaks/tourdw/internal/dataset"
	"github.com/winterpeaks/tourdw/internal/synth"
)

// Status classifies a check outcome. A FAIL aborts the pipeline before
// anything is written; a WARN is reported and the build continues.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Check is the outcome of one validation rule.
type Check struct {
	Name   string
	Status Status
	Detail string
}

// Report collects every check outcome for one dataset build.
type Report struct {
	Checks []Check
}

func (r *Report) add(name string, status Status, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Status: status, Detail: detail})
}

func (r *Report) ok(name, detail string)   { r.add(name, StatusOK, detail) }
func (r *Report) warn(name, detail string) { r.add(name, StatusWarn, detail) }
func (r *Report) fail(name, detail string) { r.add(name, StatusFail, detail) }

// Failed reports whether any check failed.
func (r *Report) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

// Warnings counts the checks that ended in WARN.
func (r *Report) Warnings() int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == StatusWarn {
			n++
		}
	}
	return n
}

// Tolerances for derived monetary columns. Values are rounded to two
// decimal places during synthesis, so recomputing them from their inputs
// can drift by a cent or two.
const (
	moneyTolerance = 0.03
	marginPctMin   = 0.30
	marginPctMax   = 0.50
)

// Validate runs every data quality rule against a built dataset. The
// rules mirror the warehouse contract: core tables non-empty, booking
// ids unique, every fact key resolving in its dimension, and booking
// economics inside the ranges the synthesiser promises.
func Validate(ds *dataset.Dataset) *Report {
	r := &Report{}

	checkCoreTables(r, ds)
	checkBookingFields(r, ds.Bookings)
	checkBookingIDUnique(r, ds.Bookings)
	checkReferentialIntegrity(r, ds)
	checkValueRanges(r, ds.Bookings)
	checkMarginBounds(r, ds.Bookings)
	checkVATArithmetic(r, ds.Bookings)

	return r
}

func checkCoreTables(r *Report, ds *dataset.Dataset) {
	empty := []string{}
	core := []struct {
		name string
		rows int
	}{
		{"dim_route", len(ds.Routes)},
		{"dim_guide", len(ds.Guides)},
		{"dim_date", len(ds.Calendar)},
		{"fact_bookings", len(ds.Bookings)},
	}
	for _, t := range core {
		if t.rows == 0 {
			empty = append(empty, t.name)
		}
	}

	// Rollups derive from bookings, so they may only be empty when
	// bookings are. Weather and the forecast are skippable stages and
	// are never required.
	if len(ds.Bookings) > 0 {
		if len(ds.RouteDays) == 0 {
			empty = append(empty, "fact_route_day")
		}
		if len(ds.RouteWeeks) == 0 {
			empty = append(empty, "fact_route_week")
		}
	}

	if len(empty) > 0 {
		r.fail("core tables", fmt.Sprintf("empty tables: %v", empty))
		return
	}
	r.ok("core tables", fmt.Sprintf("%d routes, %d guides, %d calendar days, %d bookings",
		len(ds.Routes), len(ds.Guides), len(ds.Calendar), len(ds.Bookings)))
}

func checkBookingFields(r *Report, bookings []dataset.Booking) {
	bad := 0
	for _, b := range bookings {
		if b.BookingDate.IsZero() || b.DateKey == 0 || b.Region == "" || b.Difficulty == "" || b.Season == "" {
			bad++
		}
	}
	if bad > 0 {
		r.fail("booking fields", fmt.Sprintf("%d bookings with missing required fields", bad))
		return
	}
	r.ok("booking fields", "required booking fields populated")
}

func checkBookingIDUnique(r *Report, bookings []dataset.Booking) {
	seen := make(map[int]bool, len(bookings))
	dup := 0
	for _, b := range bookings {
		if seen[b.BookingID] {
			dup++
		}
		seen[b.BookingID] = true
	}
	if dup > 0 {
		r.fail("booking_id uniqueness", fmt.Sprintf("%d duplicate booking_id values", dup))
		return
	}
	r.ok("booking_id uniqueness", fmt.Sprintf("unique across %d rows", len(bookings)))
}

func checkReferentialIntegrity(r *Report, ds *dataset.Dataset) {
	routeIDs := make(map[int]bool, len(ds.Routes))
	for _, rt := range ds.Routes {
		routeIDs[rt.RouteID] = true
	}
	guideIDs := make(map[int]bool, len(ds.Guides))
	for _, g := range ds.Guides {
		guideIDs[g.GuideID] = true
	}
	dateKeys := make(map[int]bool, len(ds.Calendar))
	for _, d := range ds.Calendar {
		dateKeys[d.DateKey] = true
	}

	badRoutes := map[int]bool{}
	badGuides := map[int]bool{}
	badDates := map[int]bool{}
	for _, b := range ds.Bookings {
		if !routeIDs[b.RouteID] {
			badRoutes[b.RouteID] = true
		}
		if !guideIDs[b.GuideID] {
			badGuides[b.GuideID] = true
		}
		if !dateKeys[b.DateKey] {
			badDates[b.DateKey] = true
		}
	}

	failed := false
	if len(badRoutes) > 0 {
		r.fail("referential integrity", fmt.Sprintf("invalid route_id values: %v", sample(badRoutes)))
		failed = true
	}
	if len(badGuides) > 0 {
		r.fail("referential integrity", fmt.Sprintf("invalid guide_id values: %v", sample(badGuides)))
		failed = true
	}
	if len(badDates) > 0 {
		r.fail("referential integrity", fmt.Sprintf("invalid date_key values: %v", sample(badDates)))
		failed = true
	}
	if !failed {
		r.ok("referential integrity", "route_id, guide_id and date_key all resolve")
	}
}

// sample returns up to ten offending keys in ascending order.
func sample(keys map[int]bool) []int {
	out := make([]int, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Ints(out)
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func checkValueRanges(r *Report, bookings []dataset.Booking) {
	nonPositiveParty := 0
	negativeSales := 0
	for _, b := range bookings {
		if b.PartySize <= 0 {
			nonPositiveParty++
		}
		if b.SalesExVAT < 0 || b.SalesIncVAT < 0 {
			negativeSales++
		}
	}
	if nonPositiveParty > 0 {
		r.fail("value ranges", fmt.Sprintf("%d bookings with non-positive party_size", nonPositiveParty))
		return
	}
	if negativeSales > 0 {
		r.fail("value ranges", fmt.Sprintf("%d bookings with negative sales", negativeSales))
		return
	}
	r.ok("value ranges", "party_size positive, sales non-negative")
}

func checkMarginBounds(r *Report, bookings []dataset.Booking) {
	minM, maxM := math.Inf(1), math.Inf(-1)
	outside := 0
	for _, b := range bookings {
		if b.MarginPct < minM {
			minM = b.MarginPct
		}
		if b.MarginPct > maxM {
			maxM = b.MarginPct
		}
		if b.MarginPct < marginPctMin || b.MarginPct > marginPctMax {
			outside++
		}
	}
	if outside > 0 {
		r.fail("margin bounds", fmt.Sprintf("margin_pct outside %.2f-%.2f range (min=%.4f, max=%.4f)",
			marginPctMin, marginPctMax, minM, maxM))
		return
	}
	r.ok("margin bounds", fmt.Sprintf("margin_pct within %.2f-%.2f", marginPctMin, marginPctMax))
}

func checkVATArithmetic(r *Report, bookings []dataset.Booking) {
	maxVATDiff := 0.0
	maxIncDiff := 0.0
	for _, b := range bookings {
		if d := math.Abs(b.VATAmount - b.SalesExVAT*synth.VATRate); d > maxVATDiff {
			maxVATDiff = d
		}
		if d := math.Abs(b.SalesIncVAT - (b.SalesExVAT + b.VATAmount)); d > maxIncDiff {
			maxIncDiff = d
		}
	}

	if maxVATDiff > moneyTolerance {
		r.warn("VAT arithmetic", fmt.Sprintf("max VAT diff %.4f exceeds tolerance %.2f", maxVATDiff, moneyTolerance))
	} else {
		r.ok("VAT arithmetic", fmt.Sprintf("vat_amount within %.2f of sales_ex_vat * %.2f", moneyTolerance, synth.VATRate))
	}

	if maxIncDiff > moneyTolerance {
		r.warn("inc-VAT arithmetic", fmt.Sprintf("max inc-VAT diff %.4f exceeds tolerance %.2f", maxIncDiff, moneyTolerance))
	} else {
		r.ok("inc-VAT arithmetic", fmt.Sprintf("sales_inc_vat within %.2f of sales_ex_vat + vat_amount", moneyTolerance))
	}
}

// Render writes one line per check with a colored status tag, then a
// one-line summary.
func Render(w io.Writer, r *Report) {
	for _, c := range r.Checks {
		fmt.Fprintf(w, "%s %s: %s\n", statusTag(c.Status), c.Name, c.Detail)
	}

	failed := 0
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			failed++
		}
	}
	fmt.Fprintf(w, "%d checks: %d ok, %d warnings, %d failures\n",
		len(r.Checks), len(r.Checks)-failed-r.Warnings(), r.Warnings(), failed)
}

func statusTag(s Status) string {
	switch s {
	case StatusOK:
		return color.GreenString("[OK]")
	case StatusWarn:
		return color.YellowString("[WARN]")
	default:
		return color.RedString("[FAIL]")
	}
}
