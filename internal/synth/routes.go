package synth

import (
	"fmt"
	"math"
	"sort"

	"github.com/winterpeaks/tourdw/internal/dataset"
)

// regionBounds box the deterministic route placement per region.
type bounds struct {
	latMin, latMax float64
	lonMin, lonMax float64
}

var regionBounds = map[string]bounds{
	"lake_district": {latMin: 54.35, latMax: 54.70, lonMin: -3.35, lonMax: -2.80},
	"wales":         {latMin: 51.55, latMax: 53.35, lonMin: -4.40, lonMax: -2.70},
	"scotland":      {latMin: 56.60, latMax: 58.60, lonMin: -6.30, lonMax: -3.10},
	"peak_district": {latMin: 53.20, latMax: 54.15, lonMin: -2.55, lonMax: -1.55},
}

var regionNames = []string{"lake_district", "scotland", "wales", "peak_district"}
var regionWeights = []int{35, 25, 22, 18}

var difficulties = []string{"easy", "moderate", "hard", "severe"}
var difficultyWeights = []int{25, 40, 25, 10}

// Route names compose a landmark from the route's region with a tour
// style, so a Snowdonia name never lands in the Cairngorms.
var regionLandmarks = map[string][]string{
	"lake_district": {
		"Helvellyn", "Striding Edge", "Cat Bells", "Scafell Pike", "Blencathra",
		"Haystacks", "Great Gable", "Coniston Old Man", "Fairfield", "Skiddaw",
	},
	"wales": {
		"Snowdon", "Tryfan", "Glyder Fawr", "Cadair Idris", "Crib Goch",
		"Pen y Fan", "Carnedd Llewelyn", "Y Garn", "Moel Siabod",
	},
	"scotland": {
		"Ben Nevis", "Cairn Gorm", "Buachaille Etive Mor", "An Teallach",
		"Ben Macdui", "Liathach", "Schiehallion", "Ben Lawers", "Stob Ban",
	},
	"peak_district": {
		"Kinder Scout", "Mam Tor", "Stanage Edge", "Bleaklow", "The Roaches",
		"Win Hill", "Chrome Hill", "Higger Tor",
	},
}

var tourStyles = []string{
	"Winter Ascent", "Horseshoe", "Circuit", "Ridge Traverse",
	"Scramble", "Classic Round", "Edge Walk", "Summit Path",
}

// GenerateRoutes builds n routes with weighted regions and difficulties.
// Coordinates are placed inside the region's bounding box by hashing the
// route's identity, so a route keeps its spot across regenerations that
// preserve id, name and region.
func GenerateRoutes(f *Faker, n int) []dataset.Route {
	routes := make([]dataset.Route, 0, n)
	used := make(map[string]bool)

	for id := 1; id <= n; id++ {
		region := ChooseWeighted(f, regionNames, regionWeights)
		name := routeName(f, region)
		for attempt := 0; used[name] && attempt < 10; attempt++ {
			name = routeName(f, region)
		}
		if used[name] {
			name = fmt.Sprintf("%s %d", name, id)
		}
		used[name] = true

		b := regionBounds[region]
		key := fmt.Sprintf("%d-%s-%s", id, name, region)
		u := hashToUnit(key)
		v := hashToUnit(reverse(key))

		routes = append(routes, dataset.Route{
			RouteID:       id,
			RouteName:     name,
			Region:        region,
			GPXPath:       fmt.Sprintf("data/gpx/route_%d.gpx", id),
			DistanceKM:    round1(f.Float64(4, 24)),
			DurationHours: round2(f.Float64(2.5, 9.5)),
			Difficulty:    ChooseWeighted(f, difficulties, difficultyWeights),
			RouteLat:      round5(b.latMin + u*(b.latMax-b.latMin)),
			RouteLon:      round5(b.lonMin + v*(b.lonMax-b.lonMin)),
		})
	}

	sort.Slice(routes, func(i, j int) bool { return routes[i].RouteID < routes[j].RouteID })
	return routes
}

func routeName(f *Faker, region string) string {
	return Choose(f, regionLandmarks[region]) + " " + Choose(f, tourStyles)
}

// hashToUnit maps a string to a stable float in [0, 1) with 32-bit FNV-1a,
// deterministic across runs and platforms.
func hashToUnit(s string) float64 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return float64(h%10_000_000) / 10_000_000
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round5(v float64) float64 { return math.Round(v*100000) / 100000 }
