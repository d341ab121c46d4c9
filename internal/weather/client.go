// Package weather pulls hourly UK Met Office forecasts from Open-Meteo
// and aggregates them to the route-day weather table.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/winterpeaks/tourdw/internal/logging"
)

// DefaultURL is the Open-Meteo forecast endpoint. The UK Met Office model
// is selected with the models parameter, not a separate host.
const (
	DefaultURL = "https://api.open-meteo.com/v1/forecast"
	Model      = "ukmo_seamless"
)

var hourlyMeasures = "temperature_2m,precipitation,snowfall,wind_speed_10m,wind_gusts_10m,weather_code"

// Hour is one hourly observation for a route. Pointer fields are nil where
// the feed returned null for that hour.
type Hour struct {
	RouteID       int
	Time          string
	Temperature   *float64
	Precipitation *float64
	Snowfall      *float64
	WindSpeed     *float64
	WindGusts     *float64
	WeatherCode   *int
	Model         string
}

// hourlyPayload mirrors Open-Meteo's parallel-array hourly block.
type hourlyPayload struct {
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature2M []*float64 `json:"temperature_2m"`
		Precipitation []*float64 `json:"precipitation"`
		Snowfall      []*float64 `json:"snowfall"`
		WindSpeed10M  []*float64 `json:"wind_speed_10m"`
		WindGusts10M  []*float64 `json:"wind_gusts_10m"`
		WeatherCode   []*int     `json:"weather_code"`
	} `json:"hourly"`
}

// Client fetches hourly forecasts from Open-Meteo.
type Client struct {
	url    string
	client *http.Client
}

// NewClient returns a client for the given endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		url: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchHourly pulls the hourly UKMO forecast for one route's coordinates.
// Timestamps come back as local Europe/London ISO strings.
func (c *Client) FetchHourly(ctx context.Context, routeID int, lat, lon float64) ([]Hour, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("hourly", hourlyMeasures)
	params.Set("models", Model)
	params.Set("timezone", "Europe/London")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	logging.Debug().
		Int("route_id", routeID).
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("Fetching hourly weather")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var payload hourlyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	h := payload.Hourly
	hours := make([]Hour, 0, len(h.Time))
	for i, t := range h.Time {
		hours = append(hours, Hour{
			RouteID:       routeID,
			Time:          t,
			Temperature:   floatAt(h.Temperature2M, i),
			Precipitation: floatAt(h.Precipitation, i),
			Snowfall:      floatAt(h.Snowfall, i),
			WindSpeed:     floatAt(h.WindSpeed10M, i),
			WindGusts:     floatAt(h.WindGusts10M, i),
			WeatherCode:   intAt(h.WeatherCode, i),
			Model:         "open-meteo-" + Model,
		})
	}
	return hours, nil
}

func floatAt(arr []*float64, i int) *float64 {
	if i < len(arr) {
		return arr[i]
	}
	return nil
}

func intAt(arr []*int, i int) *int {
	if i < len(arr) {
		return arr[i]
	}
	return nil
}
