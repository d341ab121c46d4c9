package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const forecastJSON = `{
  "hourly": {
    "time": ["2026-01-17T00:00", "2026-01-17T01:00"],
    "temperature_2m": [-1.4, null],
    "precipitation": [0.0, 0.3],
    "snowfall": [0.0, 0.7],
    "wind_speed_10m": [20.1, 24.9],
    "wind_gusts_10m": [38.2, 44.0],
    "weather_code": [71]
  }
}`

func TestFetchHourly(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastJSON))
	}))
	defer srv.Close()

	hours, err := NewClient(srv.URL, 5*time.Second).FetchHourly(context.Background(), 7, 54.45, -3.1)
	if err != nil {
		t.Fatalf("FetchHourly failed: %v", err)
	}

	if got := query["models"]; len(got) != 1 || got[0] != "ukmo_seamless" {
		t.Errorf("models param = %v, want ukmo_seamless", got)
	}
	if got := query["timezone"]; len(got) != 1 || got[0] != "Europe/London" {
		t.Errorf("timezone param = %v, want Europe/London", got)
	}
	if got := query["hourly"]; len(got) != 1 || got[0] != hourlyMeasures {
		t.Errorf("hourly param = %v, want %q", got, hourlyMeasures)
	}
	if got := query["latitude"]; len(got) != 1 || got[0] != "54.45" {
		t.Errorf("latitude param = %v, want 54.45", got)
	}

	if len(hours) != 2 {
		t.Fatalf("expected 2 hours, got %d", len(hours))
	}
	h0 := hours[0]
	if h0.RouteID != 7 {
		t.Errorf("RouteID = %d, want 7", h0.RouteID)
	}
	if h0.Time != "2026-01-17T00:00" {
		t.Errorf("Time = %q", h0.Time)
	}
	if h0.Temperature == nil || *h0.Temperature != -1.4 {
		t.Errorf("Temperature = %v, want -1.4", h0.Temperature)
	}
	if h0.WeatherCode == nil || *h0.WeatherCode != 71 {
		t.Errorf("WeatherCode = %v, want 71", h0.WeatherCode)
	}
	if h0.Model != "open-meteo-ukmo_seamless" {
		t.Errorf("Model = %q", h0.Model)
	}

	h1 := hours[1]
	if h1.Temperature != nil {
		t.Errorf("null temperature decoded as %v, want nil", *h1.Temperature)
	}
	// The code array is one element short; the missing tail reads as null.
	if h1.WeatherCode != nil {
		t.Errorf("missing weather code = %v, want nil", *h1.WeatherCode)
	}
	if h1.Precipitation == nil || *h1.Precipitation != 0.3 {
		t.Errorf("Precipitation = %v, want 0.3", h1.Precipitation)
	}
}

func TestFetchHourlyHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 5*time.Second).FetchHourly(context.Background(), 1, 54, -3)
	if err == nil {
		t.Fatal("expected error for 429 response, got nil")
	}
}
