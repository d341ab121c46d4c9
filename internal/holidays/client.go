package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/winterpeaks/tourdw/internal/logging"
)

// DefaultURL is the public GOV.UK bank holiday feed.
const DefaultURL = "https://www.gov.uk/bank-holidays.json"

// Client fetches the GOV.UK bank holiday calendar.
type Client struct {
	url    string
	client *http.Client
}

// NewClient returns a client for the given feed URL.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads and parses the calendar.
func (c *Client) Fetch(ctx context.Context) (Calendar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	logging.Debug().Str("url", c.url).Msg("Fetching bank holiday calendar")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var cal Calendar
	if err := json.NewDecoder(resp.Body).Decode(&cal); err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}

	events := 0
	for _, d := range cal {
		events += len(d.Events)
	}
	logging.Info().
		Int("divisions", len(cal)).
		Int("events", events).
		Msg("Fetched bank holiday calendar")
	return cal, nil
}
