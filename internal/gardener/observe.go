// Package gardener is an offline analysis tool: it observes a running
// simulation over its HTTP API, triages recent events into a health
// report, proposes branch divergences worth exploring, and runs each
// candidate against the last saved snapshot to see how it plays out
// before anyone touches the live world.
package gardener

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusInfo mirrors GET /api/v1/status.
type StatusInfo struct {
	Tick        uint64 `json:"tick"`
	Time        string `json:"time"`
	EntityCount int    `json:"entityCount"`
	EventCount  int    `json:"eventCount"`
	Speed       string `json:"speed"`
}

// EventInfo mirrors one element of GET /api/v1/events.
type EventInfo struct {
	ID           uint64 `json:"id"`
	Category     int    `json:"category"`
	Subtype      string `json:"subtype"`
	Timestamp    uint64 `json:"timestamp"`
	Significance int    `json:"significance"`
}

// WorldReport holds everything gathered during one observation cycle.
type WorldReport struct {
	Status       StatusInfo  `json:"status"`
	RecentEvents []EventInfo `json:"recentEvents"`
}

// Observer fetches world state from the HTTP API.
type Observer struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewObserver creates an Observer targeting the given API base URL.
func NewObserver(baseURL string) *Observer {
	return &Observer{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// lookbackTicks bounds how far back Observe asks for events, per cycle.
const lookbackTicks = 90

// Observe fetches status and the recent event window and returns a
// WorldReport.
func (o *Observer) Observe() (*WorldReport, error) {
	report := &WorldReport{}
	if err := o.fetchJSON("/api/v1/status", &report.Status); err != nil {
		return nil, fmt.Errorf("gardener: fetch status: %w", err)
	}

	from := uint64(0)
	if report.Status.Tick > lookbackTicks {
		from = report.Status.Tick - lookbackTicks
	}
	path := fmt.Sprintf("/api/v1/events?from=%d&to=%d", from, report.Status.Tick)
	if err := o.fetchJSON(path, &report.RecentEvents); err != nil {
		return nil, fmt.Errorf("gardener: fetch events: %w", err)
	}

	return report, nil
}

func (o *Observer) fetchJSON(path string, target any) error {
	resp, err := o.HTTPClient.Get(o.BaseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
