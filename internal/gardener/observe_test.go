package gardener

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestObserveFetchesStatusAndEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/status":
			json.NewEncoder(w).Encode(StatusInfo{Tick: 120, EntityCount: 4, EventCount: 10})
		case "/api/v1/events":
			json.NewEncoder(w).Encode([]EventInfo{
				{ID: 1, Category: 11, Subtype: "disaster.flood", Timestamp: 100, Significance: 80},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	obs := NewObserver(srv.URL)
	report, err := obs.Observe()
	if err != nil {
		t.Fatal(err)
	}
	if report.Status.Tick != 120 {
		t.Fatalf("expected tick 120, got %d", report.Status.Tick)
	}
	if len(report.RecentEvents) != 1 || report.RecentEvents[0].Subtype != "disaster.flood" {
		t.Fatalf("unexpected events: %+v", report.RecentEvents)
	}
}

func TestObserveLooksBackFromCurrentTick(t *testing.T) {
	var gotFrom, gotTo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/status":
			json.NewEncoder(w).Encode(StatusInfo{Tick: 200})
		case "/api/v1/events":
			gotFrom = r.URL.Query().Get("from")
			gotTo = r.URL.Query().Get("to")
			json.NewEncoder(w).Encode([]EventInfo{})
		}
	}))
	defer srv.Close()

	if _, err := NewObserver(srv.URL).Observe(); err != nil {
		t.Fatal(err)
	}
	if gotFrom != "110" || gotTo != "200" {
		t.Fatalf("expected from=110 to=200, got from=%s to=%s", gotFrom, gotTo)
	}
}

func TestObserveReturnsErrorOnStatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewObserver(srv.URL).Observe(); err == nil {
		t.Fatal("expected error when status endpoint fails")
	}
}
