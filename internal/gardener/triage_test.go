package gardener

import (
	"testing"

	"github.com/talgya/worldfabric/internal/event"
)

func TestTriageHealthyWithNoNotableEvents(t *testing.T) {
	report := &WorldReport{RecentEvents: []EventInfo{
		{ID: 1, Category: int(event.CategoryCharacterAI), Significance: 10},
	}}
	health := Triage(report)
	if health.CrisisLevel != "HEALTHY" {
		t.Fatalf("expected HEALTHY, got %s", health.CrisisLevel)
	}
	if len(health.HighSignificance) != 0 {
		t.Fatalf("expected no high-significance events, got %d", len(health.HighSignificance))
	}
}

func TestTriageCriticalOnThreeDisasters(t *testing.T) {
	report := &WorldReport{RecentEvents: []EventInfo{
		{ID: 1, Category: int(event.CategoryDisaster), Significance: 90},
		{ID: 2, Category: int(event.CategoryDisaster), Significance: 90},
		{ID: 3, Category: int(event.CategoryDisaster), Significance: 90},
	}}
	health := Triage(report)
	if health.CrisisLevel != "CRITICAL" {
		t.Fatalf("expected CRITICAL, got %s", health.CrisisLevel)
	}
	if health.DisasterCount != 3 {
		t.Fatalf("expected 3 disasters counted, got %d", health.DisasterCount)
	}
}

func TestTriageWarningOnSingleDisasterOrThreeWars(t *testing.T) {
	oneDisaster := Triage(&WorldReport{RecentEvents: []EventInfo{
		{ID: 1, Category: int(event.CategoryDisaster), Significance: 10},
	}})
	if oneDisaster.CrisisLevel != "WARNING" {
		t.Fatalf("expected WARNING for a single disaster, got %s", oneDisaster.CrisisLevel)
	}

	threeWars := Triage(&WorldReport{RecentEvents: []EventInfo{
		{ID: 1, Category: int(event.CategoryWarfare), Significance: 10},
		{ID: 2, Category: int(event.CategoryWarfare), Significance: 10},
		{ID: 3, Category: int(event.CategoryWarfare), Significance: 10},
	}})
	if threeWars.CrisisLevel != "WARNING" {
		t.Fatalf("expected WARNING for three warfare events, got %s", threeWars.CrisisLevel)
	}
}

func TestTriageWatchOnSingleWar(t *testing.T) {
	health := Triage(&WorldReport{RecentEvents: []EventInfo{
		{ID: 1, Category: int(event.CategoryWarfare), Significance: 10},
	}})
	if health.CrisisLevel != "WATCH" {
		t.Fatalf("expected WATCH, got %s", health.CrisisLevel)
	}
}

func TestTriageHighSignificanceOrderedNewestFirst(t *testing.T) {
	report := &WorldReport{RecentEvents: []EventInfo{
		{ID: 1, Significance: 70, Subtype: "first"},
		{ID: 2, Significance: 20, Subtype: "skipped"},
		{ID: 3, Significance: 90, Subtype: "second"},
	}}
	health := Triage(report)
	if len(health.HighSignificance) != 2 {
		t.Fatalf("expected 2 high-significance events, got %d", len(health.HighSignificance))
	}
	if health.HighSignificance[0].Subtype != "second" || health.HighSignificance[1].Subtype != "first" {
		t.Fatalf("expected newest-first order, got %+v", health.HighSignificance)
	}
}
