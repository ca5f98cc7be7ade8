package gardener

import (
	"testing"

	"github.com/talgya/worldfabric/internal/snapshot"
)

func TestDecideReturnsNoProposalsWhenHealthy(t *testing.T) {
	health := &WorldHealth{CrisisLevel: "HEALTHY"}
	proposals := Decide(health)
	if len(proposals) != 0 {
		t.Fatalf("expected no proposals for a healthy world, got %d", len(proposals))
	}
}

func TestDecideProposesReverseOutcomePerHighSignificanceEvent(t *testing.T) {
	health := &WorldHealth{
		CrisisLevel: "WARNING",
		HighSignificance: []EventInfo{
			{ID: 5, Subtype: "disaster.flood", Significance: 90},
			{ID: 3, Subtype: "warfare.raid", Significance: 75},
		},
	}
	proposals := Decide(health)
	if len(proposals) != 2 {
		t.Fatalf("expected 2 proposals, got %d", len(proposals))
	}
	action, ok := proposals[0].Action.(snapshot.ReverseOutcome)
	if !ok {
		t.Fatalf("expected a ReverseOutcome action, got %T", proposals[0].Action)
	}
	if action.EventID != 5 {
		t.Fatalf("expected proposal to target event 5, got %d", action.EventID)
	}
}

func TestDecideCapsAtMaxProposals(t *testing.T) {
	health := &WorldHealth{CrisisLevel: "CRITICAL"}
	for i := 0; i < maxProposals+5; i++ {
		health.HighSignificance = append(health.HighSignificance, EventInfo{ID: uint64(i), Significance: 80})
	}
	proposals := Decide(health)
	if len(proposals) != maxProposals {
		t.Fatalf("expected %d proposals, got %d", maxProposals, len(proposals))
	}
}
