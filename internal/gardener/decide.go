package gardener

import (
	"fmt"

	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/snapshot"
	"github.com/talgya/worldfabric/internal/valuemap"
)

// maxProposals bounds how many branches a single Decide call produces,
// mirroring the crisis-scaled "up to 3 interventions" policy this
// package used to apply to live interventions.
const maxProposals = 3

// Proposal names a single divergence worth branching on.
type Proposal struct {
	Label  string
	Action snapshot.DivergenceAction
}

// Decide turns a WorldHealth triage into a set of branch proposals: one
// reverse-outcome proposal per high-significance event, newest first, up
// to maxProposals. A HEALTHY world with nothing notable to reverse
// yields no proposals — there is nothing worth branching on.
func Decide(health *WorldHealth) []Proposal {
	var proposals []Proposal
	for _, e := range health.HighSignificance {
		if len(proposals) >= maxProposals {
			break
		}
		proposals = append(proposals, Proposal{
			Label: fmt.Sprintf("reverse event #%d (%s)", e.ID, e.Subtype),
			Action: snapshot.ReverseOutcome{
				EventID:   event.EventID(e.ID),
				PatchData: valuemap.Record{"reversed_by": valuemap.Str("gardener")},
			},
		})
	}
	return proposals
}
