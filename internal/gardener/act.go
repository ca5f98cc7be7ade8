package gardener

import (
	"fmt"

	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/snapshot"
)

// BranchResult is what came of running one proposal against the saved
// snapshot.
type BranchResult struct {
	Label     string
	Events    []event.WorldEvent
	Err       error
	Narration string // filled in by Narrate, empty unless an LLM client is configured
}

// Act creates and runs one branch per proposal against snap, for ticks
// ticks each, using factory to build each branch's engine. A branch is
// deleted from runner immediately after running — Act is a one-shot
// analysis pass, not an interactive branch explorer.
func Act(runner *snapshot.Runner, snap *snapshot.Snapshot, proposals []Proposal, ticks uint64, seed uint32, factory snapshot.EngineFactory) []BranchResult {
	results := make([]BranchResult, 0, len(proposals))
	for _, p := range proposals {
		branch, err := runner.CreateBranch(snap, p.Action, p.Label, seed)
		if err != nil {
			results = append(results, BranchResult{Label: p.Label, Err: fmt.Errorf("create branch: %w", err)})
			continue
		}

		events, err := runner.RunBranch(branch.ID, ticks, factory)
		runner.DeleteBranch(branch.ID)
		if err != nil {
			results = append(results, BranchResult{Label: p.Label, Err: fmt.Errorf("run branch: %w", err)})
			continue
		}
		results = append(results, BranchResult{Label: p.Label, Events: events})
	}
	return results
}
