package gardener

import (
	"fmt"

	"github.com/talgya/worldfabric/internal/llm"
)

// Narrate fills in a one-paragraph English gloss for each successful
// branch result, via client. A nil or unconfigured client is a no-op —
// narration is decoration on top of the deterministic triage/decide/act
// pipeline, never a dependency of it. Failed branches and narration
// failures are left without a Narration rather than aborting the run.
func Narrate(client *llm.Client, results []BranchResult) []BranchResult {
	if !client.Enabled() {
		return results
	}
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		descs := make([]string, 0, len(r.Events))
		for _, e := range r.Events {
			descs = append(descs, fmt.Sprintf("%s (significance %d)", e.Subtype, e.Significance))
		}
		prose, err := llm.NarrateBranch(client, r.Label, descs)
		if err != nil {
			continue
		}
		results[i].Narration = prose
	}
	return results
}
