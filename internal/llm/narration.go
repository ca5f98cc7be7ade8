// Event and branch narration — converts raw simulation output into prose
// via Haiku. Optional: every caller checks client.Enabled() first and
// falls back to the structured data alone when no API key is configured.
package llm

import (
	"fmt"
	"strings"
)

// NarrateEvent produces a one- or two-sentence prose gloss for a single
// world event, given a short free-text description of its surrounding
// context. Returns an error if client is nil or unconfigured; callers
// treat that as "skip narration", not a fatal condition.
func NarrateEvent(client *Client, eventDesc string, worldContext string) (string, error) {
	if !client.Enabled() {
		return "", fmt.Errorf("LLM client not configured")
	}

	system := `You narrate events from a deterministic world simulation for a human operator skimming a log. Write 1-2 plain, concrete sentences describing what happened and why it matters. No flourishes, no invented detail beyond what's given.`

	prompt := fmt.Sprintf("World context: %s\n\nEvent: %s", worldContext, eventDesc)

	return client.Complete(system, prompt, 120)
}

// NarrateBranch summarizes what a single explored branch did differently
// from the source timeline, given the proposal's label and the events it
// produced. Returns an error if client is nil or unconfigured.
func NarrateBranch(client *Client, label string, eventDescs []string) (string, error) {
	if !client.Enabled() {
		return "", fmt.Errorf("LLM client not configured")
	}

	system := `You summarize a single "what if" branch explored against a deterministic world simulation, for a human operator deciding whether the divergence is worth pursuing. Write 2-3 plain sentences: what changed, and what followed. No flourishes.`

	prompt := fmt.Sprintf("Branch: %s\n\nEvents produced:\n- %s", label, strings.Join(eventDescs, "\n- "))

	return client.Complete(system, prompt, 200)
}
