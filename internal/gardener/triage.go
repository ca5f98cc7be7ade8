package gardener

import "github.com/talgya/worldfabric/internal/event"

// WorldHealth holds derived diagnostic signals computed from a
// WorldReport. Deterministic and free — runs before any branch is
// created.
type WorldHealth struct {
	DisasterCount    int
	WarfareCount     int
	HighSignificance []EventInfo // significance >= highSignificanceThreshold, most recent first
	CrisisLevel      string      // "CRITICAL", "WARNING", "WATCH", "HEALTHY"
}

const highSignificanceThreshold = 60

// Triage computes a WorldHealth from the report's recent event window.
func Triage(report *WorldReport) *WorldHealth {
	h := &WorldHealth{CrisisLevel: "HEALTHY"}

	for i := len(report.RecentEvents) - 1; i >= 0; i-- {
		e := report.RecentEvents[i]
		switch event.Category(e.Category) {
		case event.CategoryDisaster:
			h.DisasterCount++
		case event.CategoryWarfare:
			h.WarfareCount++
		}
		if e.Significance >= highSignificanceThreshold {
			h.HighSignificance = append(h.HighSignificance, e)
		}
	}

	switch {
	case h.DisasterCount >= 3:
		h.CrisisLevel = "CRITICAL"
	case h.DisasterCount >= 1 || h.WarfareCount >= 3:
		h.CrisisLevel = "WARNING"
	case h.WarfareCount >= 1:
		h.CrisisLevel = "WATCH"
	}

	return h
}
