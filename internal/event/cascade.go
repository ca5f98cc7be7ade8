package event

import (
	"log/slog"
	"sort"

	"github.com/talgya/worldfabric/internal/rng"
	"github.com/talgya/worldfabric/internal/valuemap"
)

// EvaluatorFn is a named probability modifier, applied multiplicatively
// to a consequence rule's base probability.
type EvaluatorFn func(parent WorldEvent, depth int) float64

// Cascade turns a fired event's ConsequencePotential into scheduled,
// delayed follow-on events. It owns an exclusive RNG fork (spec.md §5:
// "the cascade engine uses its own fork") and is registered onto the Bus
// by the simulation engine so every emitted event — from a system or from
// a prior cascade — is inspected for further consequences.
type Cascade struct {
	maxDepth int
	rng      *rng.Stream

	evaluators map[string]EvaluatorFn
	depth      map[EventID]int

	// pending holds scheduled-but-not-yet-due events, keyed by the tick
	// they become due, in the order they were scheduled.
	pending map[uint64][]pendingEvent
}

type pendingEvent struct {
	event  WorldEvent
	parent EventID
}

// NewCascade creates a cascade engine with the given max depth (spec.md
// §4.4 default 10) and RNG fork.
func NewCascade(maxDepth int, source *rng.Stream) *Cascade {
	if maxDepth <= 0 {
		maxDepth = 10
	}
	return &Cascade{
		maxDepth:   maxDepth,
		rng:        source,
		evaluators: make(map[string]EvaluatorFn),
		depth:      make(map[EventID]int),
		pending:    make(map[uint64][]pendingEvent),
	}
}

// RegisterEvaluator adds a named probability modifier. An event's
// ConsequenceRule.Evaluator referencing an unregistered name is treated
// as "no modifier" (logged, not an error) per spec.md §4.4.
func (c *Cascade) RegisterEvaluator(name string, fn EvaluatorFn) {
	c.evaluators[name] = fn
}

// OnEvent inspects e's ConsequencePotential and schedules any rules that
// fire. Call this from a Bus any-subscription so every emitted event —
// original or cascaded — is considered. log is needed only to allocate
// the new event's id (the new event is not appended to log here; it is
// appended when Drain flushes it at its due tick).
func (c *Cascade) OnEvent(e WorldEvent, log *Log) {
	depth := c.depth[e.ID] // zero value for events never seen before: depth 0

	for _, rule := range e.ConsequencePotential {
		if depth >= c.maxDepth {
			continue // depth overflow: drop the rule silently
		}

		modifier := 1.0
		if rule.Evaluator != "" {
			fn, ok := c.evaluators[rule.Evaluator]
			if !ok {
				slog.Warn("cascade: unknown evaluator, using no modifier", "evaluator", rule.Evaluator)
			} else {
				modifier = fn(e, depth)
			}
		}

		probability := rule.BaseProbability * pow(rule.Dampening, depth) * modifier
		if c.rng.Next() >= probability {
			continue
		}

		childID := log.Allocate()
		dueTick := e.Timestamp + rule.DelayTicks
		child := WorldEvent{
			ID:           childID,
			Category:     rule.Category,
			Subtype:      rule.EventSubtype,
			Timestamp:    dueTick,
			Participants: append([]EntityID(nil), e.Participants...),
			Causes:       []EventID{e.ID},
			Data:         valuemap.Record{},
			Significance: e.Significance,
		}
		c.depth[childID] = depth + 1
		c.pending[dueTick] = append(c.pending[dueTick], pendingEvent{event: child, parent: e.ID})
	}
}

// Drain flushes every scheduled event due at or before tick, in
// (dueTick, insertion-order) sequence, appending each to log and
// recording the parent->child consequence link, then emitting it through
// bus (which re-triggers OnEvent for further cascades at the new depth).
func (c *Cascade) Drain(tick uint64, log *Log, bus *Bus) {
	var dueTicks []uint64
	for due := range c.pending {
		if due <= tick {
			dueTicks = append(dueTicks, due)
		}
	}
	sort.Slice(dueTicks, func(i, j int) bool { return dueTicks[i] < dueTicks[j] })

	for _, due := range dueTicks {
		for _, p := range c.pending[due] {
			log.appendConsequence(p.parent, p.event.ID)
			if err := log.Append(p.event); err != nil {
				slog.Warn("cascade: dropping undeliverable event", "event_id", p.event.ID, "error", err)
				continue
			}
			bus.Emit(p.event)
		}
		delete(c.pending, due)
	}
}

func pow(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
