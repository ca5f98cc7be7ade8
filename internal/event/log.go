package event

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/talgya/worldfabric/internal/simerr"
)

// Log is the append-only event store with the four indices spec.md §3
// names: byId, byEntity, byCategory, and a time-sorted byTime view kept
// in non-decreasing timestamp order via binary-search insertion.
type Log struct {
	nextID EventID

	byID         map[EventID]WorldEvent
	byEntity     map[EntityID][]EventID
	byCategory   map[Category][]EventID
	byTime       []WorldEvent
	consequences map[EventID][]EventID
}

// NewLog creates an empty event log.
func NewLog() *Log {
	return &Log{
		byID:         make(map[EventID]WorldEvent),
		byEntity:     make(map[EntityID][]EventID),
		byCategory:   make(map[Category][]EventID),
		consequences: make(map[EventID][]EventID),
	}
}

// Allocate hands out the next EventID. The cascade engine and domain
// systems call this before constructing a WorldEvent so the id is known
// ahead of Append.
func (l *Log) Allocate() EventID {
	l.nextID++
	return l.nextID
}

// RestoreNextID advances the id counter past id without allocating, so a
// restored log resumes Allocate from where the captured one left off.
func (l *Log) RestoreNextID(id EventID) {
	if id > l.nextID {
		l.nextID = id
	}
}

// NextID reports the most recently allocated id (Allocate hands out
// NextID()+1 next), for snapshot capture.
func (l *Log) NextID() EventID {
	return l.nextID
}

// Append inserts e into every index. Every cause of e must already be in
// the log (causal closure, spec.md §8 invariant 3); Append returns
// ErrInvalidArgument otherwise.
func (l *Log) Append(e WorldEvent) error {
	for _, c := range e.Causes {
		if _, ok := l.byID[c]; !ok {
			return fmt.Errorf("event: cause %d of event %d not present in log: %w", c, e.ID, simerr.ErrInvalidArgument)
		}
	}

	e = e.Clone()
	l.byID[e.ID] = e
	for _, p := range e.Participants {
		l.byEntity[p] = append(l.byEntity[p], e.ID)
	}
	l.byCategory[e.Category] = append(l.byCategory[e.Category], e.ID)

	// Upper-bound search: the insertion point is just past every existing
	// event with timestamp <= e.Timestamp, so ties land after whatever was
	// already appended (stable insertion order for equal timestamps).
	idx, _ := slices.BinarySearchFunc(l.byTime, e, func(a, b WorldEvent) int {
		if a.Timestamp > b.Timestamp {
			return 1
		}
		return -1
	})
	l.byTime = slices.Insert(l.byTime, idx, e)

	for _, c := range e.Causes {
		// The cascade engine may already have linked this child via
		// appendConsequence; record each parent->child link once.
		if !slices.Contains(l.consequences[c], e.ID) {
			l.consequences[c] = append(l.consequences[c], e.ID)
		}
	}
	return nil
}

// GetByID returns the event with id, if present.
func (l *Log) GetByID(id EventID) (WorldEvent, bool) {
	e, ok := l.byID[id]
	return e, ok
}

// GetByEntity returns every event that lists id among its participants,
// in append order.
func (l *Log) GetByEntity(id EntityID) []WorldEvent {
	ids := l.byEntity[id]
	out := make([]WorldEvent, 0, len(ids))
	for _, eid := range ids {
		out = append(out, l.byID[eid])
	}
	return out
}

// GetByCategory returns every event in category cat, in append order.
func (l *Log) GetByCategory(cat Category) []WorldEvent {
	ids := l.byCategory[cat]
	out := make([]WorldEvent, 0, len(ids))
	for _, eid := range ids {
		out = append(out, l.byID[eid])
	}
	return out
}

// GetByTimeRange returns every event with lo <= timestamp <= hi,
// inclusive on both ends (spec.md §8 invariant 7).
func (l *Log) GetByTimeRange(lo, hi uint64) []WorldEvent {
	start, _ := slices.BinarySearchFunc(l.byTime, lo, func(e WorldEvent, t uint64) int {
		if e.Timestamp < t {
			return -1
		}
		return 1
	})
	end, _ := slices.BinarySearchFunc(l.byTime, hi, func(e WorldEvent, t uint64) int {
		if e.Timestamp <= t {
			return -1
		}
		return 1
	})
	if start >= end {
		return nil
	}
	out := make([]WorldEvent, end-start)
	copy(out, l.byTime[start:end])
	return out
}

// Consequences returns the ids of events directly caused by id, in the
// order the cascade engine appended them.
func (l *Log) Consequences(id EventID) []EventID {
	return append([]EventID(nil), l.consequences[id]...)
}

// appendConsequence records that child was caused by parent. Called by
// the cascade engine immediately before Append-ing the child event, so
// Log.GetCascade can walk forward from parent without waiting on the
// child's own Causes field (which Append already validates).
func (l *Log) appendConsequence(parent, child EventID) {
	l.consequences[parent] = append(l.consequences[parent], child)
}

// GetChain performs a backward BFS over causes starting from eid,
// excluding eid itself, guaranteeing termination via a visited set
// (spec.md §9: cycle policy is unspecified upstream, so the core
// requires BFS-with-visited).
func (l *Log) GetChain(eid EventID) []WorldEvent {
	visited := map[EventID]bool{eid: true}
	queue := append([]EventID(nil), l.byID[eid].Causes...)
	var out []WorldEvent
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		e, ok := l.byID[id]
		if !ok {
			continue
		}
		out = append(out, e)
		queue = append(queue, e.Causes...)
	}
	return out
}

// GetCascade performs a forward BFS over consequences starting from eid,
// excluding eid itself.
func (l *Log) GetCascade(eid EventID) []WorldEvent {
	visited := map[EventID]bool{eid: true}
	queue := append([]EventID(nil), l.consequences[eid]...)
	var out []WorldEvent
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		e, ok := l.byID[id]
		if !ok {
			continue
		}
		out = append(out, e)
		queue = append(queue, l.consequences[id]...)
	}
	return out
}

// Len returns the total number of events in the log.
func (l *Log) Len() int {
	return len(l.byID)
}

// All returns every event in byTime order (non-decreasing timestamp,
// insertion order within a timestamp).
func (l *Log) All() []WorldEvent {
	out := make([]WorldEvent, len(l.byTime))
	copy(out, l.byTime)
	return out
}

// Clear empties every index. Used for explicit pruning (spec.md §5
// memory policy).
func (l *Log) Clear() {
	l.byID = make(map[EventID]WorldEvent)
	l.byEntity = make(map[EntityID][]EventID)
	l.byCategory = make(map[Category][]EventID)
	l.byTime = nil
	l.consequences = make(map[EventID][]EventID)
}
