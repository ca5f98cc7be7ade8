// Package event implements the world's event fabric: the WorldEvent value
// type, the synchronous EventBus, the append-only indexed EventLog, the
// significance-ordered EventQueue, and the CascadeEngine that turns
// consequencePotential rules into delayed follow-on events.
package event

import (
	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/valuemap"
)

// EntityID, EventID and SiteID reuse the ECS's entity-id family — the
// event fabric sits directly above the ECS in the leaf-first stack
// (SPEC_FULL.md §2) and addresses entities through the same handles.
type (
	EntityID = ecs.EntityID
	EventID  = ecs.EventID
	SiteID   = ecs.SiteID
)

// Category is one of the ten domain buckets plus two cross-cutting
// buckets: Personal (individual-scale, not tied to one domain system —
// used by the reference character-AI system and the determinism
// scenarios in spec.md §8) and Disaster (engine-level faults, per
// spec.md §4.7).
type Category uint8

const (
	CategoryCharacterAI Category = iota
	CategoryEconomy
	CategoryWarfare
	CategoryReligion
	CategoryCulture
	CategoryEcology
	CategoryPopulation
	CategoryMagic
	CategoryOralTradition
	CategoryDreaming
	CategoryPersonal
	CategoryDisaster
)

func (c Category) String() string {
	names := [...]string{
		"CharacterAI", "Economy", "Warfare", "Religion", "Culture",
		"Ecology", "Population", "Magic", "OralTradition", "Dreaming",
		"Personal", "Disaster",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// ConsequenceRule describes a probabilistic, delayed follow-on event the
// cascade engine may schedule whenever the parent event fires.
type ConsequenceRule struct {
	EventSubtype    string
	BaseProbability float64 // [0,1]
	Category        Category
	DelayTicks      uint64
	Dampening       float64 // [0,1], applied per cascade depth
	Evaluator       string  // optional probability-modifier registry key
}

// WorldEvent is immutable once constructed. Its forward consequences are
// not a field on the event itself — see SPEC_FULL.md §11 / spec.md §9
// design note on cyclic graphs — they live in the owning Log's
// consequencesByEvent map, queried via Log.Consequences.
type WorldEvent struct {
	ID                   EventID
	Category             Category
	Subtype              string
	Timestamp            uint64
	Participants         []EntityID // order significant to some systems
	Location             *SiteID
	Causes               []EventID
	Data                 valuemap.Record
	Significance         int // 0..100
	ConsequencePotential []ConsequenceRule
	TemporalOffset       *int64
}

// Clone deep-copies an event, as required for snapshot capture/restore
// independence (spec.md §3 Snapshot, §8 invariant 4).
func (e WorldEvent) Clone() WorldEvent {
	out := e
	if e.Location != nil {
		loc := *e.Location
		out.Location = &loc
	}
	if e.TemporalOffset != nil {
		off := *e.TemporalOffset
		out.TemporalOffset = &off
	}
	out.Participants = append([]EntityID(nil), e.Participants...)
	out.Causes = append([]EventID(nil), e.Causes...)
	out.ConsequencePotential = append([]ConsequenceRule(nil), e.ConsequencePotential...)
	out.Data = valuemap.CloneRecord(e.Data)
	return out
}
