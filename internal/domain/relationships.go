package domain

import (
	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/rng"
	"github.com/talgya/worldfabric/internal/scheduler"
)

// relationDrift and grudgeToRelationWeight translate a character's
// standing grudges into a relation delta against the faction their
// target belongs to, grounded on internal/social/faction.go's
// Relations map (there a flat faction-to-faction score, here driven
// per-character through GrudgeBook rather than scripted at seed time).
const (
	relationDrift          = 0.5 // per-Annual passive drift toward 0
	grudgeToRelationWeight = 0.1
)

// Relationships runs Annual, decaying every character's grudges and
// translating the surviving severity into a drift on a faction-to-faction
// relation score (keyed by the factions named in each character's
// Membership) that the system keeps in its own map. It is the one
// reference system that reads and writes GrudgeBook rather than owning
// component state exclusively.
type Relationships struct {
	rng    *rng.Stream
	book   *GrudgeBook
	scores map[ecs.EntityID]map[ecs.EntityID]float64 // holder faction -> target faction -> score
}

// NewRelationships returns a relationships system seeded from the
// engine's "faction" fork, backed by book.
func NewRelationships(stream *rng.Stream, book *GrudgeBook) *Relationships {
	return &Relationships{
		rng:    stream,
		book:   book,
		scores: make(map[ecs.EntityID]map[ecs.EntityID]float64),
	}
}

func (r *Relationships) Name() string                      { return "relationships" }
func (r *Relationships) Frequency() scheduler.TickFrequency { return scheduler.Annual }
func (r *Relationships) ExecutionOrder() int32              { return 30 }

const ticksPerYear = 360

func (r *Relationships) Execute(world *ecs.World, tick uint64, bus *event.Bus) {
	r.book.DecayAll(tick, ticksPerYear)

	for _, id := range world.Query(ecs.KindMembership) {
		membership, ok := ecs.GetComponent[ecs.Membership](world, id, ecs.KindMembership)
		if !ok {
			continue
		}
		holderFaction := membership.FactionID

		for _, g := range r.book.Grudges(ecs.CharacterID(id)) {
			targetMembership, ok := ecs.GetComponent[ecs.Membership](world, ecs.EntityID(g.Against), ecs.KindMembership)
			if !ok || targetMembership.FactionID == holderFaction {
				continue
			}

			byTarget, ok := r.scores[holderFaction]
			if !ok {
				byTarget = make(map[ecs.EntityID]float64)
				r.scores[holderFaction] = byTarget
			}
			byTarget[targetMembership.FactionID] -= g.Severity * grudgeToRelationWeight
		}
	}

	for holder, byTarget := range r.scores {
		for target, score := range byTarget {
			if score > 0 {
				score -= relationDrift
				if score < 0 {
					score = 0
				}
			} else if score < 0 {
				score += relationDrift
				if score > 0 {
					score = 0
				}
			}
			byTarget[target] = score

			if score <= -50 {
				bus.Emit(event.WorldEvent{
					Category:     event.CategoryWarfare,
					Subtype:      "relationships.hostility_threshold",
					Timestamp:    tick,
					Participants: []ecs.EntityID{holder, target},
					Significance: 60,
				})
			}
		}
	}
}
