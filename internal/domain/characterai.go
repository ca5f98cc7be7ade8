package domain

import (
	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/rng"
	"github.com/talgya/worldfabric/internal/scheduler"
)

// healthDecayPerTick and healthRestPerTick are the per-Daily health
// delta applied absent intervention and when resting, grounded on
// internal/agents/behavior.go's applyRest/decideSurvival thresholds
// (there expressed as phi.Agnosis-derived rates; here as plain
// constants since internal/phi carries nothing else SPEC_FULL.md
// needs).
const (
	healthDecayPerTick = 0.01
	healthRestPerTick  = 0.08
	lowHealthThreshold = 0.3
)

// CharacterAI runs Daily, routing each character through the same
// needs-priority shape as Tier0Decide: survival (health) first, then a
// personality-driven fallback between working and socializing.
type CharacterAI struct {
	rng *rng.Stream
}

// NewCharacterAI returns a character-AI system seeded from the engine's
// "character" fork.
func NewCharacterAI(stream *rng.Stream) *CharacterAI {
	return &CharacterAI{rng: stream}
}

func (c *CharacterAI) Name() string                      { return "characterai" }
func (c *CharacterAI) Frequency() scheduler.TickFrequency { return scheduler.Daily }
func (c *CharacterAI) ExecutionOrder() int32              { return 5 }

func (c *CharacterAI) Execute(world *ecs.World, tick uint64, bus *event.Bus) {
	for _, id := range world.Query(ecs.KindHealth, ecs.KindPersonality) {
		health, _ := ecs.GetComponent[ecs.Health](world, id, ecs.KindHealth)
		personality, _ := ecs.GetComponent[ecs.Personality](world, id, ecs.KindPersonality)

		if health.Value < lowHealthThreshold {
			health.Value += healthRestPerTick
			if health.Value > 1.0 {
				health.Value = 1.0
			}
			ecs.AddComponent(world, id, ecs.KindHealth, health)
			c.setStatus(world, id, "resting", true)
			continue
		}

		health.Value -= healthDecayPerTick
		if health.Value < 0 {
			health.Value = 0
		}
		ecs.AddComponent(world, id, ecs.KindHealth, health)
		c.setStatus(world, id, "resting", false)

		sociability := personality.Traits["sociability"]
		roll := c.rng.NextFloat(0, 1)
		if roll < sociability {
			bus.Emit(event.WorldEvent{
				Category:     event.CategoryPersonal,
				Subtype:      "character.socialized",
				Timestamp:    tick,
				Participants: []ecs.EntityID{id},
				Significance: 10,
			})
			continue
		}

		bus.Emit(event.WorldEvent{
			Category:     event.CategoryPersonal,
			Subtype:      "character.worked",
			Timestamp:    tick,
			Participants: []ecs.EntityID{id},
			Significance: 5,
		})

		if health.Value == 0 {
			bus.Emit(event.WorldEvent{
				Category:     event.CategoryDisaster,
				Subtype:      "character.death",
				Timestamp:    tick,
				Participants: []ecs.EntityID{id},
				Significance: 90,
			})
		}
	}
}

func (c *CharacterAI) setStatus(world *ecs.World, id ecs.EntityID, flag string, value bool) {
	status, ok := ecs.GetComponent[ecs.Status](world, id, ecs.KindStatus)
	if !ok {
		status = ecs.Status{Flags: make(map[string]bool)}
	} else {
		status = status.Clone()
	}
	status.Flags[flag] = value
	ecs.AddComponent(world, id, ecs.KindStatus, status)
}
