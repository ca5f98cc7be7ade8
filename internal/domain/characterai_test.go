package domain

import (
	"testing"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/rng"
)

func newCharacterAIWorld(health float64, sociability float64) (*ecs.World, ecs.EntityID) {
	world := ecs.NewWorld()
	ecs.RegisterComponent[ecs.Health](world, ecs.KindHealth)
	ecs.RegisterComponent[ecs.Personality](world, ecs.KindPersonality)
	ecs.RegisterComponent[ecs.Status](world, ecs.KindStatus)

	id := world.CreateEntity()
	ecs.AddComponent(world, id, ecs.KindHealth, ecs.Health{Value: health})
	ecs.AddComponent(world, id, ecs.KindPersonality, ecs.Personality{Traits: map[string]float64{"sociability": sociability}})
	return world, id
}

func TestLowHealthRestsInsteadOfActing(t *testing.T) {
	world, id := newCharacterAIWorld(0.1, 0.5)
	bus := event.NewBus()
	ai := NewCharacterAI(rng.New(1).Fork(1, "character"))

	ai.Execute(world, 1, bus)

	health, _ := ecs.GetComponent[ecs.Health](world, id, ecs.KindHealth)
	if health.Value <= 0.1 {
		t.Fatalf("expected resting to raise health, got %f", health.Value)
	}
	status, ok := ecs.GetComponent[ecs.Status](world, id, ecs.KindStatus)
	if !ok || !status.Flags["resting"] {
		t.Fatal("expected resting status flag set")
	}
}

func TestHighSociabilityAlwaysSocializes(t *testing.T) {
	world, _ := newCharacterAIWorld(0.9, 1.0)
	bus := event.NewBus()
	var socialized, worked int
	bus.OnSubtype("character.socialized", func(e event.WorldEvent) { socialized++ })
	bus.OnSubtype("character.worked", func(e event.WorldEvent) { worked++ })

	ai := NewCharacterAI(rng.New(1).Fork(1, "character"))
	ai.Execute(world, 1, bus)

	if socialized != 1 || worked != 0 {
		t.Fatalf("expected exactly one socialize event and no work event, got socialized=%d worked=%d", socialized, worked)
	}
}

func TestZeroSociabilityAlwaysWorks(t *testing.T) {
	world, _ := newCharacterAIWorld(0.9, 0.0)
	bus := event.NewBus()
	var worked int
	bus.OnSubtype("character.worked", func(e event.WorldEvent) { worked++ })

	ai := NewCharacterAI(rng.New(1).Fork(1, "character"))
	ai.Execute(world, 1, bus)

	if worked != 1 {
		t.Fatalf("expected exactly one work event, got %d", worked)
	}
}
