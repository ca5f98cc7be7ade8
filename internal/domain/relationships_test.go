package domain

import (
	"testing"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/rng"
)

func TestRelationshipsDriftsTowardHostilityFromGrudges(t *testing.T) {
	world := ecs.NewWorld()
	ecs.RegisterComponent[ecs.Membership](world, ecs.KindMembership)

	holder := world.CreateEntity()
	target := world.CreateEntity()
	ecs.AddComponent(world, holder, ecs.KindMembership, ecs.Membership{FactionID: 1})
	ecs.AddComponent(world, target, ecs.KindMembership, ecs.Membership{FactionID: 2})

	book := NewGrudgeBook()
	book.Intensify(ecs.CharacterID(holder), ecs.CharacterID(target), 700, 1, 0)

	bus := event.NewBus()
	var hostility int
	bus.OnSubtype("relationships.hostility_threshold", func(e event.WorldEvent) { hostility++ })

	r := NewRelationships(rng.New(3).Fork(3, "faction"), book)
	r.Execute(world, ticksPerYear, bus)

	score := r.scores[1][2]
	if score >= 0 {
		t.Fatalf("expected negative relation score after a heavy grudge, got %f", score)
	}
	if hostility == 0 {
		t.Fatal("expected a hostility_threshold event once the score crosses -50")
	}
}

func TestRelationshipsDriftDecaysTowardZeroWithoutNewGrudges(t *testing.T) {
	world := ecs.NewWorld()
	ecs.RegisterComponent[ecs.Membership](world, ecs.KindMembership)

	book := NewGrudgeBook()
	bus := event.NewBus()
	r := NewRelationships(rng.New(3).Fork(3, "faction"), book)
	r.scores[1] = map[ecs.EntityID]float64{2: -10}

	r.Execute(world, ticksPerYear, bus)

	if r.scores[1][2] <= -10 {
		t.Fatalf("expected score to drift toward zero, got %f", r.scores[1][2])
	}
}
