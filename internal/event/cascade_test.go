package event

import (
	"testing"

	"github.com/talgya/worldfabric/internal/rng"
)

// TestCascadeScenarioS2 mirrors spec.md §8 scenario S2: a certain
// (probability 1.0) consequence rule with a 2-tick delay and depth limit
// 1 produces exactly one child event, with the expected timestamp,
// causes, and subtype, and the parent's consequence link resolves to it.
func TestCascadeScenarioS2(t *testing.T) {
	log := NewLog()
	bus := NewBus()
	cascade := NewCascade(1, rng.New(1).Fork(1, "cascade"))
	bus.OnAny(func(e WorldEvent) { cascade.OnEvent(e, log) })

	e0id := log.Allocate()
	e0 := WorldEvent{
		ID:        e0id,
		Timestamp: 0,
		ConsequencePotential: []ConsequenceRule{
			{EventSubtype: "x.y", BaseProbability: 1.0, Category: CategoryPersonal, DelayTicks: 2, Dampening: 1.0},
		},
	}
	if err := log.Append(e0); err != nil {
		t.Fatal(err)
	}
	bus.Emit(e0)

	// run ticks 1..3, draining the cascade at the start of each.
	for tick := uint64(1); tick <= 3; tick++ {
		cascade.Drain(tick, log, bus)
	}

	if log.Len() != 2 {
		t.Fatalf("expected log size 2 (E0 + E1), got %d", log.Len())
	}

	children := log.Consequences(e0id)
	if len(children) != 1 {
		t.Fatalf("expected exactly one consequence, got %d", len(children))
	}

	child, ok := log.GetByID(children[0])
	if !ok {
		t.Fatal("expected child event in log")
	}
	if child.Timestamp != 2 {
		t.Fatalf("expected child timestamp 2, got %d", child.Timestamp)
	}
	if child.Subtype != "x.y" {
		t.Fatalf("expected subtype x.y, got %s", child.Subtype)
	}
	if len(child.Causes) != 1 || child.Causes[0] != e0id {
		t.Fatalf("expected causes=[%d], got %v", e0id, child.Causes)
	}
}

func TestCascadeDepthOverflowDropsSilently(t *testing.T) {
	log := NewLog()
	bus := NewBus()
	cascade := NewCascade(1, rng.New(1).Fork(1, "cascade"))
	bus.OnAny(func(e WorldEvent) { cascade.OnEvent(e, log) })

	rule := ConsequenceRule{EventSubtype: "x.y", BaseProbability: 1.0, Category: CategoryPersonal, DelayTicks: 1, Dampening: 1.0}

	id := log.Allocate()
	root := WorldEvent{ID: id, Timestamp: 0, ConsequencePotential: []ConsequenceRule{rule}}
	_ = log.Append(root)
	bus.Emit(root)
	cascade.Drain(1, log, bus) // fires depth-1 child (which itself carries no consequencePotential set below)

	// manually register the same consequencePotential on the depth-1 child
	// by re-emitting it with the rule attached, simulating a system that
	// keeps offering the same rule across generations.
	children := log.Consequences(id)
	if len(children) != 1 {
		t.Fatalf("expected one depth-1 child, got %d", len(children))
	}
	child, _ := log.GetByID(children[0])
	child.ConsequencePotential = []ConsequenceRule{rule}
	bus.Emit(child) // depth for this id is already recorded as 1 >= maxDepth(1): dropped
	cascade.Drain(2, log, bus)

	if len(log.Consequences(children[0])) != 0 {
		t.Fatal("expected depth overflow to drop the rule silently")
	}
}
