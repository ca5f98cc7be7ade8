package spatial

import (
	"testing"

	"github.com/talgya/worldfabric/internal/ecs"
)

// TestScenarioS4 mirrors spec.md §8 scenario S4.
func TestScenarioS4(t *testing.T) {
	idx := NewIndex(Bounds{0, 0, 1000, 1000}, 16, 10)

	const (
		e1 ecs.EntityID = 1
		e2 ecs.EntityID = 2
		e3 ecs.EntityID = 3
	)

	if !idx.AddEntity(e1, 10, 10) {
		t.Fatal("expected add e1 to succeed")
	}
	if !idx.AddEntity(e2, 15, 15) {
		t.Fatal("expected add e2 to succeed")
	}
	if !idx.AddEntity(e3, 900, 900) {
		t.Fatal("expected add e3 to succeed")
	}

	got := toSet(idx.QueryRadius(10, 10, 20))
	want := toSet([]ecs.EntityID{e1, e2})
	if !setsEqual(got, want) {
		t.Fatalf("before move: got %v, want %v", got, want)
	}

	idx.MoveEntity(e1, 900, 900)

	got = toSet(idx.QueryRadius(10, 10, 20))
	want = toSet([]ecs.EntityID{e2})
	if !setsEqual(got, want) {
		t.Fatalf("after move, near-origin set: got %v, want %v", got, want)
	}

	got = toSet(idx.QueryRadius(900, 900, 1))
	want = toSet([]ecs.EntityID{e1, e3})
	if !setsEqual(got, want) {
		t.Fatalf("after move, near-(900,900) set: got %v, want %v", got, want)
	}
}

func TestAddEntityReplacesPriorPosition(t *testing.T) {
	idx := NewIndex(Bounds{0, 0, 100, 100}, 16, 10)
	idx.AddEntity(1, 5, 5)
	idx.AddEntity(1, 50, 50)

	if idx.Size() != 1 {
		t.Fatalf("expected exactly one tracked position, got %d", idx.Size())
	}
	p, ok := idx.Position(1)
	if !ok || p.X != 50 || p.Y != 50 {
		t.Fatalf("expected entity re-keyed to (50,50), got %+v", p)
	}
	if len(idx.QueryRadius(5, 5, 1)) != 0 {
		t.Fatal("expected no entity left at old position")
	}
}

func toSet(ids []ecs.EntityID) map[ecs.EntityID]struct{} {
	s := make(map[ecs.EntityID]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func setsEqual(a, b map[ecs.EntityID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
