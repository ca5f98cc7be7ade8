package ecs

import "testing"

func TestEntityLifecycle(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity()
	b := w.CreateEntity()

	if a == b {
		t.Fatal("expected distinct ids")
	}
	if !w.IsAlive(a) || !w.IsAlive(b) {
		t.Fatal("expected both entities alive")
	}
	if w.EntityCount() != 2 {
		t.Fatalf("expected 2 alive entities, got %d", w.EntityCount())
	}

	w.DestroyEntity(a)
	if w.IsAlive(a) {
		t.Fatal("expected a to be dead")
	}
	if w.EntityCount() != 1 {
		t.Fatalf("expected 1 alive entity after destroy, got %d", w.EntityCount())
	}

	// ids are never reused
	c := w.CreateEntity()
	if c == a {
		t.Fatal("destroyed id was reused")
	}
}

func TestComponentStoreRoundTrip(t *testing.T) {
	w := NewWorld()
	RegisterComponent[Position](w, KindPosition)

	e := w.CreateEntity()
	if err := AddComponent(w, e, KindPosition, Position{X: 1, Y: 2}); err != nil {
		t.Fatal(err)
	}

	pos, ok := GetComponent[Position](w, e, KindPosition)
	if !ok || pos.X != 1 || pos.Y != 2 {
		t.Fatalf("expected {1 2}, got %+v ok=%v", pos, ok)
	}

	w.RemoveComponent(e, KindPosition)
	if _, ok := GetComponent[Position](w, e, KindPosition); ok {
		t.Fatal("expected component removed")
	}

	// removing an already-absent component is a no-op, not an error
	w.RemoveComponent(e, KindPosition)
}

func TestDestroyEntityRemovesAllComponents(t *testing.T) {
	w := NewWorld()
	RegisterComponent[Position](w, KindPosition)
	RegisterComponent[Health](w, KindHealth)

	e := w.CreateEntity()
	_ = AddComponent(w, e, KindPosition, Position{X: 1, Y: 1})
	_ = AddComponent(w, e, KindHealth, Health{Value: 1})

	w.DestroyEntity(e)

	if _, ok := GetComponent[Position](w, e, KindPosition); ok {
		t.Fatal("expected Position gone after destroy")
	}
	if _, ok := GetComponent[Health](w, e, KindHealth); ok {
		t.Fatal("expected Health gone after destroy")
	}
}

func TestQueryIntersection(t *testing.T) {
	w := NewWorld()
	RegisterComponent[Position](w, KindPosition)
	RegisterComponent[Health](w, KindHealth)

	both := w.CreateEntity()
	onlyPos := w.CreateEntity()

	_ = AddComponent(w, both, KindPosition, Position{})
	_ = AddComponent(w, both, KindHealth, Health{Value: 1})
	_ = AddComponent(w, onlyPos, KindPosition, Position{})

	got := w.Query(KindPosition, KindHealth)
	if len(got) != 1 || got[0] != both {
		t.Fatalf("expected only %v, got %v", both, got)
	}
}

func TestAddComponentUnregisteredKindFails(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()
	if err := AddComponent(w, e, KindPosition, Position{}); err == nil {
		t.Fatal("expected error for unregistered kind")
	}
}
