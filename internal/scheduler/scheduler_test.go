package scheduler

import (
	"testing"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
)

type fakeSystem struct {
	name  string
	freq  TickFrequency
	order int32
	fn    func(*ecs.World, uint64, *event.Bus)
}

func (f *fakeSystem) Name() string                 { return f.name }
func (f *fakeSystem) Frequency() TickFrequency      { return f.freq }
func (f *fakeSystem) ExecutionOrder() int32         { return f.order }
func (f *fakeSystem) Execute(w *ecs.World, t uint64, b *event.Bus) {
	if f.fn != nil {
		f.fn(w, t, b)
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeSystem{name: "a", freq: Daily}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&fakeSystem{name: "a", freq: Weekly}); err == nil {
		t.Fatal("expected duplicate name registration to fail")
	}
}

func TestGetSystemsForTickFiltersByFrequency(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeSystem{name: "daily", freq: Daily})
	_ = r.Register(&fakeSystem{name: "weekly", freq: Weekly})

	got := r.GetSystemsForTick(7)
	if len(got) != 2 {
		t.Fatalf("expected both systems to run on tick 7, got %d", len(got))
	}

	got = r.GetSystemsForTick(8)
	if len(got) != 1 || got[0].Name() != "daily" {
		t.Fatalf("expected only daily system on tick 8, got %v", got)
	}
}

func TestOrderingByExecutionOrderThenRegistration(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeSystem{name: "second", freq: Daily, order: 10})
	_ = r.Register(&fakeSystem{name: "first", freq: Daily, order: 0})
	_ = r.Register(&fakeSystem{name: "also-first", freq: Daily, order: 0})

	got := r.GetSystemsForTick(1)
	names := []string{got[0].Name(), got[1].Name(), got[2].Name()}
	want := []string{"first", "also-first", "second"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got order %v, want %v", names, want)
		}
	}
}

func TestPanicRecoveredAndSurfaced(t *testing.T) {
	world := ecs.NewWorld()
	bus := event.NewBus()

	var captured []event.WorldEvent
	bus.OnAny(func(e event.WorldEvent) { captured = append(captured, e) })

	panicky := &fakeSystem{name: "boom", freq: Daily, fn: func(*ecs.World, uint64, *event.Bus) {
		panic("system exploded")
	}}

	err := Execute([]System{panicky}, world, 5, bus)
	if err == nil {
		t.Fatal("expected panic to surface as an error")
	}
	if len(captured) != 1 || captured[0].Subtype != "engine.system_failure" {
		t.Fatalf("expected a system_failure event to be emitted, got %v", captured)
	}
	if captured[0].Category != event.CategoryDisaster {
		t.Fatalf("expected Disaster category, got %v", captured[0].Category)
	}
}

func TestExecuteAbortsRemainingSystemsOnFault(t *testing.T) {
	world := ecs.NewWorld()
	bus := event.NewBus()

	ran := false
	panicky := &fakeSystem{name: "boom", freq: Daily, fn: func(*ecs.World, uint64, *event.Bus) { panic("x") }}
	after := &fakeSystem{name: "after", freq: Daily, fn: func(*ecs.World, uint64, *event.Bus) { ran = true }}

	_ = Execute([]System{panicky, after}, world, 1, bus)
	if ran {
		t.Fatal("expected systems after the fault to be skipped")
	}
}
