package domain

import (
	"testing"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/rng"
	"github.com/talgya/worldfabric/internal/worldtime"
)

func TestWeatherEmitsOnlyAboveThreshold(t *testing.T) {
	world := ecs.NewWorld()
	bus := event.NewBus()
	var severe int
	bus.OnSubtype("weather.severe_event", func(e event.WorldEvent) {
		severe++
		if e.Significance < int(stormThreshold*100) {
			t.Errorf("severe weather event emitted below threshold: significance %d", e.Significance)
		}
	})

	w := NewWeather(rng.New(7).Fork(7, "weather"))
	tick := worldtime.WorldTimeToTicks(worldtime.WorldTime{Year: 1, Month: 1, Day: 1})
	for i := uint64(0); i < 50; i++ {
		w.Execute(world, tick+i*90, bus)
	}

	if severe == 0 {
		t.Fatal("expected at least one severe weather event across 50 seasonal rolls")
	}
}

func TestWeatherIsDeterministicForSameSeed(t *testing.T) {
	world := ecs.NewWorld()

	run := func() []string {
		bus := event.NewBus()
		var subtypes []string
		bus.OnAny(func(e event.WorldEvent) { subtypes = append(subtypes, e.Subtype) })
		w := NewWeather(rng.New(99).Fork(99, "weather"))
		for i := uint64(0); i < 20; i++ {
			w.Execute(world, i*90, bus)
		}
		return subtypes
	}

	a := run()
	b := run()
	if len(a) != len(b) {
		t.Fatalf("expected identical event counts across runs, got %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("event %d diverged: %s vs %s", i, a[i], b[i])
		}
	}
}
