package domain

import (
	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/rng"
	"github.com/talgya/worldfabric/internal/scheduler"
)

// birthRate and deathRate are applied per-Monthly tick, per settlement
// population count, grounded on internal/social/settlement.go's implied
// growth bookkeeping (Population.Births/Deaths fields already tracked
// per-settlement there, here driven by an explicit system instead of ad
// hoc mutation).
const (
	birthRate = 0.02
	deathRate = 0.015
)

// Population runs Monthly, drawing births and deaths for every entity
// with a Population component from its own RNG fork, and emitting a
// Population-category event whenever it draws nonzero births or deaths
// for a settlement (even if the two cancel out).
type Population struct {
	rng *rng.Stream
}

// NewPopulation returns a population system seeded from the engine's
// "population" fork.
func NewPopulation(stream *rng.Stream) *Population {
	return &Population{rng: stream}
}

func (p *Population) Name() string                      { return "population" }
func (p *Population) Frequency() scheduler.TickFrequency { return scheduler.Monthly }
func (p *Population) ExecutionOrder() int32              { return 10 }

func (p *Population) Execute(world *ecs.World, tick uint64, bus *event.Bus) {
	for _, id := range world.Query(ecs.KindPopulation) {
		pop, ok := ecs.GetComponent[ecs.Population](world, id, ecs.KindPopulation)
		if !ok {
			continue
		}

		births := uint32(p.rng.NextGaussian(float64(pop.Count)*birthRate, float64(pop.Count)*birthRate*0.3))
		deaths := uint32(p.rng.NextGaussian(float64(pop.Count)*deathRate, float64(pop.Count)*deathRate*0.3))
		if births == 0 && deaths == 0 {
			continue
		}

		pop.Births = births
		pop.Deaths = deaths
		newCount := int64(pop.Count) + int64(births) - int64(deaths)
		if newCount < 0 {
			newCount = 0
		}
		pop.Count = uint32(newCount)
		ecs.AddComponent(world, id, ecs.KindPopulation, pop)

		bus.Emit(event.WorldEvent{
			Category:     event.CategoryPopulation,
			Subtype:      "population.vital_rates",
			Timestamp:    tick,
			Participants: []ecs.EntityID{id},
			Significance: 20,
		})
	}
}
