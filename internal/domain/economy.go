package domain

import (
	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/rng"
	"github.com/talgya/worldfabric/internal/scheduler"
)

// priceFloorRatio and priceCeilingRatio bound price drift relative to a
// good's production cost, grounded on internal/economy/goods.go's
// ResolvePrice floor/ceiling clamp (there expressed via golden-ratio
// numerology constants; here as plain ratios, since nothing in
// SPEC_FULL.md's economy model needs that numerology).
const (
	priceFloorRatio   = 0.5
	priceCeilingRatio = 3.0
)

// Economy runs Weekly, resolving a market price for each entity carrying
// both Population and Government components from its recent births and
// deaths and its tax rate against a fixed base price, and emitting an
// Economy-category event when price moves by more than 10%.
type Economy struct {
	rng    *rng.Stream
	prices map[ecs.EntityID]float64 // settlement entity -> last resolved price
}

// NewEconomy returns an economy system seeded from the engine's
// "economic" fork.
func NewEconomy(stream *rng.Stream) *Economy {
	return &Economy{rng: stream, prices: make(map[ecs.EntityID]float64)}
}

func (e *Economy) Name() string                      { return "economy" }
func (e *Economy) Frequency() scheduler.TickFrequency { return scheduler.Weekly }
func (e *Economy) ExecutionOrder() int32              { return 20 }

func (e *Economy) Execute(world *ecs.World, tick uint64, bus *event.Bus) {
	const basePrice = 10.0

	for _, id := range world.Query(ecs.KindPopulation, ecs.KindGovernment) {
		pop, _ := ecs.GetComponent[ecs.Population](world, id, ecs.KindPopulation)
		gov, _ := ecs.GetComponent[ecs.Government](world, id, ecs.KindGovernment)

		demandPressure := 1.0 + float64(pop.Births)*0.01 - float64(pop.Deaths)*0.01
		taxDrag := 1.0 - gov.TaxRate*0.2
		noise := e.rng.NextFloat(0.95, 1.05)

		price := basePrice * demandPressure * taxDrag * noise
		floor, ceiling := basePrice*priceFloorRatio, basePrice*priceCeilingRatio
		if price < floor {
			price = floor
		}
		if price > ceiling {
			price = ceiling
		}

		prev, known := e.prices[id]
		e.prices[id] = price
		if known && (price > prev*1.1 || price < prev*0.9) {
			bus.Emit(event.WorldEvent{
				Category:     event.CategoryEconomy,
				Subtype:      "economy.price_shift",
				Timestamp:    tick,
				Participants: []ecs.EntityID{id},
				Significance: 35,
			})
		}
	}
}
