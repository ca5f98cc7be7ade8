// Package scheduler holds the System contract and the frequency-based
// registry that selects and orders systems for a given tick. Grounded on
// internal/engine/tick.go's callback-per-layer dispatch, generalized from
// fixed OnTick/OnHour/... callbacks to a registrable, named System
// interface per spec.md §4.7.
package scheduler

import (
	"fmt"
	"sort"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/simerr"
)

// TickFrequency is how often a System runs, expressed in ticks.
type TickFrequency uint64

const (
	Daily    TickFrequency = 1
	Weekly   TickFrequency = 7
	Monthly  TickFrequency = 30
	Seasonal TickFrequency = 90
	Annual   TickFrequency = 365
	Decadal  TickFrequency = 3650
)

// System is a domain-logic unit invoked by the scheduler on its own
// cadence. Implementations must be pure with respect to anything outside
// the world/bus they receive: they may query and mutate components and
// emit events freely, but must not reach for global or hidden state.
type System interface {
	Name() string
	Frequency() TickFrequency
	ExecutionOrder() int32
	Execute(world *ecs.World, tick uint64, bus *event.Bus)
}

type registeredSystem struct {
	system System
	seq    int // registration order, for stable tie-breaking
}

// Registry holds the set of registered systems and answers, for a given
// tick, which of them should run and in what order.
type Registry struct {
	systems map[string]*registeredSystem
	order   []string // registration order of names, for stable iteration
}

// NewRegistry returns an empty system registry.
func NewRegistry() *Registry {
	return &Registry{systems: make(map[string]*registeredSystem)}
}

// Register adds s under its own Name(). Fails with InvalidArgument if the
// name is already taken.
func (r *Registry) Register(s System) error {
	name := s.Name()
	if _, exists := r.systems[name]; exists {
		return fmt.Errorf("scheduler: system %q already registered: %w", name, simerr.ErrInvalidArgument)
	}
	r.systems[name] = &registeredSystem{system: s, seq: len(r.order)}
	r.order = append(r.order, name)
	return nil
}

// Unregister removes a system by name. A no-op if the name isn't
// registered.
func (r *Registry) Unregister(name string) {
	if _, ok := r.systems[name]; !ok {
		return
	}
	delete(r.systems, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// GetSystemsForTick returns the systems whose frequency divides t,
// ascending by ExecutionOrder, ties broken by registration order.
func (r *Registry) GetSystemsForTick(t uint64) []System {
	var matched []*registeredSystem
	for _, name := range r.order {
		rs, ok := r.systems[name]
		if !ok {
			continue // unregistered since
		}
		if t%uint64(rs.system.Frequency()) == 0 {
			matched = append(matched, rs)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		oi, oj := matched[i].system.ExecutionOrder(), matched[j].system.ExecutionOrder()
		if oi != oj {
			return oi < oj
		}
		return matched[i].seq < matched[j].seq
	})
	out := make([]System, len(matched))
	for i, rs := range matched {
		out[i] = rs.system
	}
	return out
}

// Names returns every registered system's name, in registration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if _, ok := r.systems[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Execute runs systems in order against world at tick, recovering from
// any panic. A panicking system aborts the rest of the tick's systems;
// the panic is turned into a Disaster/"engine.system_failure" event on
// bus and into a returned error, per spec.md §4.7.
func Execute(systems []System, world *ecs.World, tick uint64, bus *event.Bus) (err error) {
	for _, s := range systems {
		if faultErr := runOne(s, world, tick, bus); faultErr != nil {
			return faultErr
		}
	}
	return nil
}

func runOne(s System, world *ecs.World, tick uint64, bus *event.Bus) (err error) {
	defer func() {
		if r := recover(); r != nil {
			faultErr := fmt.Errorf("scheduler: system %q panicked: %v: %w", s.Name(), r, simerr.ErrEngineFault)
			bus.Emit(event.WorldEvent{
				Category:     event.CategoryDisaster,
				Subtype:      "engine.system_failure",
				Timestamp:    tick,
				Significance: 100,
			})
			err = faultErr
		}
	}()
	s.Execute(world, tick, bus)
	return nil
}
