// Package simulation ties the ECS, event fabric, scheduler, and LOD
// controller into the tick loop described by spec.md §4.8: construct
// once, Initialize to warm up state and wire the cascade engine onto the
// bus, then Run(n) to advance.
package simulation

import (
	"fmt"
	"log/slog"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/lod"
	"github.com/talgya/worldfabric/internal/rng"
	"github.com/talgya/worldfabric/internal/scheduler"
	"github.com/talgya/worldfabric/internal/simerr"
)

// warmupTicks is how many ticks Initialize runs before returning control,
// per spec.md §4.8. Warmup events are indistinguishable from regular
// events except by their timestamp being < warmupTicks.
const warmupTicks = 30

// Engine is the simulation's tick loop: drain due cascade consequences
// at the current tick, run the tick's systems in order, tell the LOD
// controller about the tick, then advance the clock.
type Engine struct {
	World    *ecs.World
	Clock    *Clock
	Bus      *event.Bus
	Log      *event.Log
	Registry *scheduler.Registry
	Cascade  *event.Cascade
	LOD      *lod.Controller

	seed     uint32
	forks    map[string]*rng.Stream
	initDone bool
}

// New constructs an Engine from its collaborators and a base seed. It
// does not run anything; call Initialize before Run.
func New(world *ecs.World, clock *Clock, bus *event.Bus, log *event.Log, registry *scheduler.Registry, cascade *event.Cascade, seed uint32) *Engine {
	return &Engine{
		World:    world,
		Clock:    clock,
		Bus:      bus,
		Log:      log,
		Registry: registry,
		Cascade:  cascade,
		LOD:      lod.New(),
		seed:     seed,
		forks:    make(map[string]*rng.Stream),
	}
}

// forkLabels are the per-system RNG streams Initialize sets up, per
// spec.md §4.8. Domain systems fetch their named stream with Fork.
var forkLabels = []string{"cascade", "character", "faction", "economic", "population"}

// Fork returns the per-label RNG stream created during Initialize.
func (e *Engine) Fork(label string) (*rng.Stream, bool) {
	s, ok := e.forks[label]
	return s, ok
}

// Initialize forks the seed into the engine's named per-system streams,
// subscribes the cascade engine onto the bus so every emitted event —
// original or cascaded — is considered for consequences, and runs a
// warmup of 30 ticks to populate initial state.
func (e *Engine) Initialize() error {
	if e.initDone {
		return fmt.Errorf("simulation: engine already initialized: %w", simerr.ErrInvalidArgument)
	}
	for _, label := range forkLabels {
		e.forks[label] = rng.New(e.seed).Fork(e.seed, label)
	}
	// The bus has no direct line to the log: this subscription is the log's
	// only entry point. A system-authored event arrives with ID 0 and gets
	// one allocated here; a cascade-authored event arrives already
	// allocated and appended by Cascade.Drain, so it is only handed to
	// OnEvent again (to let it spawn further-depth consequences) and not
	// re-appended.
	e.Bus.OnAny(func(ev event.WorldEvent) {
		if ev.ID == 0 {
			ev.ID = e.Log.Allocate()
		}
		if _, exists := e.Log.GetByID(ev.ID); !exists {
			if err := e.Log.Append(ev); err != nil {
				slog.Warn("simulation: dropping unloggable event", "event_id", ev.ID, "error", err)
				return
			}
		}
		e.Cascade.OnEvent(ev, e.Log)
	})

	e.initDone = true
	if err := e.Run(warmupTicks); err != nil {
		return fmt.Errorf("simulation: warmup failed: %w", err)
	}
	return nil
}

// Run advances the simulation by n ticks. Each tick: drain cascade
// due-events at the current tick; execute the tick's systems in order;
// update the LOD controller; advance the clock past the tick just
// processed. The clock's first-ever processed tick is 0, not 1 — a
// fresh Clock starts at 0 and Advance only happens after a tick
// completes successfully. A system fault aborts that tick before the
// clock advances, so the clock stays on the faulted tick and the fault
// surfaces to the caller; component changes and events produced earlier
// in that tick (including the system_failure event) are not undone. Run
// does not retry or continue past
// it — the caller decides whether to attempt subsequent ticks. Run is
// synchronous and not cancellable mid-call; callers needing pause/step
// should invoke Run with a small n.
func (e *Engine) Run(n uint64) error {
	for i := uint64(0); i < n; i++ {
		tick := e.Clock.CurrentTick()

		e.Cascade.Drain(tick, e.Log, e.Bus)

		systems := e.Registry.GetSystemsForTick(tick)
		if err := scheduler.Execute(systems, e.World, tick, e.Bus); err != nil {
			slog.Error("simulation: tick faulted, clock left unadvanced", "tick", tick, "error", err)
			return err
		}

		e.LOD.SetCurrentTick(tick)
		e.Clock.Advance(1)
	}
	return nil
}
