// Package snapshot captures and restores a full simulation state — world,
// clock, and event log — as an independent deep copy, and runs branches
// off a captured snapshot with a divergence applied. Grounded on
// internal/persistence/db.go's save/load shape, generalized from the
// teacher's flat Settlement/Faction tables to the ECS's kind-erased
// component stores.
package snapshot

import (
	"time"

	"github.com/google/uuid"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/simulation"
)

// Snapshot is a fully independent capture of simulation state at a tick:
// every component value and event is deep-cloned at capture, and again
// at restore, so no reference ever aliases live data (spec.md §3).
type Snapshot struct {
	ID            uuid.UUID
	Tick          uint64
	Label         string
	CreatedAt     time.Time
	AliveEntities []ecs.EntityID
	ComponentData map[string]map[ecs.EntityID]any // kind -> id -> cloned value
	Events        []event.WorldEvent
	nextEntityID  ecs.EntityID
	nextEventID   event.EventID
}

// Manager captures and restores snapshots.
type Manager struct{}

// NewManager returns a snapshot manager. It holds no state of its own;
// every snapshot it produces is self-contained.
func NewManager() *Manager {
	return &Manager{}
}

// Capture deep-copies world, clock, and log into a new Snapshot labeled
// label (may be empty).
func (m *Manager) Capture(world *ecs.World, clock *simulation.Clock, log *event.Log, label string) *Snapshot {
	alive := world.AliveEntities()
	aliveSet := make(map[ecs.EntityID]struct{}, len(alive))
	for _, id := range alive {
		aliveSet[id] = struct{}{}
	}

	componentData := make(map[string]map[ecs.EntityID]any)
	for _, kind := range world.RegisteredKinds() {
		cloned, ok := world.CloneStore(kind)
		if !ok {
			continue
		}
		filtered := make(map[ecs.EntityID]any, len(cloned))
		for id, v := range cloned {
			if _, isAlive := aliveSet[id]; isAlive {
				filtered[id] = v
			}
		}
		componentData[kind] = filtered
	}

	events := log.All()
	clonedEvents := make([]event.WorldEvent, len(events))
	for i, e := range events {
		clonedEvents[i] = e.Clone()
	}

	aliveCopy := append([]ecs.EntityID(nil), alive...)

	return &Snapshot{
		ID:            uuid.New(),
		Tick:          clock.CurrentTick(),
		Label:         label,
		CreatedAt:     time.Now(),
		AliveEntities: aliveCopy,
		ComponentData: componentData,
		Events:        clonedEvents,
		nextEntityID:  world.NextID(),
		nextEventID:   log.NextID(),
	}
}

// Restore builds fresh World, Clock and Log instances from snap,
// independent of whatever produced it: every captured component kind is
// re-registered, every alive entity re-created (with the id counter
// advanced past the max seen id), component values written back, the
// clock set to the captured tick, and every event re-appended preserving
// its original id.
func (m *Manager) Restore(snap *Snapshot) (*ecs.World, *simulation.Clock, *event.Log, error) {
	world := ecs.NewWorld()
	clock := simulation.NewClock()
	log := event.NewLog()

	for _, id := range snap.AliveEntities {
		world.RestoreEntity(id)
	}
	if snap.nextEntityID > world.NextID() {
		// AliveEntities may be empty (an entity-less snapshot); make sure the
		// counter still resumes past whatever was captured.
		world.RestoreEntity(snap.nextEntityID)
		world.DestroyEntity(snap.nextEntityID)
	}

	for kind, data := range snap.ComponentData {
		if err := restoreKind(world, kind, data); err != nil {
			return nil, nil, nil, err
		}
	}

	clock.RestoreTick(snap.Tick)

	for _, e := range snap.Events {
		if err := log.Append(e); err != nil {
			return nil, nil, nil, err
		}
	}
	log.RestoreNextID(snap.nextEventID)

	return world, clock, log, nil
}
