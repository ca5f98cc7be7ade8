package snapshot

import (
	"time"

	"github.com/google/uuid"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
)

// NextEntityID and NextEventID expose the id counters a snapshot
// captured, per spec.md §6's persistence format: "the id counter is
// advanced past the max seen value" on load. A persistence adapter
// outside this package needs these to round-trip a save file without
// reaching into unexported fields.
func (s *Snapshot) NextEntityID() ecs.EntityID { return s.nextEntityID }
func (s *Snapshot) NextEventID() event.EventID { return s.nextEventID }

// FromParts reconstructs a Snapshot from its exported parts, for a
// persistence adapter loading a save file back into a restorable
// snapshot. It does not validate component data against the registered
// kind set — that happens in Restore.
func FromParts(id uuid.UUID, tick uint64, label string, createdAt time.Time, alive []ecs.EntityID, components map[string]map[ecs.EntityID]any, events []event.WorldEvent, nextEntityID ecs.EntityID, nextEventID event.EventID) *Snapshot {
	return &Snapshot{
		ID:            id,
		Tick:          tick,
		Label:         label,
		CreatedAt:     createdAt,
		AliveEntities: alive,
		ComponentData: components,
		Events:        events,
		nextEntityID:  nextEntityID,
		nextEventID:   nextEventID,
	}
}
