// Package ecs is the entity-component-store core: entities are bare
// identities, components are typed per-kind stores keyed by entity id, and
// the World owns both the alive-entity set and the component store
// registry. See internal/ecs/components.go and internal/ecs/world.go.
package ecs

// EntityID is an opaque handle generated by a monotonic counter. Ids are
// never reused within a run, so a stale handle never silently aliases a
// new entity.
type EntityID uint64

// EventID, SiteID, FactionID, DeityID and CharacterID are entity-ids with
// a distinct type tag; each converts explicitly to EntityID (and back)
// for indexing into any entity-keyed structure.
type (
	EventID     EntityID
	SiteID      EntityID
	FactionID   EntityID
	DeityID     EntityID
	CharacterID EntityID
)
