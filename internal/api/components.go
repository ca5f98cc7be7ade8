package api

import (
	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/valuemap"
)

// serializeComponent fetches id's component of kind and returns its
// Serialize() projection. Mirrors the closed-kind-set type switch used
// in internal/persistence/components.go and
// internal/snapshot/restore_registry.go, since the Serialize method
// lives on each concrete component type rather than on any shared
// interface the world can call generically.
func serializeComponent(w *ecs.World, id ecs.EntityID, kind string) (valuemap.Record, bool) {
	switch kind {
	case ecs.KindPosition:
		return serializeKind[ecs.Position](w, id, kind)
	case ecs.KindHealth:
		return serializeKind[ecs.Health](w, id, kind)
	case ecs.KindStatus:
		return serializeKind[ecs.Status](w, id, kind)
	case ecs.KindPersonality:
		return serializeKind[ecs.Personality](w, id, kind)
	case ecs.KindGovernment:
		return serializeKind[ecs.Government](w, id, kind)
	case ecs.KindMembership:
		return serializeKind[ecs.Membership](w, id, kind)
	case ecs.KindOwnership:
		return serializeKind[ecs.Ownership](w, id, kind)
	case ecs.KindPopulation:
		return serializeKind[ecs.Population](w, id, kind)
	case ecs.KindTerritory:
		return serializeKind[ecs.Territory](w, id, kind)
	case ecs.KindCreatureType:
		return serializeKind[ecs.CreatureType](w, id, kind)
	case ecs.KindHiddenLocation:
		return serializeKind[ecs.HiddenLocation](w, id, kind)
	case ecs.KindDomain:
		return serializeKind[ecs.Domain](w, id, kind)
	case ecs.KindCreationHistory:
		return serializeKind[ecs.CreationHistory](w, id, kind)
	case ecs.KindOwnershipChain:
		return serializeKind[ecs.OwnershipChain](w, id, kind)
	case ecs.KindStructures:
		return serializeKind[ecs.Structures](w, id, kind)
	case ecs.KindWorshiper:
		return serializeKind[ecs.Worshiper](w, id, kind)
	default:
		return nil, false
	}
}

type serializable interface {
	Serialize() valuemap.Record
}

func serializeKind[T serializable](w *ecs.World, id ecs.EntityID, kind string) (valuemap.Record, bool) {
	v, ok := ecs.GetComponent[T](w, id, kind)
	if !ok {
		return nil, false
	}
	return v.Serialize(), true
}
