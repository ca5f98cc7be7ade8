package snapshot

import (
	"fmt"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/simerr"
)

// restoreKind re-registers kind on world with its concrete component
// type and writes every captured (id, value) pair back. The component
// kind set is closed (spec.md §3/§4), so this is a direct type switch
// rather than a reflection-based dispatch.
func restoreKind(world *ecs.World, kind string, data map[ecs.EntityID]any) error {
	switch kind {
	case ecs.KindPosition:
		return restoreInto[ecs.Position](world, kind, data)
	case ecs.KindHealth:
		return restoreInto[ecs.Health](world, kind, data)
	case ecs.KindStatus:
		return restoreInto[ecs.Status](world, kind, data)
	case ecs.KindPersonality:
		return restoreInto[ecs.Personality](world, kind, data)
	case ecs.KindGovernment:
		return restoreInto[ecs.Government](world, kind, data)
	case ecs.KindMembership:
		return restoreInto[ecs.Membership](world, kind, data)
	case ecs.KindOwnership:
		return restoreInto[ecs.Ownership](world, kind, data)
	case ecs.KindPopulation:
		return restoreInto[ecs.Population](world, kind, data)
	case ecs.KindTerritory:
		return restoreInto[ecs.Territory](world, kind, data)
	case ecs.KindCreatureType:
		return restoreInto[ecs.CreatureType](world, kind, data)
	case ecs.KindHiddenLocation:
		return restoreInto[ecs.HiddenLocation](world, kind, data)
	case ecs.KindDomain:
		return restoreInto[ecs.Domain](world, kind, data)
	case ecs.KindCreationHistory:
		return restoreInto[ecs.CreationHistory](world, kind, data)
	case ecs.KindOwnershipChain:
		return restoreInto[ecs.OwnershipChain](world, kind, data)
	case ecs.KindStructures:
		return restoreInto[ecs.Structures](world, kind, data)
	case ecs.KindWorshiper:
		return restoreInto[ecs.Worshiper](world, kind, data)
	default:
		return fmt.Errorf("snapshot: unknown component kind %q: %w", kind, simerr.ErrSerialization)
	}
}

func restoreInto[T any](world *ecs.World, kind string, data map[ecs.EntityID]any) error {
	ecs.RegisterComponent[T](world, kind)
	for id, boxed := range data {
		v, ok := boxed.(T)
		if !ok {
			return fmt.Errorf("snapshot: component kind %q held unexpected type for entity %d: %w", kind, id, simerr.ErrInvalidArgument)
		}
		// Clone so restored worlds never share map/slice data with the snapshot.
		if c, ok := any(v).(interface{ Clone() T }); ok {
			v = c.Clone()
		}
		if err := ecs.AddComponent(world, id, kind, v); err != nil {
			return err
		}
	}
	return nil
}
