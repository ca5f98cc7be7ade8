package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/simerr"
)

// decodeComponent unmarshals data_json into kind's concrete Go type,
// boxed as any for snapshot.FromParts. The kind set is closed (spec.md
// §3/§4), so this mirrors internal/snapshot/restore_registry.go's type
// switch rather than using reflection.
func decodeComponent(kind string, data []byte) (any, error) {
	switch kind {
	case ecs.KindPosition:
		return decodeInto[ecs.Position](kind, data)
	case ecs.KindHealth:
		return decodeInto[ecs.Health](kind, data)
	case ecs.KindStatus:
		return decodeInto[ecs.Status](kind, data)
	case ecs.KindPersonality:
		return decodeInto[ecs.Personality](kind, data)
	case ecs.KindGovernment:
		return decodeInto[ecs.Government](kind, data)
	case ecs.KindMembership:
		return decodeInto[ecs.Membership](kind, data)
	case ecs.KindOwnership:
		return decodeInto[ecs.Ownership](kind, data)
	case ecs.KindPopulation:
		return decodeInto[ecs.Population](kind, data)
	case ecs.KindTerritory:
		return decodeInto[ecs.Territory](kind, data)
	case ecs.KindCreatureType:
		return decodeInto[ecs.CreatureType](kind, data)
	case ecs.KindHiddenLocation:
		return decodeInto[ecs.HiddenLocation](kind, data)
	case ecs.KindDomain:
		return decodeInto[ecs.Domain](kind, data)
	case ecs.KindCreationHistory:
		return decodeInto[ecs.CreationHistory](kind, data)
	case ecs.KindOwnershipChain:
		return decodeInto[ecs.OwnershipChain](kind, data)
	case ecs.KindStructures:
		return decodeInto[ecs.Structures](kind, data)
	case ecs.KindWorshiper:
		return decodeInto[ecs.Worshiper](kind, data)
	default:
		return nil, fmt.Errorf("persistence: unknown component kind %q: %w", kind, simerr.ErrSerialization)
	}
}

func decodeInto[T any](kind string, data []byte) (any, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("persistence: unmarshal component kind %q: %w", kind, err)
	}
	return v, nil
}
