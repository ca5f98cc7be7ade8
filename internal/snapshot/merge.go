package snapshot

import (
	"fmt"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/simerr"
	"github.com/talgya/worldfabric/internal/valuemap"
)

// mergeComponent merges patch into the existing component of kind on id,
// field by field using the same key names Serialize emits. A no-op if id
// has no component of that kind (per spec.md §4.9 ChangeDecision).
func mergeComponent(world *ecs.World, id ecs.EntityID, kind string, patch valuemap.Record) error {
	switch kind {
	case ecs.KindPosition:
		c, ok := ecs.GetComponent[ecs.Position](world, id, kind)
		if !ok {
			return nil
		}
		if f, ok := patch["x"].AsFloat(); ok {
			c.X = f
		}
		if f, ok := patch["y"].AsFloat(); ok {
			c.Y = f
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindHealth:
		c, ok := ecs.GetComponent[ecs.Health](world, id, kind)
		if !ok {
			return nil
		}
		if f, ok := patch["value"].AsFloat(); ok {
			c.Value = f
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindStatus:
		c, ok := ecs.GetComponent[ecs.Status](world, id, kind)
		if !ok {
			return nil
		}
		c = c.Clone()
		if m, ok := patch["flags"].AsMap(); ok {
			if c.Flags == nil {
				c.Flags = make(map[string]bool, len(m))
			}
			for k, v := range m {
				if b, ok := v.AsBool(); ok {
					c.Flags[k] = b
				}
			}
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindPersonality:
		c, ok := ecs.GetComponent[ecs.Personality](world, id, kind)
		if !ok {
			return nil
		}
		c = c.Clone()
		if m, ok := patch["traits"].AsMap(); ok {
			if c.Traits == nil {
				c.Traits = make(map[string]float64, len(m))
			}
			for k, v := range m {
				if f, ok := v.AsFloat(); ok {
					c.Traits[k] = f
				}
			}
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindGovernment:
		c, ok := ecs.GetComponent[ecs.Government](world, id, kind)
		if !ok {
			return nil
		}
		if s, ok := patch["kind"].AsString(); ok {
			c.Kind = s
		}
		if i, ok := patch["leader_id"].AsInt(); ok {
			c.LeaderID = ecs.EntityID(i)
		}
		if f, ok := patch["tax_rate"].AsFloat(); ok {
			c.TaxRate = f
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindMembership:
		c, ok := ecs.GetComponent[ecs.Membership](world, id, kind)
		if !ok {
			return nil
		}
		if i, ok := patch["faction_id"].AsInt(); ok {
			c.FactionID = ecs.EntityID(i)
		}
		if s, ok := patch["rank"].AsString(); ok {
			c.Rank = s
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindOwnership:
		c, ok := ecs.GetComponent[ecs.Ownership](world, id, kind)
		if !ok {
			return nil
		}
		if i, ok := patch["owner_id"].AsInt(); ok {
			c.OwnerID = ecs.EntityID(i)
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindPopulation:
		c, ok := ecs.GetComponent[ecs.Population](world, id, kind)
		if !ok {
			return nil
		}
		if i, ok := patch["count"].AsInt(); ok {
			c.Count = uint32(i)
		}
		if i, ok := patch["births"].AsInt(); ok {
			c.Births = uint32(i)
		}
		if i, ok := patch["deaths"].AsInt(); ok {
			c.Deaths = uint32(i)
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindCreatureType:
		c, ok := ecs.GetComponent[ecs.CreatureType](world, id, kind)
		if !ok {
			return nil
		}
		if s, ok := patch["species"].AsString(); ok {
			c.Species = s
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindDomain:
		c, ok := ecs.GetComponent[ecs.Domain](world, id, kind)
		if !ok {
			return nil
		}
		if s, ok := patch["sphere"].AsString(); ok {
			c.Sphere = s
		}
		if f, ok := patch["favor"].AsFloat(); ok {
			c.Favor = f
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindCreationHistory:
		c, ok := ecs.GetComponent[ecs.CreationHistory](world, id, kind)
		if !ok {
			return nil
		}
		if i, ok := patch["created_tick"].AsInt(); ok {
			c.CreatedTick = uint64(i)
		}
		if i, ok := patch["cause_event"].AsInt(); ok {
			c.CauseEvent = ecs.EventID(i)
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindStructures:
		c, ok := ecs.GetComponent[ecs.Structures](world, id, kind)
		if !ok {
			return nil
		}
		c = c.Clone()
		if m, ok := patch["levels"].AsMap(); ok {
			if c.Levels == nil {
				c.Levels = make(map[string]uint8, len(m))
			}
			for k, v := range m {
				if i, ok := v.AsInt(); ok {
					c.Levels[k] = uint8(i)
				}
			}
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindWorshiper:
		c, ok := ecs.GetComponent[ecs.Worshiper](world, id, kind)
		if !ok {
			return nil
		}
		if i, ok := patch["deity_id"].AsInt(); ok {
			c.DeityID = ecs.EntityID(i)
		}
		if f, ok := patch["devotion"].AsFloat(); ok {
			c.Devotion = f
		}
		return ecs.AddComponent(world, id, kind, c)

	case ecs.KindTerritory, ecs.KindHiddenLocation, ecs.KindOwnershipChain:
		// List-valued components aren't addressed by ChangeDecision in
		// practice (branches diverge characters' decisions, not territory
		// rosters); patches against them are accepted as a no-op.
		return nil

	default:
		return fmt.Errorf("snapshot: change-decision on unknown component kind %q: %w", kind, simerr.ErrInvalidArgument)
	}
}
