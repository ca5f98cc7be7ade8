package ecs

import "github.com/talgya/worldfabric/internal/valuemap"

// The component kinds below are the closed set named in spec.md §3/§4.
// Each is plain data plus a pure Serialize projection used by the
// snapshot manager and the observer-side persistence adapter; nothing
// here reaches back into the ECS or the event fabric.

// Component kind name constants, used both as ComponentStore registry
// keys and as the "kind" tag observers see in a serialized record.
const (
	KindPosition        = "Position"
	KindHealth          = "Health"
	KindStatus          = "Status"
	KindPersonality     = "Personality"
	KindGovernment      = "Government"
	KindMembership      = "Membership"
	KindOwnership       = "Ownership"
	KindPopulation      = "Population"
	KindTerritory       = "Territory"
	KindCreatureType    = "CreatureType"
	KindHiddenLocation  = "HiddenLocation"
	KindDomain          = "Domain"
	KindCreationHistory = "CreationHistory"
	KindOwnershipChain  = "OwnershipChain"
	KindStructures      = "Structures"
	KindWorshiper       = "Worshiper"
)

// Position is the entity's location, in the same Euclidean coordinate
// space the spatial index and LOD controller operate on.
type Position struct {
	X, Y float64
}

func (p Position) Serialize() valuemap.Record {
	return valuemap.Record{"x": valuemap.Float(p.X), "y": valuemap.Float(p.Y)}
}

// Health tracks a living entity's vitality, 0 (dead) to 1 (full health).
type Health struct {
	Value float64
}

func (h Health) Serialize() valuemap.Record {
	return valuemap.Record{"value": valuemap.Float(h.Value)}
}

// Status holds a small set of named boolean flags — sick,
// starving, outlawed, and similar short-lived conditions domain systems
// toggle on an entity.
type Status struct {
	Flags map[string]bool
}

func (s Status) Serialize() valuemap.Record {
	m := make(map[string]valuemap.Value, len(s.Flags))
	for k, v := range s.Flags {
		m[k] = valuemap.Bool(v)
	}
	return valuemap.Record{"flags": valuemap.Map(m)}
}

// Clone deep-copies Flags, so snapshot capture/restore never lets two
// component values alias the same underlying map.
func (s Status) Clone() Status {
	out := make(map[string]bool, len(s.Flags))
	for k, v := range s.Flags {
		out[k] = v
	}
	return Status{Flags: out}
}

// Personality holds a character's disposition axes, each -1..1.
type Personality struct {
	Traits map[string]float64
}

func (p Personality) Serialize() valuemap.Record {
	m := make(map[string]valuemap.Value, len(p.Traits))
	for k, v := range p.Traits {
		m[k] = valuemap.Float(v)
	}
	return valuemap.Record{"traits": valuemap.Map(m)}
}

// Clone deep-copies Traits.
func (p Personality) Clone() Personality {
	out := make(map[string]float64, len(p.Traits))
	for k, v := range p.Traits {
		out[k] = v
	}
	return Personality{Traits: out}
}

// Government describes how a settlement or faction entity is ruled.
type Government struct {
	Kind     string
	LeaderID EntityID // 0 if none
	TaxRate  float64
}

func (g Government) Serialize() valuemap.Record {
	return valuemap.Record{
		"kind":      valuemap.Str(g.Kind),
		"leader_id": valuemap.Int(int64(g.LeaderID)),
		"tax_rate":  valuemap.Float(g.TaxRate),
	}
}

// Membership links a character or site entity to a faction entity.
type Membership struct {
	FactionID EntityID
	Rank      string
}

func (m Membership) Serialize() valuemap.Record {
	return valuemap.Record{"faction_id": valuemap.Int(int64(m.FactionID)), "rank": valuemap.Str(m.Rank)}
}

// Ownership records who holds an entity (an item, a structure, a deed).
type Ownership struct {
	OwnerID EntityID
}

func (o Ownership) Serialize() valuemap.Record {
	return valuemap.Record{"owner_id": valuemap.Int(int64(o.OwnerID))}
}

// Population tracks a settlement's headcount and recent vital rates.
type Population struct {
	Count  uint32
	Births uint32
	Deaths uint32
}

func (p Population) Serialize() valuemap.Record {
	return valuemap.Record{
		"count":  valuemap.Int(int64(p.Count)),
		"births": valuemap.Int(int64(p.Births)),
		"deaths": valuemap.Int(int64(p.Deaths)),
	}
}

// Territory holds the set of site ids a faction or settlement controls.
type Territory struct {
	SiteIDs []EntityID
}

func (t Territory) Serialize() valuemap.Record {
	items := make([]valuemap.Value, len(t.SiteIDs))
	for i, id := range t.SiteIDs {
		items[i] = valuemap.Int(int64(id))
	}
	return valuemap.Record{"site_ids": valuemap.List(items...)}
}

// Clone deep-copies SiteIDs.
func (t Territory) Clone() Territory {
	return Territory{SiteIDs: append([]EntityID(nil), t.SiteIDs...)}
}

// CreatureType tags a character entity's species/archetype for creature
// and population systems.
type CreatureType struct {
	Species string
}

func (c CreatureType) Serialize() valuemap.Record {
	return valuemap.Record{"species": valuemap.Str(c.Species)}
}

// HiddenLocation marks a site entity as undiscovered, and by whom it has
// been revealed so far (dreaming/oral-tradition systems populate this).
type HiddenLocation struct {
	RevealedTo []EntityID
}

func (h HiddenLocation) Serialize() valuemap.Record {
	items := make([]valuemap.Value, len(h.RevealedTo))
	for i, id := range h.RevealedTo {
		items[i] = valuemap.Int(int64(id))
	}
	return valuemap.Record{"revealed_to": valuemap.List(items...)}
}

// Clone deep-copies RevealedTo.
func (h HiddenLocation) Clone() HiddenLocation {
	return HiddenLocation{RevealedTo: append([]EntityID(nil), h.RevealedTo...)}
}

// Domain describes a deity entity's sphere of influence and favor level.
type Domain struct {
	Sphere string
	Favor  float64
}

func (d Domain) Serialize() valuemap.Record {
	return valuemap.Record{"sphere": valuemap.Str(d.Sphere), "favor": valuemap.Float(d.Favor)}
}

// CreationHistory records the tick and cause an entity came into being —
// used by oral-tradition systems to narrate origin stories.
type CreationHistory struct {
	CreatedTick uint64
	CauseEvent  EventID
}

func (c CreationHistory) Serialize() valuemap.Record {
	return valuemap.Record{
		"created_tick": valuemap.Int(int64(c.CreatedTick)),
		"cause_event":  valuemap.Int(int64(c.CauseEvent)),
	}
}

// OwnershipChain records the ordered history of owners of an item entity.
type OwnershipChain struct {
	Owners []EntityID
}

func (o OwnershipChain) Serialize() valuemap.Record {
	items := make([]valuemap.Value, len(o.Owners))
	for i, id := range o.Owners {
		items[i] = valuemap.Int(int64(id))
	}
	return valuemap.Record{"owners": valuemap.List(items...)}
}

// Clone deep-copies Owners.
func (o OwnershipChain) Clone() OwnershipChain {
	return OwnershipChain{Owners: append([]EntityID(nil), o.Owners...)}
}

// Structures lists buildings present on a site entity, each with a level.
type Structures struct {
	Levels map[string]uint8
}

func (s Structures) Serialize() valuemap.Record {
	m := make(map[string]valuemap.Value, len(s.Levels))
	for k, v := range s.Levels {
		m[k] = valuemap.Int(int64(v))
	}
	return valuemap.Record{"levels": valuemap.Map(m)}
}

// Clone deep-copies Levels.
func (s Structures) Clone() Structures {
	out := make(map[string]uint8, len(s.Levels))
	for k, v := range s.Levels {
		out[k] = v
	}
	return Structures{Levels: out}
}

// Worshiper links a character entity to the deity entity it follows.
type Worshiper struct {
	DeityID EntityID
	Devotion float64
}

func (w Worshiper) Serialize() valuemap.Record {
	return valuemap.Record{"deity_id": valuemap.Int(int64(w.DeityID)), "devotion": valuemap.Float(w.Devotion)}
}
