// Package domain holds the reference domain systems: population,
// economy, character AI, weather, and relationships. Each is a
// scheduler.System that reads and writes ECS components and owns
// whatever private, entity-keyed state it needs (grudges, memories) per
// spec.md §4.10.
package domain

import "github.com/talgya/worldfabric/internal/ecs"

const (
	// maxGrudgesPerHolder bounds a single character's grudge list; the
	// weakest grudge is evicted when a new one would exceed it.
	maxGrudgesPerHolder = 20

	// forgetThreshold is the severity below which a grudge is dropped
	// outright rather than merely decayed.
	forgetThreshold = 5.0

	// decayPerYear is how many severity points a grudge loses per year
	// since it was last intensified.
	decayPerYear = 2.0
)

// inheritanceDecay scales an ancestor's original severity by generation
// when a grudge passes to an heir: generation 0 is the original holder's
// own grudge (no decay), generation 3 is the last one inherited.
var inheritanceDecay = [4]float64{1.0, 0.6, 0.3, 0.1}

// Grudge is one character's resentment toward another, grounded on
// internal/agents/memory.go's bounded, importance-ranked eviction
// pattern (AddMemory), generalized from importance to severity and from
// a flat cap to a per-holder bound.
type Grudge struct {
	Against        ecs.CharacterID
	Severity       float64
	Generation     int
	LastIntensified uint64 // tick
	CauseEvent     ecs.EventID
}

// GrudgeBook holds every character's grudge list.
type GrudgeBook struct {
	byHolder       map[ecs.CharacterID][]Grudge
	decayedThrough uint64 // tick of the last DecayAll call
}

// NewGrudgeBook returns an empty grudge book.
func NewGrudgeBook() *GrudgeBook {
	return &GrudgeBook{byHolder: make(map[ecs.CharacterID][]Grudge)}
}

// Intensify records or strengthens holder's grudge against target,
// evicting the weakest grudge if the holder is already at capacity.
func (b *GrudgeBook) Intensify(holder ecs.CharacterID, target ecs.CharacterID, amount float64, tick uint64, cause ecs.EventID) {
	list := b.byHolder[holder]
	for i := range list {
		if list[i].Against == target {
			list[i].Severity += amount
			list[i].LastIntensified = tick
			b.byHolder[holder] = list
			return
		}
	}

	g := Grudge{Against: target, Severity: amount, LastIntensified: tick, CauseEvent: cause}
	if len(list) >= maxGrudgesPerHolder {
		weakest := 0
		for i := 1; i < len(list); i++ {
			if list[i].Severity < list[weakest].Severity {
				weakest = i
			}
		}
		if g.Severity <= list[weakest].Severity {
			return // new grudge is weaker than the weakest held: drop it
		}
		list[weakest] = g
	} else {
		list = append(list, g)
	}
	b.byHolder[holder] = list
}

// DecayAll applies time decay for every grudge bearing in mind the tick
// elapsed since last intensification, dropping any grudge that falls
// below forgetThreshold.
func (b *GrudgeBook) DecayAll(currentTick uint64, ticksPerYear uint64) {
	for holder, list := range b.byHolder {
		out := list[:0]
		for _, g := range list {
			// Decay only the time not already charged by an earlier call.
			from := g.LastIntensified
			if b.decayedThrough > from {
				from = b.decayedThrough
			}
			if currentTick > from {
				yearsElapsed := float64(currentTick-from) / float64(ticksPerYear)
				g.Severity -= yearsElapsed * decayPerYear
			}
			if g.Severity >= forgetThreshold {
				out = append(out, g)
			}
		}
		if len(out) == 0 {
			delete(b.byHolder, holder)
		} else {
			b.byHolder[holder] = out
		}
	}
	if currentTick > b.decayedThrough {
		b.decayedThrough = currentTick
	}
}

// Inherit copies holder's grudges to heir at the next generation's
// decay factor. Grudges already at the maximum modeled generation are
// not inherited further.
func (b *GrudgeBook) Inherit(holder, heir ecs.CharacterID) {
	for _, g := range b.byHolder[holder] {
		nextGen := g.Generation + 1
		if nextGen >= len(inheritanceDecay) {
			continue
		}
		inherited := Grudge{
			Against:         g.Against,
			Generation:      nextGen,
			LastIntensified: g.LastIntensified,
			CauseEvent:      g.CauseEvent,
			Severity:        g.Severity * inheritanceDecay[nextGen] / inheritanceDecay[g.Generation],
		}
		if inherited.Severity >= forgetThreshold {
			b.byHolder[heir] = append(b.byHolder[heir], inherited)
		}
	}
}

// Grudges returns holder's current grudge list, strongest first.
func (b *GrudgeBook) Grudges(holder ecs.CharacterID) []Grudge {
	list := append([]Grudge(nil), b.byHolder[holder]...)
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].Severity > list[j-1].Severity; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
	return list
}
