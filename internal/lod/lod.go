// Package lod implements the level-of-detail controller: a focus point,
// per-tile detail classification by distance, and time-bounded overrides
// that force a point to full detail regardless of distance.
package lod

import "math"

// DetailLevel is a tile's simulation fidelity class.
type DetailLevel int

const (
	Full DetailLevel = iota
	Reduced
	Abstract
)

func (d DetailLevel) String() string {
	switch d {
	case Full:
		return "full"
	case Reduced:
		return "reduced"
	default:
		return "abstract"
	}
}

const (
	fullRadius    = 50.0
	reducedRadius = 200.0

	fullFrequency    = 1.0
	reducedFrequency = 0.1
	abstractFrequency = 0.0

	// significanceOverride is the threshold at or above which an entity
	// always simulates regardless of distance from focus (spec.md §4.6).
	significanceOverride = 85
)

type point struct{ x, y float64 }

// Controller tracks the observer's focus, the current tick, and any
// temporary full-detail overrides.
type Controller struct {
	focus       point
	currentTick uint64
	overrides   map[point]uint64 // expireTick, exclusive upper bound semantics: cleared when expireTick <= currentTick
}

// New returns a controller focused on (0, 0) at tick 0.
func New() *Controller {
	return &Controller{overrides: make(map[point]uint64)}
}

// SetFocus moves the observer's focus point.
func (c *Controller) SetFocus(x, y float64) {
	c.focus = point{x, y}
}

// GetDetailLevel classifies (x, y) by Euclidean distance to focus,
// unless an active override forces Full. Boundaries are inclusive on
// the lower side: exactly 50 is Full, exactly 200 is Reduced.
func (c *Controller) GetDetailLevel(x, y float64) DetailLevel {
	if _, overridden := c.overrides[point{x, y}]; overridden {
		return Full
	}
	d := math.Hypot(x-c.focus.x, y-c.focus.y)
	switch {
	case d <= fullRadius:
		return Full
	case d <= reducedRadius:
		return Reduced
	default:
		return Abstract
	}
}

// GetSimulationFrequency returns the tick-fraction multiplier for (x, y):
// 1.0 for Full, 0.1 for Reduced, 0.0 for Abstract.
func (c *Controller) GetSimulationFrequency(x, y float64) float64 {
	switch c.GetDetailLevel(x, y) {
	case Full:
		return fullFrequency
	case Reduced:
		return reducedFrequency
	default:
		return abstractFrequency
	}
}

// ShouldSimulateEntity reports whether an entity at pos with the given
// significance should be simulated this tick: true whenever the tile's
// frequency is above zero, or the entity's significance meets the
// always-simulate threshold regardless of distance.
func (c *Controller) ShouldSimulateEntity(x, y float64, significance int) bool {
	if significance >= significanceOverride {
		return true
	}
	return c.GetSimulationFrequency(x, y) > 0
}

// PromoteToFullDetail forces (x, y) to Full detail for the next ticks
// ticks, starting at the controller's current tick.
func (c *Controller) PromoteToFullDetail(x, y float64, ticks uint64) {
	c.overrides[point{x, y}] = c.currentTick + ticks
}

// RemoveOverride cancels any active override at (x, y).
func (c *Controller) RemoveOverride(x, y float64) {
	delete(c.overrides, point{x, y})
}

// ClearOverrides cancels every active override.
func (c *Controller) ClearOverrides() {
	c.overrides = make(map[point]uint64)
}

// SetCurrentTick advances the controller's tick and garbage-collects
// any override whose expiry has been reached.
func (c *Controller) SetCurrentTick(t uint64) {
	c.currentTick = t
	for p, expire := range c.overrides {
		if expire <= t {
			delete(c.overrides, p)
		}
	}
}
