// Package observer wraps the simulation fabric with the read-side
// concerns spec.md §6/§9 assigns to the observer, not the engine: a
// focus point, a bookmark list, a speed/pause/step command channel, and
// auto-slowdown on a burst of high-significance events. None of these
// mutate simulation state; they are thin views an engine.Run(n) caller
// consults between calls, grounded on internal/engine/tick.go's
// Speed/Interval fields (there directly driving a real-time sleep loop;
// here translated into the n the caller passes to Engine.Run).
package observer

import (
	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
)

// Speed is the CLI speed enum from spec.md §6: Paused=0, SlowMotion is a
// renderer-only concept (one tick per many frames, never reaches the
// engine), Normal=1, Fast7/Fast30/Fast365/UltraFast3650 name the ticks
// a single Step should advance.
type Speed int

const (
	Paused Speed = iota
	SlowMotion
	Normal
	Fast7
	Fast30
	Fast365
	UltraFast3650
)

// TicksPerStep returns how many ticks one Step call should advance the
// engine at this speed. Paused and SlowMotion both advance 0: SlowMotion
// paces ticks to frames at the renderer, not here.
func (s Speed) TicksPerStep() uint64 {
	switch s {
	case Normal:
		return 1
	case Fast7:
		return 7
	case Fast30:
		return 30
	case Fast365:
		return 365
	case UltraFast3650:
		return 3650
	default:
		return 0
	}
}

// autoSlowdownWindow and autoSlowdownCount are the fixed defaults named
// in spec.md §9: 3+ events of significance >= 90 within 30 ticks drops
// one speed tier.
const (
	autoSlowdownWindow         = 30
	autoSlowdownCount          = 3
	autoSlowdownSignificance   = 90
)

// Bookmark names a tick of interest, first-write-wins on duplicate
// labels per spec.md §9's explicit open-question resolution.
type Bookmark struct {
	Label string
	Tick  uint64
}

// Observer holds the focus point, bookmark list, and speed state an
// engine caller consults each loop iteration. It never touches the
// World, Log, or Bus directly — Notify is fed events from the caller's
// own bus subscription.
type Observer struct {
	focusX, focusY float64
	bookmarks      map[string]Bookmark
	order          []string // insertion order, for stable listing
	speed          Speed
	recentHighSig  []uint64 // ticks of recent significance>=90 events, pruned to the window
}

// New returns an Observer at Normal speed with no focus or bookmarks.
func New() *Observer {
	return &Observer{
		bookmarks: make(map[string]Bookmark),
		speed:     Normal,
	}
}

// SetFocus moves the observer's point of interest.
func (o *Observer) SetFocus(x, y float64) {
	o.focusX, o.focusY = x, y
}

// Focus returns the current focus point.
func (o *Observer) Focus() (float64, float64) {
	return o.focusX, o.focusY
}

// AddBookmark records label at tick. If label is already bookmarked,
// the existing entry is kept and the new one is dropped silently
// (first-write-wins, per spec.md §9).
func (o *Observer) AddBookmark(label string, tick uint64) {
	if _, exists := o.bookmarks[label]; exists {
		return
	}
	o.bookmarks[label] = Bookmark{Label: label, Tick: tick}
	o.order = append(o.order, label)
}

// Bookmarks returns every bookmark in insertion order.
func (o *Observer) Bookmarks() []Bookmark {
	out := make([]Bookmark, 0, len(o.order))
	for _, label := range o.order {
		out = append(out, o.bookmarks[label])
	}
	return out
}

// RemoveBookmark deletes label, if present.
func (o *Observer) RemoveBookmark(label string) {
	if _, exists := o.bookmarks[label]; !exists {
		return
	}
	delete(o.bookmarks, label)
	for i, l := range o.order {
		if l == label {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Speed returns the current speed tier.
func (o *Observer) Speed() Speed {
	return o.speed
}

// SetSpeed sets the speed tier directly, bypassing auto-slowdown.
func (o *Observer) SetSpeed(s Speed) {
	o.speed = s
}

// Pause sets speed to Paused.
func (o *Observer) Pause() {
	o.speed = Paused
}

// Resume restores Normal speed from Paused. A no-op if not paused —
// Resume is not a generic "go back to previous speed" control.
func (o *Observer) Resume() {
	if o.speed == Paused {
		o.speed = Normal
	}
}

// Step returns how many ticks the caller should advance the engine for
// one step at the current speed.
func (o *Observer) Step() uint64 {
	return o.speed.TicksPerStep()
}

// Notify feeds one newly-emitted event to the auto-slowdown tracker.
// Call it from the caller's own bus subscription (the engine owns the
// bus during run; the observer never subscribes itself). If
// autoSlowdownCount qualifying events have landed within
// autoSlowdownWindow ticks, speed drops one tier, not below Normal.
func (o *Observer) Notify(e event.WorldEvent) {
	if e.Significance < autoSlowdownSignificance {
		return
	}
	o.recentHighSig = append(o.recentHighSig, e.Timestamp)
	o.pruneOld(e.Timestamp)

	if len(o.recentHighSig) >= autoSlowdownCount {
		o.dropOneTier()
		o.recentHighSig = nil
	}
}

func (o *Observer) pruneOld(currentTick uint64) {
	cutoff := int64(currentTick) - autoSlowdownWindow
	kept := o.recentHighSig[:0]
	for _, t := range o.recentHighSig {
		if int64(t) >= cutoff {
			kept = append(kept, t)
		}
	}
	o.recentHighSig = kept
}

func (o *Observer) dropOneTier() {
	switch o.speed {
	case UltraFast3650:
		o.speed = Fast365
	case Fast365:
		o.speed = Fast30
	case Fast30:
		o.speed = Fast7
	case Fast7:
		o.speed = Normal
	}
}

// EntityID is re-exported so callers building entityUpdates payloads
// (spec.md §6) do not need a separate import of internal/ecs just for
// the id type.
type EntityID = ecs.EntityID
