package simulation

import "github.com/talgya/worldfabric/internal/worldtime"

// Clock holds the tick counter. Advancing is its only write; everything
// else (CurrentTime) is a derived view.
type Clock struct {
	currentTick uint64
}

// NewClock returns a clock at tick 0.
func NewClock() *Clock {
	return &Clock{}
}

// CurrentTick returns the tick counter.
func (c *Clock) CurrentTick() uint64 {
	return c.currentTick
}

// CurrentTime derives the calendar date for the current tick.
func (c *Clock) CurrentTime() worldtime.WorldTime {
	return worldtime.TicksToWorldTime(c.currentTick)
}

// Advance moves the clock forward by n ticks (n=1 for a normal tick).
func (c *Clock) Advance(n uint64) {
	c.currentTick += n
}

// RestoreTick sets the tick counter directly, without replaying the
// ticks that produced it. The snapshot manager's Restore uses it to
// recreate a Clock at a captured tick, and cmd/worldfabric uses it to
// move its existing clock to a restored tick.
func (c *Clock) RestoreTick(tick uint64) {
	c.currentTick = tick
}
