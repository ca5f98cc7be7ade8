package event

// Handler receives a dispatched WorldEvent.
type Handler func(e WorldEvent)

// Handle identifies a subscription for later Unsubscribe.
type Handle uint64

type subscription struct {
	handle Handle
	fn     Handler
}

// Bus dispatches emitted events to subtype, category, and "any"
// subscribers, in that fixed order, synchronously on the calling
// goroutine. Within each set, handlers run in subscription order.
type Bus struct {
	bySubtype  map[string][]subscription
	byCategory map[Category][]subscription
	any        []subscription
	nextHandle Handle
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		bySubtype:  make(map[string][]subscription),
		byCategory: make(map[Category][]subscription),
	}
}

// OnSubtype subscribes fn to events whose Subtype matches exactly.
func (b *Bus) OnSubtype(subtype string, fn Handler) Handle {
	b.nextHandle++
	h := b.nextHandle
	b.bySubtype[subtype] = append(b.bySubtype[subtype], subscription{h, fn})
	return h
}

// OnCategory subscribes fn to every event in a category.
func (b *Bus) OnCategory(cat Category, fn Handler) Handle {
	b.nextHandle++
	h := b.nextHandle
	b.byCategory[cat] = append(b.byCategory[cat], subscription{h, fn})
	return h
}

// OnAny subscribes fn to every emitted event, regardless of subtype or
// category.
func (b *Bus) OnAny(fn Handler) Handle {
	b.nextHandle++
	h := b.nextHandle
	b.any = append(b.any, subscription{h, fn})
	return h
}

// Unsubscribe removes the subscription associated with h. A no-op if h is
// unknown or was already unsubscribed. Safe to call mid-dispatch: the
// current Emit call already snapshotted the handler lists it is
// iterating, so removal only affects future emissions.
func (b *Bus) Unsubscribe(h Handle) {
	filter := func(list []subscription) []subscription {
		out := make([]subscription, 0, len(list))
		for _, s := range list {
			if s.handle != h {
				out = append(out, s)
			}
		}
		return out
	}
	for k, v := range b.bySubtype {
		b.bySubtype[k] = filter(v)
	}
	for k, v := range b.byCategory {
		b.byCategory[k] = filter(v)
	}
	b.any = filter(b.any)
}

// Emit dispatches e to subtype subscribers, then category subscribers,
// then any-subscribers, synchronously. Each set is snapshotted before
// iteration so an Unsubscribe triggered by a handler does not affect the
// handlers already queued for this Emit.
func (b *Bus) Emit(e WorldEvent) {
	for _, s := range snapshot(b.bySubtype[e.Subtype]) {
		s.fn(e)
	}
	for _, s := range snapshot(b.byCategory[e.Category]) {
		s.fn(e)
	}
	for _, s := range snapshot(b.any) {
		s.fn(e)
	}
}

func snapshot(list []subscription) []subscription {
	out := make([]subscription, len(list))
	copy(out, list)
	return out
}
