package event

import "container/heap"

// Queue is a binary max-heap keyed by Significance, used by the cascade
// engine (and any observer wanting significance-ordered drainage).
// Enqueue/Dequeue/Peek are O(log n); ties resolve by insertion order,
// which is arbitrary per spec.md §4.4 but made consistent here by
// tracking a monotonic sequence number.
type Queue struct {
	h       queueHeap
	nextSeq int
}

// NewQueue creates an empty significance queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue adds e to the queue.
func (q *Queue) Enqueue(e WorldEvent) {
	heap.Push(&q.h, queueItem{event: e, seq: q.nextSeq})
	q.nextSeq++
}

// Dequeue removes and returns the highest-significance event. The second
// return is false if the queue is empty.
func (q *Queue) Dequeue() (WorldEvent, bool) {
	if q.h.Len() == 0 {
		return WorldEvent{}, false
	}
	item := heap.Pop(&q.h).(queueItem)
	return item.event, true
}

// Peek returns the highest-significance event without removing it.
func (q *Queue) Peek() (WorldEvent, bool) {
	if q.h.Len() == 0 {
		return WorldEvent{}, false
	}
	return q.h[0].event, true
}

// Len reports the number of queued events.
func (q *Queue) Len() int {
	return q.h.Len()
}

// Drain removes and returns every queued event in descending significance
// order.
func (q *Queue) Drain() []WorldEvent {
	out := make([]WorldEvent, 0, q.h.Len())
	for q.h.Len() > 0 {
		e, _ := q.Dequeue()
		out = append(out, e)
	}
	return out
}

type queueItem struct {
	event WorldEvent
	seq   int
}

type queueHeap []queueItem

func (h queueHeap) Len() int { return len(h) }
func (h queueHeap) Less(i, j int) bool {
	if h[i].event.Significance != h[j].event.Significance {
		return h[i].event.Significance > h[j].event.Significance
	}
	return h[i].seq < h[j].seq
}
func (h queueHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *queueHeap) Push(x any) {
	*h = append(*h, x.(queueItem))
}

func (h *queueHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
