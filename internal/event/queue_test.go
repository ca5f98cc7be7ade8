package event

import "testing"

func TestQueueHeapDiscipline(t *testing.T) {
	q := NewQueue()
	for _, sig := range []int{10, 90, 50, 100, 0, 75} {
		q.Enqueue(WorldEvent{Significance: sig})
	}

	var prev = 101
	for q.Len() > 0 {
		e, ok := q.Dequeue()
		if !ok {
			t.Fatal("expected event")
		}
		if e.Significance > prev {
			t.Fatalf("heap discipline violated: %d after %d", e.Significance, prev)
		}
		prev = e.Significance
	}
}

func TestDrainDescendingOrder(t *testing.T) {
	q := NewQueue()
	sigs := []int{3, 1, 4, 1, 5, 9, 2, 6}
	for _, s := range sigs {
		q.Enqueue(WorldEvent{Significance: s})
	}
	drained := q.Drain()
	for i := 1; i < len(drained); i++ {
		if drained[i].Significance > drained[i-1].Significance {
			t.Fatalf("drain not descending: %v", drained)
		}
	}
	if q.Len() != 0 {
		t.Fatal("expected queue empty after drain")
	}
}
