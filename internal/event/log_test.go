package event

import "testing"

func TestAppendAndByTimeOrder(t *testing.T) {
	log := NewLog()
	for _, ts := range []uint64{5, 1, 3, 1} {
		id := log.Allocate()
		_ = log.Append(WorldEvent{ID: id, Timestamp: ts})
	}
	all := log.All()
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp < all[i-1].Timestamp {
			t.Fatalf("byTime not sorted: %v", all)
		}
	}
}

func TestGetByTimeRangeInclusive(t *testing.T) {
	log := NewLog()
	for _, ts := range []uint64{0, 5, 10, 15, 20} {
		id := log.Allocate()
		_ = log.Append(WorldEvent{ID: id, Timestamp: ts})
	}
	got := log.GetByTimeRange(5, 15)
	if len(got) != 3 {
		t.Fatalf("expected 3 events in [5,15], got %d: %v", len(got), got)
	}
	for _, e := range got {
		if e.Timestamp < 5 || e.Timestamp > 15 {
			t.Fatalf("event out of range: %+v", e)
		}
	}
}

func TestCausalClosureRejectsUnknownCause(t *testing.T) {
	log := NewLog()
	id := log.Allocate()
	err := log.Append(WorldEvent{ID: id, Timestamp: 1, Causes: []EventID{999}})
	if err == nil {
		t.Fatal("expected error for unknown cause")
	}
}

func TestGetChainAndCascade(t *testing.T) {
	log := NewLog()

	rootID := log.Allocate()
	_ = log.Append(WorldEvent{ID: rootID, Timestamp: 0})

	childID := log.Allocate()
	log.appendConsequence(rootID, childID)
	_ = log.Append(WorldEvent{ID: childID, Timestamp: 1, Causes: []EventID{rootID}})

	grandchildID := log.Allocate()
	log.appendConsequence(childID, grandchildID)
	_ = log.Append(WorldEvent{ID: grandchildID, Timestamp: 2, Causes: []EventID{childID}})

	chain := log.GetChain(grandchildID)
	if len(chain) != 2 {
		t.Fatalf("expected chain of 2, got %d: %v", len(chain), chain)
	}

	cascade := log.GetCascade(rootID)
	if len(cascade) != 2 {
		t.Fatalf("expected cascade of 2, got %d: %v", len(cascade), cascade)
	}
}

func TestGetByEntityAndCategory(t *testing.T) {
	log := NewLog()
	id := log.Allocate()
	_ = log.Append(WorldEvent{ID: id, Timestamp: 0, Participants: []EntityID{7}, Category: CategoryEconomy})

	if len(log.GetByEntity(7)) != 1 {
		t.Fatal("expected 1 event for entity 7")
	}
	if len(log.GetByCategory(CategoryEconomy)) != 1 {
		t.Fatal("expected 1 event for category Economy")
	}
}
