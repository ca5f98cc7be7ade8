package observer

import (
	"testing"

	"github.com/talgya/worldfabric/internal/event"
)

func TestAddBookmarkFirstWriteWins(t *testing.T) {
	o := New()
	o.AddBookmark("siege", 10)
	o.AddBookmark("siege", 20)

	marks := o.Bookmarks()
	if len(marks) != 1 {
		t.Fatalf("expected exactly one bookmark, got %d", len(marks))
	}
	if marks[0].Tick != 10 {
		t.Fatalf("expected first-write-wins tick 10, got %d", marks[0].Tick)
	}
}

func TestRemoveBookmarkPreservesOrder(t *testing.T) {
	o := New()
	o.AddBookmark("a", 1)
	o.AddBookmark("b", 2)
	o.AddBookmark("c", 3)
	o.RemoveBookmark("b")

	marks := o.Bookmarks()
	if len(marks) != 2 || marks[0].Label != "a" || marks[1].Label != "c" {
		t.Fatalf("expected [a c] after removing b, got %v", marks)
	}
}

func TestPauseResume(t *testing.T) {
	o := New()
	o.SetSpeed(Fast30)
	o.Pause()
	if o.Speed() != Paused {
		t.Fatal("expected Paused")
	}
	o.Resume()
	if o.Speed() != Normal {
		t.Fatal("expected Resume to restore Normal, not the pre-pause speed")
	}
}

func TestStepReflectsSpeed(t *testing.T) {
	o := New()
	o.SetSpeed(Fast365)
	if o.Step() != 365 {
		t.Fatalf("expected 365 ticks per step at Fast365, got %d", o.Step())
	}
}

func TestAutoSlowdownDropsOneTier(t *testing.T) {
	o := New()
	o.SetSpeed(UltraFast3650)

	o.Notify(event.WorldEvent{Significance: 95, Timestamp: 1})
	o.Notify(event.WorldEvent{Significance: 95, Timestamp: 10})
	if o.Speed() != UltraFast3650 {
		t.Fatal("expected no slowdown before the third qualifying event")
	}
	o.Notify(event.WorldEvent{Significance: 95, Timestamp: 20})
	if o.Speed() != Fast365 {
		t.Fatalf("expected one tier drop to Fast365, got %v", o.Speed())
	}
}

func TestAutoSlowdownNeverDropsBelowNormal(t *testing.T) {
	o := New()
	o.SetSpeed(Normal)
	for i := 0; i < 5; i++ {
		o.Notify(event.WorldEvent{Significance: 95, Timestamp: uint64(i)})
	}
	if o.Speed() != Normal {
		t.Fatalf("expected speed to stay at Normal, got %v", o.Speed())
	}
}

func TestAutoSlowdownIgnoresEventsOutsideWindow(t *testing.T) {
	o := New()
	o.SetSpeed(UltraFast3650)
	o.Notify(event.WorldEvent{Significance: 95, Timestamp: 0})
	o.Notify(event.WorldEvent{Significance: 95, Timestamp: 40}) // outside the 30-tick window from tick 0
	o.Notify(event.WorldEvent{Significance: 95, Timestamp: 41})
	if o.Speed() != UltraFast3650 {
		t.Fatalf("expected stale events pruned out of the window, got %v", o.Speed())
	}
}
