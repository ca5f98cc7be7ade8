package domain

import (
	"testing"

	"github.com/talgya/worldfabric/internal/ecs"
)

func charID(n uint64) ecs.CharacterID { return ecs.CharacterID(n) }

func TestIntensifyEvictsWeakestAtCapacity(t *testing.T) {
	book := NewGrudgeBook()
	holder := charID(1)

	for i := 0; i < maxGrudgesPerHolder; i++ {
		book.Intensify(holder, charID(100+i), float64(i+1), 1, 0)
	}
	if len(book.Grudges(holder)) != maxGrudgesPerHolder {
		t.Fatalf("expected %d grudges at capacity, got %d", maxGrudgesPerHolder, len(book.Grudges(holder)))
	}

	// A new grudge stronger than the weakest (severity 1) evicts it.
	book.Intensify(holder, charID(999), 50, 1, 0)
	list := book.Grudges(holder)
	if len(list) != maxGrudgesPerHolder {
		t.Fatalf("expected capacity to stay at %d after eviction, got %d", maxGrudgesPerHolder, len(list))
	}
	if list[0].Against != charID(999) {
		t.Fatalf("expected strongest grudge first, got target %v", list[0].Against)
	}
	for _, g := range list {
		if g.Against == charID(100) {
			t.Fatal("expected the weakest original grudge to have been evicted")
		}
	}
}

func TestIntensifyWeakerThanWeakestIsDropped(t *testing.T) {
	book := NewGrudgeBook()
	holder := charID(1)
	for i := 0; i < maxGrudgesPerHolder; i++ {
		book.Intensify(holder, charID(100+i), 10, 1, 0)
	}
	book.Intensify(holder, charID(999), 1, 1, 0)
	for _, g := range book.Grudges(holder) {
		if g.Against == charID(999) {
			t.Fatal("expected a grudge weaker than every held grudge to be dropped, not inserted")
		}
	}
}

func TestDecayAllDropsBelowThreshold(t *testing.T) {
	book := NewGrudgeBook()
	holder := charID(1)
	book.Intensify(holder, charID(2), forgetThreshold+1, 0, 0)

	book.DecayAll(uint64(1*360), 360)

	if len(book.Grudges(holder)) != 0 {
		t.Fatal("expected a single year of decay to drop a grudge just above threshold")
	}
}

func TestInheritScalesByGeneration(t *testing.T) {
	book := NewGrudgeBook()
	ancestor := charID(1)
	heir := charID(2)
	book.Intensify(ancestor, charID(3), 100, 0, 0)

	book.Inherit(ancestor, heir)

	list := book.Grudges(heir)
	if len(list) != 1 {
		t.Fatalf("expected heir to inherit exactly one grudge, got %d", len(list))
	}
	want := 100 * inheritanceDecay[1] / inheritanceDecay[0]
	if list[0].Severity != want {
		t.Fatalf("expected inherited severity %f, got %f", want, list[0].Severity)
	}
	if list[0].Generation != 1 {
		t.Fatalf("expected generation 1, got %d", list[0].Generation)
	}
}
