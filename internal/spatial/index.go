package spatial

import (
	"github.com/talgya/worldfabric/internal/ecs"
)

// Point is a 2D world-space coordinate.
type Point struct {
	X, Y float64
}

// Index wraps a Quadtree[ecs.EntityID] with an entity->position map,
// enforcing "one position per entity" on AddEntity/MoveEntity per
// spec.md §4.5.
type Index struct {
	tree      *Quadtree[ecs.EntityID]
	positions map[ecs.EntityID]Point
}

// NewIndex builds an index over the given world bounds.
func NewIndex(bounds Bounds, maxEntries, maxDepth int) *Index {
	return &Index{
		tree:      New[ecs.EntityID](bounds, maxEntries, maxDepth),
		positions: make(map[ecs.EntityID]Point),
	}
}

// AddEntity places id at (x, y), replacing any prior position it held.
// Returns false if (x, y) is out of bounds; the entity retains no
// position in that case.
func (idx *Index) AddEntity(id ecs.EntityID, x, y float64) bool {
	if old, ok := idx.positions[id]; ok {
		idx.tree.Remove(old.X, old.Y, id)
		delete(idx.positions, id)
	}
	if !idx.tree.Insert(x, y, id) {
		return false
	}
	idx.positions[id] = Point{X: x, Y: y}
	return true
}

// MoveEntity re-keys id's position in O(log n) via remove+insert.
func (idx *Index) MoveEntity(id ecs.EntityID, x, y float64) bool {
	return idx.AddEntity(id, x, y)
}

// RemoveEntity drops id from the index entirely.
func (idx *Index) RemoveEntity(id ecs.EntityID) bool {
	old, ok := idx.positions[id]
	if !ok {
		return false
	}
	delete(idx.positions, id)
	return idx.tree.Remove(old.X, old.Y, id)
}

// Position returns id's current position, if tracked.
func (idx *Index) Position(id ecs.EntityID) (Point, bool) {
	p, ok := idx.positions[id]
	return p, ok
}

// QueryRect returns the ids of every tracked entity within rect.
func (idx *Index) QueryRect(rect Bounds) []ecs.EntityID {
	entries := idx.tree.QueryRect(rect)
	out := make([]ecs.EntityID, len(entries))
	for i, e := range entries {
		out[i] = e.Data
	}
	return out
}

// QueryRadius returns the ids of every tracked entity within radius of
// (x, y).
func (idx *Index) QueryRadius(x, y, radius float64) []ecs.EntityID {
	entries := idx.tree.QueryRadius(x, y, radius)
	out := make([]ecs.EntityID, len(entries))
	for i, e := range entries {
		out[i] = e.Data
	}
	return out
}

// QueryNearest returns the ids of up to k entities nearest (x, y).
func (idx *Index) QueryNearest(x, y float64, k int) []ecs.EntityID {
	entries := idx.tree.QueryNearest(x, y, k)
	out := make([]ecs.EntityID, len(entries))
	for i, e := range entries {
		out[i] = e.Data
	}
	return out
}

// Size returns the number of entities tracked.
func (idx *Index) Size() int {
	return len(idx.positions)
}

// Clear empties the index.
func (idx *Index) Clear() {
	idx.tree.Clear()
	idx.positions = make(map[ecs.EntityID]Point)
}
