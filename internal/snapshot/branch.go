package snapshot

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/worldfabric/internal/ecs"
	"github.com/talgya/worldfabric/internal/event"
	"github.com/talgya/worldfabric/internal/simerr"
	"github.com/talgya/worldfabric/internal/simulation"
	"github.com/talgya/worldfabric/internal/valuemap"
)

// MaxBranches is the maximum number of branches a BranchRunner holds at
// once (spec.md §4.9).
const MaxBranches = 3

// DivergenceAction mutates a restored world/log pair before a branch
// begins running. Implementations never emit events for the apply step
// itself.
type DivergenceAction interface {
	apply(world *ecs.World, log *event.Log) error
}

// ReverseOutcome appends a new event with subtype "<orig>.reversed",
// data = original data merged with patch plus reversed:true, and
// causes=[orig.id]. The original event remains in the log untouched.
type ReverseOutcome struct {
	EventID   event.EventID
	PatchData valuemap.Record
}

func (r ReverseOutcome) apply(world *ecs.World, log *event.Log) error {
	orig, ok := log.GetByID(r.EventID)
	if !ok {
		return fmt.Errorf("snapshot: reverse-outcome on unknown event %d: %w", r.EventID, simerr.ErrNotFound)
	}
	data := valuemap.MergeInto(orig.Data, r.PatchData)
	data["reversed"] = valuemap.Bool(true)

	newID := log.Allocate()
	return log.Append(event.WorldEvent{
		ID:        newID,
		Category:  orig.Category,
		Subtype:   orig.Subtype + ".reversed",
		Timestamp: orig.Timestamp,
		Causes:    []event.EventID{orig.ID},
		Data:      data,
	})
}

// RemoveCharacter destroys ID if it is currently alive; a no-op
// otherwise.
type RemoveCharacter struct {
	ID ecs.EntityID
}

func (r RemoveCharacter) apply(world *ecs.World, log *event.Log) error {
	if world.IsAlive(r.ID) {
		world.DestroyEntity(r.ID)
	}
	return nil
}

// ChangeDecision merges Patch into id's existing component of
// ComponentKind. A no-op if id has no component of that kind.
type ChangeDecision struct {
	ID            ecs.EntityID
	ComponentKind string
	Patch         valuemap.Record
}

func (c ChangeDecision) apply(world *ecs.World, log *event.Log) error {
	return mergeComponent(world, c.ID, c.ComponentKind, c.Patch)
}

// AddEvent appends a deep clone of Event to the branch's log.
type AddEvent struct {
	Event event.WorldEvent
}

func (a AddEvent) apply(world *ecs.World, log *event.Log) error {
	return log.Append(a.Event.Clone())
}

// DifferentSeed records a replacement seed on the branch. The caller's
// engine factory is expected to use it to re-fork system RNGs; applying
// it here is a pure record, no world/log mutation.
type DifferentSeed struct {
	Seed uint32
}

func (d DifferentSeed) apply(world *ecs.World, log *event.Log) error {
	return nil
}

// Branch is a snapshot restored with a divergence applied, running its
// own independent World/Clock/EventLog/Bus.
type Branch struct {
	ID       uuid.UUID
	Label    string
	Seed     uint32
	World    *ecs.World
	Clock    *simulation.Clock
	Log      *event.Log
	Bus      *event.Bus
	Events   []event.WorldEvent // collected during RunBranch
	Engine   *simulation.Engine
}

// EngineFactory builds an Engine for a branch given its freshly restored
// collaborators and seed (honoring DifferentSeed, if applied).
type EngineFactory func(world *ecs.World, clock *simulation.Clock, bus *event.Bus, log *event.Log, seed uint32) *simulation.Engine

// Runner owns up to MaxBranches branches, each fully independent of the
// source simulation and of one another.
type Runner struct {
	manager  *Manager
	branches map[uuid.UUID]*Branch
}

// NewRunner returns an empty branch runner.
func NewRunner(manager *Manager) *Runner {
	return &Runner{manager: manager, branches: make(map[uuid.UUID]*Branch)}
}

// CreateBranch restores snap into a fresh World/Clock/Log, applies
// action, and registers the resulting branch under a freshly allocated
// id. Fails with BranchLimitReached if the runner already holds
// MaxBranches branches.
func (r *Runner) CreateBranch(snap *Snapshot, action DivergenceAction, label string, seed uint32) (*Branch, error) {
	if len(r.branches) >= MaxBranches {
		return nil, fmt.Errorf("snapshot: branch limit reached (%d): %w", MaxBranches, simerr.ErrBranchLimitReached)
	}

	world, clock, log, err := r.manager.Restore(snap)
	if err != nil {
		return nil, err
	}

	branchSeed := seed
	if ds, ok := action.(DifferentSeed); ok {
		branchSeed = ds.Seed
	}

	if err := action.apply(world, log); err != nil {
		return nil, err
	}

	branch := &Branch{
		ID:    uuid.New(),
		Label: label,
		Seed:  branchSeed,
		World: world,
		Clock: clock,
		Log:   log,
		Bus:   event.NewBus(),
	}
	r.branches[branch.ID] = branch
	return branch, nil
}

// RunBranch builds an engine for id via factory, initializes it, and
// runs it for ticks ticks, collecting every event emitted along the way
// onto the branch's Events field.
func (r *Runner) RunBranch(id uuid.UUID, ticks uint64, factory EngineFactory) ([]event.WorldEvent, error) {
	branch, ok := r.branches[id]
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown branch %s: %w", id, simerr.ErrNotFound)
	}

	branch.Bus.OnAny(func(e event.WorldEvent) {
		branch.Events = append(branch.Events, e)
	})

	branch.Engine = factory(branch.World, branch.Clock, branch.Bus, branch.Log, branch.Seed)
	if err := branch.Engine.Initialize(); err != nil {
		return nil, err
	}
	if err := branch.Engine.Run(ticks); err != nil {
		return nil, err
	}
	return branch.Events, nil
}

// DeleteBranch releases a branch's memory.
func (r *Runner) DeleteBranch(id uuid.UUID) {
	delete(r.branches, id)
}

// Branches returns the ids of every currently held branch.
func (r *Runner) Branches() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(r.branches))
	for id := range r.branches {
		out = append(out, id)
	}
	return out
}
