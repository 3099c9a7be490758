package solverforge

// PlanningSolution is the minimal capability set every solution type must
// expose (spec.md §4.B): a score slot, and the ability to be cloned so the
// phase driver can snapshot a best-so-far copy without aliasing the working
// solution. S is the concrete user solution type; PlanningSolution is
// implemented by S itself (value or pointer, whichever S's author chooses),
// not by the engine.
type PlanningSolution[S any] interface {
	// Score returns the last score written by Score Director.
	Score() (Score, bool)

	// SetScore stores the solution's last-computed score, or clears it
	// when ok is false.
	SetScore(score Score, ok bool)

	// Clone returns a deep-enough copy that mutating the clone's planning
	// variables never affects the receiver. Entity collections must be
	// copied; facts (read-only reference collections) may be shared.
	Clone() S
}

// EntityDescriptor enumerates the planning variables of one entity
// collection within a solution, and the accessor functions the engine uses
// to read/write them. A and S are the entity and solution types; V is the
// value type shared by every planning variable this descriptor exposes
// under VariableName (most entities expose one variable per descriptor —
// multi-variable entities register one EntityDescriptor per variable).
type EntityDescriptor[S, A, V any] struct {
	// DescriptorIndex is this descriptor's position within
	// SolutionDescriptor.Entities; it is the opaque identifier threaded
	// through before/after-change notifications (spec.md §3).
	DescriptorIndex int

	// VariableName identifies the planning variable this descriptor reads
	// and writes. It is never inspected by the engine beyond equality and
	// logging — see spec.md §4.B.
	VariableName string

	// Entities extracts the entity collection from the solution. The
	// returned slice must be stable for the lifetime of one
	// initialize/solve cycle (the same backing array); entities are
	// addressed purely by index into it.
	Entities func(solution *S) []A

	// Get reads the current value of this descriptor's planning variable
	// on the entity at index. A false second return means unassigned.
	Get func(solution *S, index int) (V, bool)

	// Set writes the planning variable. ok=false unassigns it.
	Set func(solution *S, index int, value V, ok bool)

	// ValueRange returns the domain this variable may be assigned from.
	// May be nil for shadow variables (out of scope here, per spec.md §3).
	ValueRange func(solution *S) ValueRange[V]
}

// EntityCount returns len(d.Entities(solution)), the current size of this
// descriptor's entity collection.
func (d EntityDescriptor[S, A, V]) EntityCount(solution *S) int {
	return len(d.Entities(solution))
}

// SolutionDescriptor enumerates every EntityDescriptor registered against a
// solution type, by opaque descriptor index (spec.md §4.B). It is built
// once at solver-construction time and is read-only afterwards.
//
// Go has no heterogeneous compile-time tuple of EntityDescriptor[S, A, V]
// for varying A/V, so SolutionDescriptor stores an EntityMeta interface
// per slot; this is the one dynamic-dispatch boundary spec.md §9 permits
// ("dispatch dynamically only at the solver-builder boundary"). Each
// concrete EntityDescriptor[S, A, V] still does its own monomorphized
// Get/Set — the interface only carries entity-count and name, which a move
// or selector needs without knowing A or V.
type SolutionDescriptor[S any] struct {
	Entities []EntityMeta[S]
}

// EntityMeta is the descriptor-index-addressable, type-erased view of an
// EntityDescriptor used by code that iterates all descriptors generically
// (e.g. the score director's before/after-change fan-out, which only needs
// a count and a name, not the entity or value type).
type EntityMeta[S any] interface {
	Index() int
	Name() string
	Count(solution *S) int
}

func (d EntityDescriptor[S, A, V]) Index() int                 { return d.DescriptorIndex }
func (d EntityDescriptor[S, A, V]) Name() string                { return d.VariableName }
func (d EntityDescriptor[S, A, V]) Count(solution *S) int       { return d.EntityCount(solution) }

// NewSolutionDescriptor builds a SolutionDescriptor from entity descriptors,
// kept in registration order. Each descriptor's DescriptorIndex is used as
// given; none is assigned here.
func NewSolutionDescriptor[S any](entities ...EntityMeta[S]) *SolutionDescriptor[S] {
	return &SolutionDescriptor[S]{Entities: entities}
}
