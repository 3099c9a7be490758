package solverforge

// EntityReference addresses one entity within a solution by descriptor and
// index, the same coordinate pair Director's before/after-change protocol
// uses (spec.md §4.H). Selectors hand these out instead of raw values so a
// move can be built generically without knowing the entity type A.
type EntityReference struct {
	DescriptorIndex int
	EntityIndex     int
}

// MoveIterator is the selector layer's lazy-iteration primitive. Go has no
// counterpart to the source's lazy Iterator trait, so selectors are
// expressed as range-over-func generators: the iterator calls yield once per
// candidate in order and stops as soon as yield returns false, exactly like
// the range-over-func iterators the standard library adopted in iter.Seq.
// A selector never materializes its full candidate list unless it actually
// needs to (e.g. to sort by distance), matching the source's "lazy unless a
// distribution forces a full pass" behavior (nearby.rs).
type MoveIterator[M any] func(yield func(M) bool)

// Collect drains it into a slice. Intended for tests and for selectors (like
// nearby selection) that must see every candidate before producing output;
// production code iterating a selector for its own sake should range over
// the MoveIterator directly so an early termination short-circuits.
func Collect[M any](it MoveIterator[M]) []M {
	var out []M
	it(func(m M) bool {
		out = append(out, m)
		return true
	})
	return out
}

// EntitySelector produces the entities of one (or several) descriptors that
// a move selector may pick as the subject of a move (spec.md §4.H). Size
// reports how many entities Iterate would yield without materializing them,
// for forager/statistics sizing.
type EntitySelector[S any] interface {
	Iterate(director Director[S]) MoveIterator[EntityReference]
	Size(director Director[S]) int
}

// FromSolutionEntitySelector yields every entity currently in one
// descriptor's collection, in index order — the base case every other
// entity selector composes on top of, grounded on the source's
// FromSolutionEntitySelector (entity.rs, referenced throughout
// typed_move_selector.rs and nearby.rs).
type FromSolutionEntitySelector[S any] struct {
	Meta EntityMeta[S]
}

// NewFromSolutionEntitySelector builds a selector over meta's entity
// collection.
func NewFromSolutionEntitySelector[S any](meta EntityMeta[S]) *FromSolutionEntitySelector[S] {
	return &FromSolutionEntitySelector[S]{Meta: meta}
}

func (s *FromSolutionEntitySelector[S]) Iterate(director Director[S]) MoveIterator[EntityReference] {
	descriptorIndex := s.Meta.Index()
	count := s.Meta.Count(director.WorkingSolution())
	return func(yield func(EntityReference) bool) {
		for i := 0; i < count; i++ {
			if !yield(EntityReference{DescriptorIndex: descriptorIndex, EntityIndex: i}) {
				return
			}
		}
	}
}

func (s *FromSolutionEntitySelector[S]) Size(director Director[S]) int {
	return s.Meta.Count(director.WorkingSolution())
}

// FilteredEntitySelector yields only the child selector's entities for
// which keep returns true. Size is reported as the child's size, matching
// the source's treatment of filtered selectors as an estimate rather than
// an exact count (nearby.rs does the same for NearbyEntitySelector.size).
type FilteredEntitySelector[S any] struct {
	Child EntitySelector[S]
	Keep  func(director Director[S], ref EntityReference) bool
}

func NewFilteredEntitySelector[S any](child EntitySelector[S], keep func(Director[S], EntityReference) bool) *FilteredEntitySelector[S] {
	return &FilteredEntitySelector[S]{Child: child, Keep: keep}
}

func (s *FilteredEntitySelector[S]) Iterate(director Director[S]) MoveIterator[EntityReference] {
	child := s.Child.Iterate(director)
	return func(yield func(EntityReference) bool) {
		child(func(ref EntityReference) bool {
			if !s.Keep(director, ref) {
				return true
			}
			return yield(ref)
		})
	}
}

func (s *FilteredEntitySelector[S]) Size(director Director[S]) int {
	return s.Child.Size(director)
}
