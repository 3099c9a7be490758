package solverforge

import "math/rand"

// UnionIterator concatenates several iterators of the same element type, in
// order, stopping as soon as any child signals the consumer is done
// (spec.md §4.H's "union (concatenation)" composite).
func UnionIterator[M any](children ...MoveIterator[M]) MoveIterator[M] {
	return func(yield func(M) bool) {
		for _, child := range children {
			stop := false
			child(func(m M) bool {
				if !yield(m) {
					stop = true
					return false
				}
				return true
			})
			if stop {
				return
			}
		}
	}
}

// FilterIterator yields only the elements of it for which keep returns true
// (spec.md §4.H's "filtered ... wrapper").
func FilterIterator[M any](it MoveIterator[M], keep func(M) bool) MoveIterator[M] {
	return func(yield func(M) bool) {
		it(func(m M) bool {
			if !keep(m) {
				return true
			}
			return yield(m)
		})
	}
}

// ShuffledEntitySelector materializes its child's entities once per
// Iterate call and yields them in a seeded-random order. spec.md §9 is
// explicit that this shuffling is load-bearing (the dynamic move iterator
// it mirrors is deliberately shuffled into a vector to avoid local-optima
// trapping) and must never be "optimized away" into declarative order, so
// Iterate always performs the shuffle even though it costs an upfront
// materialization a pure-lazy selector would avoid.
type ShuffledEntitySelector[S any] struct {
	Child EntitySelector[S]
	Rand  *rand.Rand
}

// NewShuffledEntitySelector wraps child with a shuffle driven by rnd.
// Callers share one *rand.Rand per solve run (seeded from the solver's
// configured random seed) so two runs with the same seed reproduce the
// same shuffled order, per spec.md §5's determinism contract.
func NewShuffledEntitySelector[S any](child EntitySelector[S], rnd *rand.Rand) *ShuffledEntitySelector[S] {
	return &ShuffledEntitySelector[S]{Child: child, Rand: rnd}
}

func (s *ShuffledEntitySelector[S]) Iterate(director Director[S]) MoveIterator[EntityReference] {
	refs := Collect(s.Child.Iterate(director))
	s.Rand.Shuffle(len(refs), func(i, j int) { refs[i], refs[j] = refs[j], refs[i] })
	return func(yield func(EntityReference) bool) {
		for _, r := range refs {
			if !yield(r) {
				return
			}
		}
	}
}

func (s *ShuffledEntitySelector[S]) Size(director Director[S]) int {
	return s.Child.Size(director)
}

// ShuffledValueSelector is ShuffledEntitySelector's counterpart on the value
// side, for the same reason (spec.md §9).
type ShuffledValueSelector[S, V any] struct {
	Child TypedValueSelector[S, V]
	Rand  *rand.Rand
}

func NewShuffledValueSelector[S, V any](child TypedValueSelector[S, V], rnd *rand.Rand) *ShuffledValueSelector[S, V] {
	return &ShuffledValueSelector[S, V]{Child: child, Rand: rnd}
}

func (s *ShuffledValueSelector[S, V]) Iterate(director Director[S]) MoveIterator[V] {
	values := Collect(s.Child.Iterate(director))
	s.Rand.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	return func(yield func(V) bool) {
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	}
}

func (s *ShuffledValueSelector[S, V]) Size(director Director[S]) int {
	return s.Child.Size(director)
}
