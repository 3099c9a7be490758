package solverforge

// MoveSelector is a lazy iterator over moves given a score director
// (spec.md §4.H). ChangeMoveSelector and SwapMoveSelector below produce
// entity_count·value_count and the triangular entity-pair count of moves
// respectively, in declarative order unless wrapped in a Shuffled*Selector.
type MoveSelector[S any, M any] interface {
	Iterate(director Director[S]) MoveIterator[M]
	Size(director Director[S]) int
}

// ChangeMoveSelector produces one ChangeMove per (entity, value) pair drawn
// from an EntitySelector and a TypedValueSelector, grounded on the source's
// ChangeMoveSelector (typed_move_selector.rs).
type ChangeMoveSelector[S, A, V any] struct {
	Descriptor *EntityDescriptor[S, A, V]
	Entities   EntitySelector[S]
	Values     TypedValueSelector[S, V]
}

func NewChangeMoveSelector[S, A, V any](descriptor *EntityDescriptor[S, A, V], entities EntitySelector[S], values TypedValueSelector[S, V]) *ChangeMoveSelector[S, A, V] {
	return &ChangeMoveSelector[S, A, V]{Descriptor: descriptor, Entities: entities, Values: values}
}

func (s *ChangeMoveSelector[S, A, V]) Iterate(director Director[S]) MoveIterator[Move[S]] {
	return func(yield func(Move[S]) bool) {
		stop := false
		s.Entities.Iterate(director)(func(entity EntityReference) bool {
			s.Values.Iterate(director)(func(value V) bool {
				move := NewChangeMove(s.Descriptor, entity.EntityIndex, value, true)
				if !yield(move) {
					stop = true
					return false
				}
				return true
			})
			return !stop
		})
	}
}

func (s *ChangeMoveSelector[S, A, V]) Size(director Director[S]) int {
	return s.Entities.Size(director) * s.Values.Size(director)
}

// SwapMoveSelector produces one SwapMove per unordered pair of distinct
// entities from Entities, using the classic triangular (skip(i+1))
// enumeration so (a, b) and (b, a) are never both produced (spec.md §4.H;
// grounded on the source's SwapMoveSelector, typed_move_selector.rs).
type SwapMoveSelector[S, A, V any] struct {
	Descriptor *EntityDescriptor[S, A, V]
	Entities   EntitySelector[S]
}

func NewSwapMoveSelector[S, A, V any](descriptor *EntityDescriptor[S, A, V], entities EntitySelector[S]) *SwapMoveSelector[S, A, V] {
	return &SwapMoveSelector[S, A, V]{Descriptor: descriptor, Entities: entities}
}

func (s *SwapMoveSelector[S, A, V]) Iterate(director Director[S]) MoveIterator[Move[S]] {
	refs := Collect(s.Entities.Iterate(director))
	return func(yield func(Move[S]) bool) {
		for i := 0; i < len(refs); i++ {
			for j := i + 1; j < len(refs); j++ {
				move := NewSwapMove(s.Descriptor, refs[i].EntityIndex, refs[j].EntityIndex)
				if !yield(move) {
					return
				}
			}
		}
	}
}

func (s *SwapMoveSelector[S, A, V]) Size(director Director[S]) int {
	n := s.Entities.Size(director)
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}
