package solverforge

// ListChangeMoveSelector produces one ListChangeMove per (source entity,
// source position, destination entity, destination position) combination
// that IsApplicable accepts. list_change.rs (the move itself) was part of
// the retained pack but its selector was not — this iteration shape is an
// original construction in the same declarative, fully-enumerated style
// ChangeMoveSelector uses for single-value variables, which the Shuffled*
// wrappers narrow down for large lists the same way they do elsewhere.
type ListChangeMoveSelector[S, A, V any] struct {
	Descriptor *ListEntityDescriptor[S, A, V]
}

func NewListChangeMoveSelector[S, A, V any](descriptor *ListEntityDescriptor[S, A, V]) *ListChangeMoveSelector[S, A, V] {
	return &ListChangeMoveSelector[S, A, V]{Descriptor: descriptor}
}

func (s *ListChangeMoveSelector[S, A, V]) Iterate(director Director[S]) MoveIterator[Move[S]] {
	d := s.Descriptor
	return func(yield func(Move[S]) bool) {
		solution := director.WorkingSolution()
		count := d.EntityCount(solution)
		for srcEntity := 0; srcEntity < count; srcEntity++ {
			srcList := d.GetList(solution, srcEntity)
			for srcIndex := range srcList {
				for destEntity := 0; destEntity < count; destEntity++ {
					destLen := len(d.GetList(solution, destEntity))
					if destEntity == srcEntity {
						destLen = len(srcList)
					}
					for destIndex := 0; destIndex <= destLen; destIndex++ {
						if srcEntity == destEntity && destIndex >= destLen {
							continue
						}
						move := NewListChangeMove(d, srcEntity, srcIndex, destEntity, destIndex)
						if !move.IsApplicable(solution) {
							continue
						}
						if !yield(move) {
							return
						}
					}
				}
			}
		}
	}
}

func (s *ListChangeMoveSelector[S, A, V]) Size(director Director[S]) int {
	solution := director.WorkingSolution()
	count := s.Descriptor.EntityCount(solution)
	total := 0
	for e := 0; e < count; e++ {
		total += len(s.Descriptor.GetList(solution, e))
	}
	return total * count
}

// SublistChangeMoveSelector produces SublistChangeMove instances for every
// contiguous run up to MaxLength long within each entity's list, moved to
// every legal destination position, both reversed and not — the sublist
// analogue of ListChangeMoveSelector, same grounding rationale
// (sublist_change.rs held the move, not a selector).
type SublistChangeMoveSelector[S, A, V any] struct {
	Descriptor *ListEntityDescriptor[S, A, V]
	MaxLength  int
}

func NewSublistChangeMoveSelector[S, A, V any](descriptor *ListEntityDescriptor[S, A, V], maxLength int) *SublistChangeMoveSelector[S, A, V] {
	return &SublistChangeMoveSelector[S, A, V]{Descriptor: descriptor, MaxLength: maxLength}
}

func (s *SublistChangeMoveSelector[S, A, V]) Iterate(director Director[S]) MoveIterator[Move[S]] {
	d := s.Descriptor
	maxLen := s.MaxLength
	if maxLen < 1 {
		maxLen = 1
	}
	return func(yield func(Move[S]) bool) {
		solution := director.WorkingSolution()
		count := d.EntityCount(solution)
		for srcEntity := 0; srcEntity < count; srcEntity++ {
			srcList := d.GetList(solution, srcEntity)
			for length := 1; length <= maxLen && length <= len(srcList); length++ {
				for start := 0; start+length <= len(srcList); start++ {
					for destEntity := 0; destEntity < count; destEntity++ {
						destLen := len(d.GetList(solution, destEntity))
						if destEntity == srcEntity {
							destLen = len(srcList) - length
						}
						for destIndex := 0; destIndex <= destLen; destIndex++ {
							for _, rev := range [2]bool{false, true} {
								move := NewSublistChangeMove(d, srcEntity, start, length, destEntity, destIndex, rev)
								if !move.IsApplicable(solution) {
									continue
								}
								if !yield(move) {
									return
								}
							}
						}
					}
				}
			}
		}
	}
}

func (s *SublistChangeMoveSelector[S, A, V]) Size(director Director[S]) int {
	solution := director.WorkingSolution()
	count := s.Descriptor.EntityCount(solution)
	total := 0
	for e := 0; e < count; e++ {
		total += len(s.Descriptor.GetList(solution, e))
	}
	return total * count * 2
}
