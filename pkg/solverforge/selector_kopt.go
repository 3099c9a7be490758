package solverforge

import "github.com/mitchellh/hashstructure"

// KOptMoveSelector produces KOptMove instances for every entity, cut-point
// combination (up to MaxCuts cuts), and reconnection pattern
// EnumerateReconnections yields, deduplicating reconnections that are
// structurally identical once degenerate segments (length <= 1, where
// reversal is a no-op) are accounted for. k_opt.rs enumerates candidate cut
// points directly; it does not need a structural hash because Rust's
// reconnection table is already curated down to the distinct patterns. This
// selector's EnumerateReconnections is the general superset (move_kopt.go's
// doc comment), so duplicates are possible here that weren't there, and
// hashstructure.Hash over the normalized (cuts, permutation, effective
// reversal) tuple is the cheapest way to collapse them back down.
type KOptMoveSelector[S, A, V any] struct {
	Descriptor *ListEntityDescriptor[S, A, V]
	MaxCuts    int
}

func NewKOptMoveSelector[S, A, V any](descriptor *ListEntityDescriptor[S, A, V], maxCuts int) *KOptMoveSelector[S, A, V] {
	return &KOptMoveSelector[S, A, V]{Descriptor: descriptor, MaxCuts: maxCuts}
}

func (s *KOptMoveSelector[S, A, V]) Iterate(director Director[S]) MoveIterator[Move[S]] {
	d := s.Descriptor
	maxCuts := s.MaxCuts
	return func(yield func(Move[S]) bool) {
		solution := director.WorkingSolution()
		count := d.EntityCount(solution)
		for entity := 0; entity < count; entity++ {
			seen := make(map[uint64]struct{})
			listLen := len(d.GetList(solution, entity))
			for k := 2; k <= maxCuts; k++ {
				if listLen < k+1 {
					continue
				}
				for _, cuts := range cutCombinations(listLen, k) {
					for _, recon := range EnumerateReconnections(k) {
						key, ok := normalizedReconnectionKey(cuts, recon)
						if !ok {
							continue
						}
						if _, dup := seen[key]; dup {
							continue
						}
						seen[key] = struct{}{}
						move := NewKOptMove(d, entity, cuts, recon)
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

func (s *KOptMoveSelector[S, A, V]) Size(director Director[S]) int {
	solution := director.WorkingSolution()
	return s.Descriptor.EntityCount(solution)
}

// cutCombinations enumerates every strictly-ascending k-tuple of cut
// positions within (0, listLen).
func cutCombinations(listLen, k int) [][]int {
	var out [][]int
	var pick func(start int, chosen []int)
	pick = func(start int, chosen []int) {
		if len(chosen) == k {
			cp := make([]int, k)
			copy(cp, chosen)
			out = append(out, cp)
			return
		}
		for v := start; v < listLen; v++ {
			pick(v+1, append(chosen, v))
		}
	}
	pick(1, nil)
	return out
}

// normalizedReconnectionKey hashes a (cuts, reconnection) pair after
// clearing the reversed flag on any segment with fewer than two elements,
// since reversing a 0- or 1-element segment has no observable effect; two
// reconnections differing only in such a flag are the same move.
func normalizedReconnectionKey(cuts []int, recon KOptReconnection) (uint64, bool) {
	boundaries := make([]int, 0, len(cuts)+2)
	boundaries = append(boundaries, 0)
	boundaries = append(boundaries, cuts...)
	segLengths := make([]int, len(boundaries))
	for i := range boundaries {
		var end int
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		} else {
			end = -1 // unknown until list length is known; treat as >1
		}
		if end >= 0 {
			segLengths[i] = end - boundaries[i]
		} else {
			segLengths[i] = 2
		}
	}
	normalized := make([]bool, len(recon.Reversed))
	for i, segIdx := range recon.Permutation {
		if segIdx < len(segLengths) && segLengths[segIdx] > 1 {
			normalized[i] = recon.Reversed[i]
		}
	}
	payload := struct {
		Cuts        []int
		Permutation []int
		Reversed    []bool
	}{Cuts: cuts, Permutation: recon.Permutation, Reversed: normalized}
	h, err := hashstructure.Hash(payload, nil)
	if err != nil {
		return 0, false
	}
	return h, true
}
