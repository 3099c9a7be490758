package solverforge

import "sort"

// Tuple3, Tuple4, and Tuple5 are canonicalized (strictly ascending) matches
// for the tri/quad/penta self-join kernels, mirroring Tuple2. Fixed-size
// arrays are used (not slices) so they remain valid, comparable map keys —
// each arity is a distinct concrete type per spec.md §4.C, not a generic
// generalization over k.
type Tuple3 [3]int
type Tuple4 [4]int
type Tuple5 [5]int

// combinationsExcluding returns every (size)-combination of bucket's
// elements that excludes the given index, in ascending order within each
// combination. bucket is not mutated. Used by the tri/quad/penta kernels to
// enumerate the "every ordered combination of k-1 distinct other indices"
// step of the insert algorithm (spec.md §4.C).
func combinationsExcluding(bucket map[int]struct{}, exclude int, size int) [][]int {
	others := make([]int, 0, len(bucket))
	for idx := range bucket {
		if idx != exclude {
			others = append(others, idx)
		}
	}
	sort.Ints(others)

	if size == 0 {
		return [][]int{{}}
	}
	if size > len(others) {
		return nil
	}

	var out [][]int
	combo := make([]int, size)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == size {
			cp := make([]int, size)
			copy(cp, combo)
			out = append(out, cp)
			return
		}
		for i := start; i < len(others); i++ {
			combo[depth] = others[i]
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return out
}

func sortedWith(combo []int, extra int) []int {
	out := make([]int, len(combo)+1)
	copy(out, combo)
	out[len(combo)] = extra
	sort.Ints(out)
	return out
}
