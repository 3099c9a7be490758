package solverforge

// queens_fixture_test.go defines a small N-Queens solution model shared by
// the constraint-kernel, director, move, and phase tests throughout this
// package (it is also scenario 1 of spec.md §8: "4-queens"). Queens are
// indexed by row (their position in the Queens slice is fixed); each
// queen's planning variable is its Column.

type queen struct {
	Row      int
	Column   int
	Assigned bool
}

// queensScore holds the solution's last-computed score behind a pointer so
// that Score/SetScore/Clone can all use value receivers (queensSolution
// itself, not *queensSolution, is the type satisfying PlanningSolution
// below) while a score written through one copy of queensSolution is still
// visible through every other copy sharing the same backing board.
type queensScore struct {
	score Score
	ok    bool
}

type queensSolution struct {
	Queens []queen
	score  *queensScore
}

func newQueensSolution(n int) *queensSolution {
	qs := make([]queen, n)
	for i := range qs {
		qs[i].Row = i
	}
	return &queensSolution{Queens: qs, score: &queensScore{}}
}

func (s queensSolution) Score() (Score, bool) { return s.score.score, s.score.ok }

func (s queensSolution) SetScore(score Score, ok bool) {
	s.score.score, s.score.ok = score, ok
}

func (s queensSolution) Clone() queensSolution {
	cp := queensSolution{
		Queens: make([]queen, len(s.Queens)),
		score:  &queensScore{score: s.score.score, ok: s.score.ok},
	}
	copy(cp.Queens, s.Queens)
	return cp
}

const queensDescriptorIndex = 0

func queensEntityDescriptor(n int) EntityDescriptor[queensSolution, queen, int] {
	return EntityDescriptor[queensSolution, queen, int]{
		DescriptorIndex: queensDescriptorIndex,
		VariableName:    "column",
		Entities:        func(s *queensSolution) []queen { return s.Queens },
		Get: func(s *queensSolution, i int) (int, bool) {
			q := s.Queens[i]
			return q.Column, q.Assigned
		},
		Set: func(s *queensSolution, i int, v int, ok bool) {
			s.Queens[i].Column = v
			s.Queens[i].Assigned = ok
		},
		ValueRange: func(s *queensSolution) ValueRange[int] {
			return NewIntRangeValueRange(0, n)
		},
	}
}

// assignAll assigns cols[i] to queen i directly (bypassing the director),
// used to set up fixtures before calling Initialize on a kernel.
func (s *queensSolution) assignAll(cols []int) {
	for i, c := range cols {
		s.Queens[i].Column = c
		s.Queens[i].Assigned = true
	}
}

// sameColumnFilter penalizes unordered pairs of queens sharing a column
// ("same row" in spec.md §8 scenario 1's board orientation, where queens
// are indexed by row and the planning variable is column).
func sameColumnFilter(_ *queensSolution, a, b *queen) bool {
	return a.Column == b.Column
}

func ascendingDiagonalFilter(_ *queensSolution, a, b *queen) bool {
	return a.Row-a.Column == b.Row-b.Column
}

func descendingDiagonalFilter(_ *queensSolution, a, b *queen) bool {
	return a.Row+a.Column == b.Row+b.Column
}
