// Command nqueens solves the N-Queens problem with a single first-fit
// construction phase, the same scenario described in spec.md §8's
// 4-queens test case scaled to a size given on the command line.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/solverforge/solverforge/pkg/solverforge"
)

type queen struct {
	row      int
	column   int
	assigned bool
}

type score struct {
	value solverforge.Score
	ok    bool
}

// board is the planning solution: one queen per row, its planning
// variable is which column it occupies. score is held behind a pointer so
// that Score/SetScore/Clone can all use value receivers while a score
// written through the director's *board (by way of the duck-typed
// SetScore call in ScoreDirector.CalculateScore) is still visible through
// every other copy sharing the same backing game.
type board struct {
	queens []queen
	score  *score
}

func newBoard(n int) *board {
	qs := make([]queen, n)
	for i := range qs {
		qs[i].row = i
	}
	return &board{queens: qs, score: &score{}}
}

func (b board) Score() (solverforge.Score, bool) { return b.score.value, b.score.ok }

func (b board) SetScore(value solverforge.Score, ok bool) {
	b.score.value, b.score.ok = value, ok
}

func (b board) Clone() board {
	cp := board{queens: make([]queen, len(b.queens)), score: &score{value: b.score.value, ok: b.score.ok}}
	copy(cp.queens, b.queens)
	return cp
}

func descriptor(n int) solverforge.EntityDescriptor[board, queen, int] {
	return solverforge.EntityDescriptor[board, queen, int]{
		DescriptorIndex: 0,
		VariableName:    "column",
		Entities:        func(b *board) []queen { return b.queens },
		Get: func(b *board, i int) (int, bool) {
			q := b.queens[i]
			return q.column, q.assigned
		},
		Set: func(b *board, i, v int, ok bool) {
			b.queens[i].column = v
			b.queens[i].assigned = ok
		},
		ValueRange: func(*board) solverforge.ValueRange[int] {
			return solverforge.NewIntRangeValueRange(0, n)
		},
	}
}

func zero() solverforge.Score { return solverforge.HardSoftScoreZero() }

func constraints(d solverforge.EntityDescriptor[board, queen, int]) *solverforge.ConstraintSet[board] {
	oneHard := func(*queen, *queen) solverforge.Score { return solverforge.NewHardSoftScore(-1, 0) }
	constKey := func(*queen) int { return 0 }

	sameColumn := solverforge.NewBiConstraint[board, queen, int](
		"sameColumn", solverforge.Penalty, true, d.DescriptorIndex, d.Entities, constKey,
		func(_ *board, a, b *queen) bool { return a.column == b.column },
		oneHard, zero,
	)
	ascending := solverforge.NewBiConstraint[board, queen, int](
		"ascendingDiagonal", solverforge.Penalty, true, d.DescriptorIndex, d.Entities, constKey,
		func(_ *board, a, b *queen) bool { return a.row-a.column == b.row-b.column },
		oneHard, zero,
	)
	descending := solverforge.NewBiConstraint[board, queen, int](
		"descendingDiagonal", solverforge.Penalty, true, d.DescriptorIndex, d.Entities, constKey,
		func(_ *board, a, b *queen) bool { return a.row+a.column == b.row+b.column },
		oneHard, zero,
	)
	return solverforge.NewConstraintSet[board](zero, sameColumn, ascending, descending)
}

func main() {
	n := flag.Int("n", 8, "board size")
	flag.Parse()

	if *n < 1 {
		fmt.Fprintln(os.Stderr, "n must be positive")
		os.Exit(1)
	}

	d := descriptor(*n)
	director := solverforge.NewScoreDirector[board](newBoard(*n), constraints(d), zero)

	values := make([]int, *n)
	for i := range values {
		values[i] = i
	}

	phase := &solverforge.ConstructionPhase[board, queen, int]{
		Descriptor: &d,
		Values:     solverforge.NewStaticTypedValueSelector[board](values),
		Forager:    solverforge.FirstFitForager[board]{},
	}

	solver := solverforge.NewSolver[board](director, solverforge.WithPhases[board](phase))
	result, stats := solver.Solve()

	finalScore, _ := result.Score()
	fmt.Printf("n=%d score=%s steps=%d\n", *n, finalScore.String(), stats.TotalStepCount)
	for _, q := range result.queens {
		fmt.Printf("row %d -> column %d\n", q.row, q.column)
	}
}
