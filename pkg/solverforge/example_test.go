package solverforge

import "fmt"

// ExampleHardSoftScore_add shows the two-level saturating arithmetic every
// constraint kernel's Initialize/OnInsert/OnRetract accumulates through.
func ExampleHardSoftScore_add() {
	a := NewHardSoftScore(-2, 5)
	b := NewHardSoftScore(1, -1)
	fmt.Println(a.Add(b))
	// Output: -1hard/4soft
}

// widget and widgetBoard are a minimal fixture for the Stream DSL examples
// below: three widgets, two of them Broken.
type widget struct {
	ID     int
	Broken bool
}

type widgetScore struct {
	score Score
	ok    bool
}

type widgetBoard struct {
	Widgets []widget
	score   *widgetScore
}

func (b widgetBoard) Score() (Score, bool)     { return b.score.score, b.score.ok }
func (b widgetBoard) SetScore(s Score, ok bool) { b.score.score, b.score.ok = s, ok }
func (b widgetBoard) Clone() widgetBoard {
	cp := widgetBoard{Widgets: make([]widget, len(b.Widgets)), score: &widgetScore{score: b.score.score, ok: b.score.ok}}
	copy(cp.Widgets, b.Widgets)
	return cp
}

func newWidgetBoard() *widgetBoard {
	return &widgetBoard{
		Widgets: []widget{{ID: 1, Broken: true}, {ID: 2, Broken: false}, {ID: 3, Broken: true}},
		score:   &widgetScore{},
	}
}

const widgetDescriptorIndex = 0

func widgetEntities(b *widgetBoard) []widget { return b.Widgets }

// ExampleUniStream builds a uni-arity constraint through the Stream DSL
// instead of calling NewUniConstraint directly: filter down to broken
// widgets, then penalize one hard point apiece.
func ExampleUniStream() {
	board := newWidgetBoard()

	constraint := NewUniStream[widgetBoard, widget](widgetDescriptorIndex, widgetEntities).
		Filter(func(_ *widgetBoard, w *widget) bool { return w.Broken }).
		Penalize(func(*widget) Score { return NewHardSoftScore(1, 0) }, func() Score { return HardSoftScoreZero() }).
		AsConstraint("brokenWidget", true)

	fmt.Println(constraint.Initialize(board))
	// Output: -2hard/0soft
}

// ExampleJoinSelf builds the arity-2 "no two queens share a column" kernel
// through the Stream DSL's JoinSelf, against the same 4-queens fixture used
// elsewhere in this package (columns [0, 1, 0, 2]: queens 0 and 2 share
// column 0, the only colliding pair).
func ExampleJoinSelf() {
	solution := newQueensSolution(4)
	solution.assignAll([]int{0, 1, 0, 2})
	descriptor := queensEntityDescriptor(4)

	constraint := JoinSelf(
		NewUniStream[queensSolution, queen](descriptor.DescriptorIndex, descriptor.Entities),
		func(q *queen) int { return q.Column },
	).Penalize(
		func(*queen, *queen) Score { return NewHardSoftScore(1, 0) },
		func() Score { return HardSoftScoreZero() },
	).AsConstraint("sameColumn", true)

	fmt.Println(constraint.Initialize(solution))
	// Output: -1hard/0soft
}
