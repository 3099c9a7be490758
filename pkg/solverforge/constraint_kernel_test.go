package solverforge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// numItem/numBoard is a minimal fixture shared by the arity-2/3 self-join
// scenarios below: a flat slice of integers, one planning variable
// ("value") per item, no grouping key beyond a single shared bucket.
type numItem struct {
	Value    int
	Assigned bool
}

type numBoard struct {
	Items []numItem
}

func numEntities(b *numBoard) []numItem { return b.Items }

const numDescriptorIndex = 0

func numDescriptor() EntityDescriptor[numBoard, numItem, int] {
	return EntityDescriptor[numBoard, numItem, int]{
		DescriptorIndex: numDescriptorIndex,
		VariableName:    "value",
		Entities:        numEntities,
		Get: func(b *numBoard, i int) (int, bool) {
			it := b.Items[i]
			return it.Value, it.Assigned
		},
		Set: func(b *numBoard, i, v int, ok bool) {
			b.Items[i].Value = v
			b.Items[i].Assigned = ok
		},
	}
}

func newNumBoard(values ...int) *numBoard {
	items := make([]numItem, len(values))
	for i, v := range values {
		items[i] = numItem{Value: v, Assigned: true}
	}
	return &numBoard{Items: items}
}

func constOneKey(*numItem) int { return 0 }

// ---- scenario 2: bi self-join insert/retract ----

func TestBiSelfJoinInsertRetractScenario(t *testing.T) {
	board := newNumBoard(0, 1, 2, 3)
	hardOne := func(*numItem, *numItem) Score { return NewHardSoftScore(1, 0) }

	kernel := NewBiConstraint[numBoard, numItem, int](
		"equalValues", Penalty, true, numDescriptorIndex, numEntities, constOneKey,
		func(_ *numBoard, a, b *numItem) bool { return a.Value == b.Value },
		hardOne, HardSoftScoreZero,
	)

	initial := kernel.Initialize(board)
	require.Equal(t, 0, initial.Compare(NewHardSoftScore(0, 0)), "initialize: got %s", initial)

	board.Items = append(board.Items, numItem{Value: 1, Assigned: true})
	fifthIndex := 4
	delta := kernel.OnInsert(board, fifthIndex, numDescriptorIndex)
	require.Equal(t, 0, delta.Compare(NewHardSoftScore(-1, 0)), "insert delta: got %s", delta)

	retractDelta := kernel.OnRetract(board, fifthIndex, numDescriptorIndex)
	board.Items = board.Items[:4]
	require.Equal(t, 0, retractDelta.Compare(NewHardSoftScore(1, 0)), "retract delta: got %s", retractDelta)

	require.True(t, kernel.Evaluate(board).IsZero())
}

// ---- scenario 3: tri self-join ----

func TestTriSelfJoinScenario(t *testing.T) {
	board := newNumBoard(1, 2, 3, 4)
	hardOne := func(*numItem, *numItem, *numItem) Score { return NewHardSoftScore(1, 0) }

	kernel := NewTriConstraint[numBoard, numItem, int](
		"sumOfTwo", Penalty, true, numDescriptorIndex, numEntities, constOneKey,
		func(_ *numBoard, a, b, c *numItem) bool { return a.Value+b.Value == c.Value },
		hardOne, HardSoftScoreZero,
	)

	initial := kernel.Initialize(board)
	require.Equal(t, 0, initial.Compare(NewHardSoftScore(-2, 0)), "initialize: got %s", initial)

	board.Items = append(board.Items, numItem{Value: 5, Assigned: true})
	delta := kernel.OnInsert(board, 4, numDescriptorIndex)
	require.Equal(t, 0, delta.Compare(NewHardSoftScore(-2, 0)), "insert 5 delta: got %s", delta)

	board.Items = append(board.Items, numItem{Value: 6, Assigned: true})
	delta = kernel.OnInsert(board, 5, numDescriptorIndex)
	require.Equal(t, 0, delta.Compare(NewHardSoftScore(-2, 0)), "insert 6 delta: got %s", delta)

	require.Equal(t, 0, kernel.Evaluate(board).Compare(kernel.Initialize(board)))
}

// ---- scenario 4: cross-bi with filter ----

type shift struct{ EmployeeID int }
type employee struct {
	ID        int
	Available bool
}

type shiftBoard struct {
	Shifts    []shift
	Employees []employee
}

const (
	shiftDescriptorIndex    = 0
	employeeDescriptorIndex = 1
)

func TestCrossBiWithFilterScenario(t *testing.T) {
	board := &shiftBoard{
		Shifts: []shift{{EmployeeID: 1}, {EmployeeID: 2}},
		Employees: []employee{
			{ID: 1, Available: true},
			{ID: 2, Available: false},
			{ID: 3, Available: true},
		},
	}

	kernel := NewCrossBiConstraint[shiftBoard, shift, employee, int](
		"unavailableShift", Penalty, true,
		shiftDescriptorIndex, employeeDescriptorIndex,
		func(b *shiftBoard) []shift { return b.Shifts },
		func(b *shiftBoard) []employee { return b.Employees },
		func(s *shift) int { return s.EmployeeID },
		func(e *employee) int { return e.ID },
		func(_ *shiftBoard, s *shift, e *employee) bool { return s.EmployeeID == e.ID && !e.Available },
		func(*shift, *employee) Score { return NewHardSoftScore(10, 0) },
		HardSoftScoreZero,
	)

	initial := kernel.Initialize(board)
	require.Equal(t, 0, initial.Compare(NewHardSoftScore(-10, 0)), "initialize: got %s", initial)

	board.Shifts = append(board.Shifts, shift{EmployeeID: 2})
	delta := kernel.OnInsert(board, 2, shiftDescriptorIndex)
	require.Equal(t, 0, delta.Compare(NewHardSoftScore(-10, 0)), "third shift delta: got %s", delta)

	board.Shifts = append(board.Shifts, shift{EmployeeID: 3})
	delta = kernel.OnInsert(board, 3, shiftDescriptorIndex)
	require.True(t, delta.IsZero(), "fourth shift delta: got %s", delta)

	require.Equal(t, 0, kernel.Evaluate(board).Compare(kernel.Initialize(board)))
}

// ---- scenario 5: balance ----

func TestBalanceScenario(t *testing.T) {
	board := &shiftBoard{
		Shifts: []shift{{EmployeeID: 0}, {EmployeeID: 0}, {EmployeeID: 0}, {EmployeeID: 1}},
	}
	kernel := NewBalanceConstraint[shiftBoard, shift, int](
		"shiftBalance", Penalty, false, shiftDescriptorIndex,
		func(b *shiftBoard) []shift { return b.Shifts },
		func(s *shift) int { return s.EmployeeID },
		NewHardSoftScore(0, 1000),
		HardSoftScoreZero,
	)

	got := kernel.Initialize(board)
	require.Equal(t, 0, got.Compare(NewHardSoftScore(0, -1000)), "got %s", got)
	require.InDelta(t, 1.0, kernel.StdDev(), 1e-9)
}

// ---- scenario 6: late acceptance rule ----

func TestLateAcceptanceScenario(t *testing.T) {
	acceptor := NewLateAcceptanceAcceptor(3, HardSoftScoreZero)
	seed := NewHardSoftScore(-5, 0)
	for i := range acceptor.buffer {
		acceptor.buffer[i] = seed
	}

	accepted := acceptor.Accept(seed, NewHardSoftScore(-6, 0), 3)
	require.False(t, accepted, "candidate -6 at step 3 must be rejected")

	accepted = acceptor.Accept(seed, NewHardSoftScore(-4, 0), 4)
	require.True(t, accepted, "candidate -4 at step 4 must be accepted")
	require.Equal(t, 0, acceptor.buffer[1].Compare(NewHardSoftScore(-4, 0)), "buffer[1] must hold the accepted candidate")
}

// ---- P1: drift consistency under a sequence of real mutations ----

func TestScoreDirectorNeverDriftsAcrossQueenMoves(t *testing.T) {
	n := 5
	descriptor := queensEntityDescriptor(n)
	constraints := queensConstraints(descriptor)
	solution := newQueensSolution(n)
	director := NewScoreDirector[queensSolution](solution, constraints, queensZero)
	director.CalculateScore()

	moves := []struct {
		row, column int
	}{
		{0, 1}, {1, 3}, {2, 0}, {3, 2}, {4, 4}, {0, 2}, {2, 2}, {4, 0},
	}
	for _, mv := range moves {
		move := NewChangeMove[queensSolution, queen, int](&descriptor, mv.row, mv.column, true)
		move.Do(director)
		require.NoError(t, director.AssertNoDrift(), "drift after assigning row %d -> column %d", mv.row, mv.column)
	}
}

// ---- P2: additivity of per-kernel contributions ----

func TestCachedScoreEqualsSumOfKernelEvaluations(t *testing.T) {
	n := 5
	descriptor := queensEntityDescriptor(n)
	constraints := queensConstraints(descriptor)
	solution := newQueensSolution(n)
	director := NewScoreDirector[queensSolution](solution, constraints, queensZero)
	director.CalculateScore()

	for i := 0; i < n; i++ {
		move := NewChangeMove[queensSolution, queen, int](&descriptor, i, i, true)
		move.Do(director)
	}

	sum := queensZero()
	for _, c := range constraints.Constraints() {
		sum = sum.Add(c.Evaluate(director.WorkingSolution()))
	}
	require.Equal(t, 0, director.CachedScore().Compare(sum), "cached=%s sum=%s", director.CachedScore(), sum)
}

// ---- P3: move round-trip reversibility ----

func TestRecordingScoreDirectorUndoIsExact(t *testing.T) {
	n := 4
	descriptor := queensEntityDescriptor(n)
	constraints := queensConstraints(descriptor)
	solution := newQueensSolution(n)
	director := NewScoreDirector[queensSolution](solution, constraints, queensZero)
	director.CalculateScore()

	solution.assignAll([]int{0, 1, 2, 3})
	director.Reset()
	director.CalculateScore()

	before := append([]queen(nil), solution.Queens...)
	beforeScore := director.CachedScore()

	recording := NewRecordingScoreDirector[queensSolution](director)
	move := NewChangeMove[queensSolution, queen, int](&descriptor, 0, 3, true)
	move.Do(recording)
	require.NotEqual(t, 0, recording.ScoreDelta().Compare(HardSoftScoreZero()), "move should have changed the score")

	recording.Undo()

	if diff := cmp.Diff(before, solution.Queens); diff != "" {
		t.Fatalf("undo did not restore solution (-before +after):\n%s", diff)
	}
	require.Equal(t, 0, beforeScore.Compare(director.CachedScore()), "undo did not restore cached score")
}

// ---- P5: join canonicality (ascending tuple indices) ----

func TestBiConstraintMatchesAreAscending(t *testing.T) {
	board := newNumBoard(0, 1, 0, 2, 0)
	kernel := NewBiConstraint[numBoard, numItem, int](
		"sameValue", Penalty, true, numDescriptorIndex, numEntities, constOneKey,
		func(_ *numBoard, a, b *numItem) bool { return a.Value == b.Value },
		func(*numItem, *numItem) Score { return NewHardSoftScore(1, 0) },
		HardSoftScoreZero,
	)
	kernel.Initialize(board)

	require.NotEmpty(t, kernel.matches)
	for tuple := range kernel.matches {
		require.Less(t, tuple.Lo, tuple.Hi, "tuple %+v is not ascending", tuple)
	}
}

func TestTriConstraintMatchesAreAscending(t *testing.T) {
	board := newNumBoard(1, 2, 3, 4, 5, 6)
	kernel := NewTriConstraint[numBoard, numItem, int](
		"sumOfTwo", Penalty, true, numDescriptorIndex, numEntities, constOneKey,
		func(_ *numBoard, a, b, c *numItem) bool { return a.Value+b.Value == c.Value },
		func(*numItem, *numItem, *numItem) Score { return NewHardSoftScore(1, 0) },
		HardSoftScoreZero,
	)
	kernel.Initialize(board)

	require.NotEmpty(t, kernel.matches)
	for tuple := range kernel.matches {
		require.Less(t, tuple[0], tuple[1])
		require.Less(t, tuple[1], tuple[2])
	}
}

// ---- P6: key-index consistency ----

func TestBiConstraintKeyIndexConsistency(t *testing.T) {
	board := newNumBoard(0, 1, 0, 2, 1)
	kernel := NewBiConstraint[numBoard, numItem, int](
		"sameValue", Penalty, true, numDescriptorIndex, numEntities,
		func(it *numItem) int { return it.Value },
		func(_ *numBoard, a, b *numItem) bool { return true },
		func(*numItem, *numItem) Score { return NewHardSoftScore(1, 0) },
		HardSoftScoreZero,
	)
	kernel.Initialize(board)

	for i, key := range kernel.indexToKey {
		bucket, ok := kernel.keyIndex[key]
		require.True(t, ok, "key %v for index %d has no bucket", key, i)
		_, inBucket := bucket[i]
		require.True(t, inBucket, "index %d not present in its own key bucket", i)
	}
	for tuple := range kernel.matches {
		require.Equal(t, kernel.indexToKey[tuple.Lo], kernel.indexToKey[tuple.Hi], "tuple %+v spans two different keys", tuple)
	}
}

// MatchCount is documented as the accessor tests use to assert index
// consistency (K6); exercise it directly against a hand-counted case.
func TestBiConstraintMatchCount(t *testing.T) {
	board := newNumBoard(0, 1, 0, 2, 0)
	kernel := NewBiConstraint[numBoard, numItem, int](
		"sameValue", Penalty, true, numDescriptorIndex, numEntities, constOneKey,
		func(_ *numBoard, a, b *numItem) bool { return a.Value == b.Value },
		func(*numItem, *numItem) Score { return NewHardSoftScore(1, 0) },
		HardSoftScoreZero,
	)
	kernel.Initialize(board)
	// values [0,1,0,2,0]: three zeros -> C(3,2) = 3 matching pairs.
	require.Equal(t, 3, kernel.MatchCount())
}

func TestCrossBiConstraintMatchCount(t *testing.T) {
	board := &shiftBoard{
		Shifts: []shift{{EmployeeID: 1}, {EmployeeID: 2}, {EmployeeID: 2}},
		Employees: []employee{
			{ID: 1, Available: true},
			{ID: 2, Available: false},
		},
	}
	kernel := NewCrossBiConstraint[shiftBoard, shift, employee, int](
		"unavailableShift", Penalty, true,
		shiftDescriptorIndex, employeeDescriptorIndex,
		func(b *shiftBoard) []shift { return b.Shifts },
		func(b *shiftBoard) []employee { return b.Employees },
		func(s *shift) int { return s.EmployeeID },
		func(e *employee) int { return e.ID },
		func(_ *shiftBoard, s *shift, e *employee) bool { return s.EmployeeID == e.ID && !e.Available },
		func(*shift, *employee) Score { return NewHardSoftScore(10, 0) },
		HardSoftScoreZero,
	)
	kernel.Initialize(board)
	require.Equal(t, 2, kernel.MatchCount())
}
