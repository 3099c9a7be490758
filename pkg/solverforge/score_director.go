package solverforge

import "github.com/pkg/errors"

// ErrScoreDrift is the fatal error raised when a director's cached score
// disagrees with a from-scratch recomputation (spec.md §4.F's contract,
// §7's "scoring drift" failure class). It indicates a kernel bug, not a
// recoverable condition — see DESIGN.md for why this path carries a
// pkg/errors stack trace instead of a plain sentinel.
var ErrScoreDrift = errors.New("solverforge: cached score diverged from a from-scratch recomputation")

// Director is the capability set a Move mutates the solution through:
// direct solution access plus the before/after-change notification
// protocol that keeps a score in sync (spec.md §3, §4.F). ScoreDirector
// and RecordingScoreDirector both implement it, so moves are written once
// against the interface and work identically whether they are being
// evaluated speculatively or committed for real.
type Director[S any] interface {
	WorkingSolution() *S
	BeforeVariableChanged(descriptorIndex, entityIndex int, variableName string)
	AfterVariableChanged(descriptorIndex, entityIndex int, variableName string)
	RegisterUndo(undo func())
}

// ScoreDirector owns the working solution, the constraint set, and the
// cached score — "the sole mediator of variable changes" (spec.md §3).
// It is created once per solve and outlives every phase.
type ScoreDirector[S any] struct {
	solution    *S
	constraints *ConstraintSet[S]
	zero        ScoreFactory
	cachedScore Score
	initialized bool
}

// NewScoreDirector wraps solution with constraints. solution must outlive
// the director; the director never clones it.
func NewScoreDirector[S any](solution *S, constraints *ConstraintSet[S], zero ScoreFactory) *ScoreDirector[S] {
	return &ScoreDirector[S]{solution: solution, constraints: constraints, zero: zero, cachedScore: zero()}
}

// WorkingSolution returns the solution this director mediates changes to.
func (d *ScoreDirector[S]) WorkingSolution() *S { return d.solution }

// CalculateScore lazily initializes every kernel on first call, then
// returns the cached score, writing it into the solution's score slot if
// S implements PlanningSolution[S].
func (d *ScoreDirector[S]) CalculateScore() Score {
	if !d.initialized {
		d.cachedScore = d.constraints.InitializeAll(d.solution)
		d.initialized = true
	}
	if settable, ok := any(d.solution).(interface{ SetScore(Score, bool) }); ok {
		settable.SetScore(d.cachedScore, true)
	}
	return d.cachedScore
}

// CachedScore returns the last computed score without recalculating,
// including mid-construction (before the first CalculateScore call, this
// is the zero score).
func (d *ScoreDirector[S]) CachedScore() Score { return d.cachedScore }

// Constraints exposes the kernel tuple this director scores against, so a
// caller can build an independent from-scratch evaluation (e.g. parallel
// move scoring against a cloned solution) without threading a second copy
// of the constraint set through separately.
func (d *ScoreDirector[S]) Constraints() *ConstraintSet[S] { return d.constraints }

// Zero exposes the score factory this director was built with.
func (d *ScoreDirector[S]) Zero() ScoreFactory { return d.zero }

// BeforeVariableChanged must be called immediately before a move mutates
// entityIndex's variable under descriptorIndex, while the entity still
// holds its pre-change value; it retracts the entity's current matches
// from every kernel.
func (d *ScoreDirector[S]) BeforeVariableChanged(descriptorIndex, entityIndex int, variableName string) {
	if !d.initialized {
		return
	}
	d.cachedScore = d.cachedScore.Add(d.constraints.OnRetractAll(d.solution, entityIndex, descriptorIndex))
}

// AfterVariableChanged must be called immediately after the mutation, once
// the entity holds its new value; it inserts the entity's new matches
// into every kernel.
func (d *ScoreDirector[S]) AfterVariableChanged(descriptorIndex, entityIndex int, variableName string) {
	if !d.initialized {
		return
	}
	d.cachedScore = d.cachedScore.Add(d.constraints.OnInsertAll(d.solution, entityIndex, descriptorIndex))
}

// RegisterUndo is a no-op on the base director: a move executed directly
// against ScoreDirector is being committed for good, and "moves ... are
// dropped (undo closures carry what they need)" per spec.md §3's Move
// lifecycle — nothing downstream ever calls it back. Speculative
// evaluation goes through RecordingScoreDirector instead, which actually
// retains the closure.
func (d *ScoreDirector[S]) RegisterUndo(undo func()) {}

// Reset clears every kernel's indices and forgets the cached score,
// forcing the next CalculateScore to rebuild from scratch.
func (d *ScoreDirector[S]) Reset() {
	d.constraints.ResetAll()
	d.initialized = false
	d.cachedScore = d.zero()
}

// AssertNoDrift recomputes the score from scratch and compares it against
// the cached value, returning ErrScoreDrift (with a stack trace attached)
// if they disagree. Intended for the test suite's drift check (spec.md
// §8), not for steady-state solving — EvaluateAll is O(n^k), not O(Δ).
func (d *ScoreDirector[S]) AssertNoDrift() error {
	fresh := d.constraints.EvaluateAll(d.solution)
	if fresh.Compare(d.cachedScore) != 0 {
		return errors.WithStack(ErrScoreDrift)
	}
	return nil
}

// RecordingScoreDirector wraps a ScoreDirector to evaluate one move
// speculatively: every variable change is forwarded to the inner director
// (so the real cached score and the real solution move together), while
// every registered undo closure is retained on this director's own stack
// instead of being discarded. ScoreDelta reports the net effect so far;
// Undo replays the stack in reverse to restore both the solution and the
// cached score exactly (the before/after protocol is self-reversing by
// construction, so no separate score snapshot is required); Commit
// discards the stack, keeping the change (spec.md §4.F).
type RecordingScoreDirector[S any] struct {
	inner     *ScoreDirector[S]
	baseline  Score
	undoStack []func()
}

// NewRecordingScoreDirector begins a new speculative recording against
// inner's current state.
func NewRecordingScoreDirector[S any](inner *ScoreDirector[S]) *RecordingScoreDirector[S] {
	r := &RecordingScoreDirector[S]{inner: inner}
	r.Reset()
	return r
}

// Reset discards any pending recording and re-snapshots the baseline
// score, for reuse across many speculative moves without reallocating.
func (r *RecordingScoreDirector[S]) Reset() {
	r.baseline = r.inner.CalculateScore()
	r.undoStack = r.undoStack[:0]
}

func (r *RecordingScoreDirector[S]) WorkingSolution() *S { return r.inner.WorkingSolution() }

func (r *RecordingScoreDirector[S]) BeforeVariableChanged(descriptorIndex, entityIndex int, variableName string) {
	r.inner.BeforeVariableChanged(descriptorIndex, entityIndex, variableName)
}

func (r *RecordingScoreDirector[S]) AfterVariableChanged(descriptorIndex, entityIndex int, variableName string) {
	r.inner.AfterVariableChanged(descriptorIndex, entityIndex, variableName)
}

// RegisterUndo appends undo to this director's stack; Undo replays such
// closures in reverse order.
func (r *RecordingScoreDirector[S]) RegisterUndo(undo func()) {
	r.undoStack = append(r.undoStack, undo)
}

// ScoreDelta returns the net score change accumulated since the last
// Reset, i.e. since recording began.
func (r *RecordingScoreDirector[S]) ScoreDelta() Score {
	return r.inner.CachedScore().Add(r.baseline.Negate())
}

// Undo replays every registered undo closure in reverse, restoring the
// working solution and (because the protocol is self-reversing) the
// cached score to exactly their pre-recording state.
func (r *RecordingScoreDirector[S]) Undo() {
	for i := len(r.undoStack) - 1; i >= 0; i-- {
		r.undoStack[i]()
	}
	r.undoStack = r.undoStack[:0]
}

// Commit keeps the already-applied mutation and drops the undo stack
// without replaying it.
func (r *RecordingScoreDirector[S]) Commit() {
	r.undoStack = r.undoStack[:0]
}
