package solverforge

// ImpactType says whether a constraint's matches subtract from (Penalty) or
// add to (Reward) the score (spec.md §3).
type ImpactType int

const (
	Penalty ImpactType = iota
	Reward
)

// apply folds a weight score into this impact's sign.
func (t ImpactType) apply(weight Score) Score {
	if t == Reward {
		return weight
	}
	return weight.Negate()
}

// Constraint is the fan-out surface the constraint set (constraint_set.go)
// drives: every concrete kernel type (UniConstraint, BiConstraint, ...,
// GroupingConstraint, BalanceConstraint, ComplementedGroupConstraint,
// IfExistsConstraint) implements it. Each kernel is a concrete generic
// struct; Constraint is only used to hold them, uniformly, inside a
// ConstraintSet — the one dynamic-dispatch boundary spec.md §9 calls out
// as acceptable ("dispatch dynamically only at the solver-builder
// boundary"). Every method below is a thin wrapper around the kernel's own
// monomorphized insert/retract algorithm; no type assertion or reflection
// happens per-call.
type Constraint[S any] interface {
	// Name identifies this constraint for statistics and error reporting.
	Name() string

	// IsHard reports whether this constraint's contribution lands in a
	// hard score level.
	IsHard() bool

	// Initialize clears this kernel's indices and rebuilds match_set from
	// scratch against solution, returning the kernel's total score
	// contribution (spec.md §4.C "initialize").
	Initialize(solution *S) Score

	// Evaluate recomputes the kernel's contribution from scratch without
	// touching any index (spec.md §4.C "evaluate" — used by tests and
	// drift checks). It must equal Initialize's return value for the same
	// solution and never mutate the kernel.
	Evaluate(solution *S) Score

	// OnInsert reacts to entity `index` within descriptor `descriptorIndex`
	// having just been (re-)inserted into the solution (i.e. its variable
	// was just set). Returns the resulting score delta. Out-of-bounds
	// indices and descriptor indices this kernel does not react to both
	// return a zero score in O(1) (spec.md §4.C "Failure semantics").
	OnInsert(solution *S, entityIndex, descriptorIndex int) Score

	// OnRetract reacts to entity `index` being about to leave the solution
	// (i.e. its variable is about to change), returning the score delta of
	// removing its current matches.
	OnRetract(solution *S, entityIndex, descriptorIndex int) Score

	// Reset clears all indices, leaving weight/filter/impact untouched.
	Reset()
}

// ScoreFactory is supplied by constraint-set construction so that kernels
// can produce a properly-shaped zero score without needing to know the
// concrete Score type themselves — kernels accumulate deltas by calling
// Score.Add, starting from this zero, and never construct a Score value
// directly.
type ScoreFactory func() Score
