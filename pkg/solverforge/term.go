package solverforge

import "time"

// TerminationContext is the read-only view of solving progress a
// Termination predicate samples between steps (spec.md §4.K). All fields
// are snapshots taken once per check, never read mid-step — the composite
// predicate is sampled "between steps, never mid-step" by construction
// since only SolverScope calls ShouldTerminate.
type TerminationContext struct {
	Elapsed               time.Duration
	StepCount             int64
	StepsSinceImprovement int64
	TimeSinceImprovement  time.Duration
	Best                  Score
	HasBest               bool
}

// Termination decides from a TerminationContext whether solving stops.
// TimeLimit, StepCountLimit and TargetScoreLimit compare a quantity that
// never decreases (elapsed time, step count, best score) against a fixed
// limit, so once they fire they keep firing. The two Unimproved limits
// measure from the last improvement and drop back below their limit when
// the best score improves; SolverScope.ShouldTerminate latches its first
// true, so a solve's termination stays monotone (spec.md §4.K).
type Termination interface {
	ShouldTerminate(ctx TerminationContext) bool
}

// TimeLimit fires once ctx.Elapsed reaches the limit.
type TimeLimit struct{ Limit time.Duration }

func (t TimeLimit) ShouldTerminate(ctx TerminationContext) bool { return ctx.Elapsed >= t.Limit }

// StepCountLimit fires once ctx.StepCount reaches the limit.
type StepCountLimit struct{ Limit int64 }

func (t StepCountLimit) ShouldTerminate(ctx TerminationContext) bool { return ctx.StepCount >= t.Limit }

// UnimprovedStepCountLimit fires once the step count has gone Limit steps
// without a score improvement.
type UnimprovedStepCountLimit struct{ Limit int64 }

func (t UnimprovedStepCountLimit) ShouldTerminate(ctx TerminationContext) bool {
	return ctx.StepsSinceImprovement >= t.Limit
}

// UnimprovedTimeLimit fires once Limit has elapsed since the last score
// improvement.
type UnimprovedTimeLimit struct{ Limit time.Duration }

func (t UnimprovedTimeLimit) ShouldTerminate(ctx TerminationContext) bool {
	return ctx.TimeSinceImprovement >= t.Limit
}

// TargetScoreLimit fires once the best score reaches or exceeds Target.
type TargetScoreLimit struct{ Target Score }

func (t TargetScoreLimit) ShouldTerminate(ctx TerminationContext) bool {
	return ctx.HasBest && ctx.Best.Compare(t.Target) >= 0
}

// CompositeTermination fires as soon as any child fires — the "composable
// predicates with short-circuit semantics" spec.md §4.K describes. An empty
// composite never terminates (the caller relies on external cancellation,
// matching spec.md §6's "missing config ... no termination" default).
type CompositeTermination struct {
	Children []Termination
}

func NewCompositeTermination(children ...Termination) *CompositeTermination {
	return &CompositeTermination{Children: children}
}

func (c *CompositeTermination) ShouldTerminate(ctx TerminationContext) bool {
	for _, child := range c.Children {
		if child.ShouldTerminate(ctx) {
			return true
		}
	}
	return false
}
