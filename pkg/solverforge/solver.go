package solverforge

import (
	"github.com/sirupsen/logrus"
)

// Solver ties a score director, an ordered list of phases, a termination
// predicate and a statistics collector together into the single "construct
// solver from (solution, constraints, config); solve() returning the best
// solution and a statistics snapshot" operation spec.md §6 names. It is
// built with NewSolver plus functional Options, mirroring the teacher's own
// OptimizeOption pattern (pkg/minikanren/optimize.go) rather than a fully
// populated constructor — termination and logging are the two settings
// callers commonly override per solve.
type Solver[S PlanningSolution[S]] struct {
	director    *ScoreDirector[S]
	phases      []Phase[S]
	termination Termination
	stats       *StatisticsCollector
	logger      *logrus.Entry
}

// Option configures a Solver at construction time.
type Option[S PlanningSolution[S]] func(*solverConfig[S])

type solverConfig[S PlanningSolution[S]] struct {
	phases      []Phase[S]
	termination Termination
	logger      *logrus.Entry
}

// WithPhases sets the ordered phase list a solve runs through, left to
// right, per spec.md §6's "phases: [...] # ordered, run left-to-right".
func WithPhases[S PlanningSolution[S]](phases ...Phase[S]) Option[S] {
	return func(c *solverConfig[S]) { c.phases = phases }
}

// WithTermination sets the top-level termination predicate. Individual
// phases may still carry their own tighter termination internally (not
// modeled here — every built-in Phase above runs to natural completion,
// consulting only the shared SolverScope.ShouldTerminate).
func WithTermination[S PlanningSolution[S]](termination Termination) Option[S] {
	return func(c *solverConfig[S]) { c.termination = termination }
}

// WithLogger overrides the logrus entry threaded through solving.
func WithLogger[S PlanningSolution[S]](logger *logrus.Entry) Option[S] {
	return func(c *solverConfig[S]) { c.logger = logger }
}

// NewSolver builds a Solver over director, applying opts in order. With no
// WithPhases option, the solver has no phases and Solve is a no-op that
// only computes the initial score — callers building from a decoded Config
// should translate its Phases themselves (entity/value types are not known
// generically to Config).
func NewSolver[S PlanningSolution[S]](director *ScoreDirector[S], opts ...Option[S]) *Solver[S] {
	cfg := &solverConfig[S]{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	return &Solver[S]{
		director:    director,
		phases:      cfg.phases,
		termination: cfg.termination,
		stats:       NewStatisticsCollector(),
		logger:      cfg.logger,
	}
}

// Statistics returns the solver's live statistics collector, safe to read
// (via Snapshot) concurrently with an in-progress Solve.
func (s *Solver[S]) Statistics() *StatisticsCollector { return s.stats }

// Solve runs every configured phase in order against the working solution,
// returning the best solution found and a statistics snapshot. A solve with
// no termination relies entirely on its phases reaching natural completion
// (construction phases exhaust their unassigned entities; local search
// phases stop only when their forager finds no acceptable move), matching
// spec.md §6's "no termination: relies on caller cancellation" default —
// callers that want a hard stop must supply WithTermination.
func (s *Solver[S]) Solve() (S, SolverStatistics) {
	solverScope := NewSolverScope(s.director, s.termination, s.stats, s.logger)
	solverScope.UpdateBestSolution()

	for _, phase := range s.phases {
		phase.Solve(solverScope)
		if solverScope.ShouldTerminate() {
			break
		}
	}

	best, _, ok := solverScope.BestSolution()
	if !ok {
		return *s.director.WorkingSolution(), s.stats.Snapshot()
	}
	return *best, s.stats.Snapshot()
}
