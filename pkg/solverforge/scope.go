package solverforge

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SolverScope owns the score director, the best-solution slot, the
// termination predicate and the statistics collector for one solve call —
// the outermost of the three nested lifetimes spec.md §4.M describes. It
// outlives every phase. Logger is a structured logging entry threaded down
// into every PhaseScope/StepScope built from it, per the teacher's use of
// logrus for reconciliation-style loops: Debug for per-step detail, Info
// for phase boundaries and best-score improvements.
type SolverScope[S PlanningSolution[S]] struct {
	Director    *ScoreDirector[S]
	Termination Termination
	Stats       *StatisticsCollector
	Logger      *logrus.Entry
	startTime   time.Time

	best              *S
	bestScore         Score
	hasBest           bool
	stepCount         int64
	lastImprovingStep int64
	lastImprovingTime time.Duration
	terminated        bool
}

// NewSolverScope begins a solve against director, using termination to
// decide when to stop and stats to record progress. A nil logger falls
// back to a silent entry wrapping logrus's standard logger.
func NewSolverScope[S PlanningSolution[S]](director *ScoreDirector[S], termination Termination, stats *StatisticsCollector, logger *logrus.Entry) *SolverScope[S] {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &SolverScope[S]{Director: director, Termination: termination, Stats: stats, Logger: logger, startTime: time.Now()}
}

// ShouldTerminate samples the termination predicate against the scope's
// current progress. Called between steps only, per spec.md §4.K. Once it
// has returned true it keeps returning true.
func (s *SolverScope[S]) ShouldTerminate() bool {
	if s.terminated {
		return true
	}
	if s.Termination == nil {
		return false
	}
	ctx := TerminationContext{
		Elapsed:               time.Since(s.startTime),
		StepCount:             s.stepCount,
		StepsSinceImprovement: s.stepCount - s.lastImprovingStep,
		TimeSinceImprovement:  time.Since(s.startTime) - s.lastImprovingTime,
		Best:                  s.bestScore,
		HasBest:               s.hasBest,
	}
	s.terminated = s.Termination.ShouldTerminate(ctx)
	return s.terminated
}

// RecordStep increments the scope's step counter; called once per
// committed step regardless of phase kind (spec.md §4.J).
func (s *SolverScope[S]) RecordStep() {
	s.stepCount++
	if s.Stats != nil {
		s.Stats.RecordStep()
	}
}

// UpdateBestSolution compares the director's current cached score against
// the recorded best, cloning the working solution into the best-solution
// slot when it strictly improves (spec.md §4.J's "if it improves the
// global best, update best-so-far").
func (s *SolverScope[S]) UpdateBestSolution() {
	score := s.Director.CalculateScore()
	if s.hasBest && score.Compare(s.bestScore) <= 0 {
		return
	}
	clone := (*s.Director.WorkingSolution()).Clone()
	s.best = &clone
	s.bestScore = score
	s.hasBest = true
	s.lastImprovingStep = s.stepCount
	s.lastImprovingTime = time.Since(s.startTime)
	if s.Stats != nil {
		s.Stats.RecordImprovement(score)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"step": s.stepCount, "score": score.String()}).Info("new best score")
	}
}

// BestSolution returns the best solution found so far, and its score.
func (s *SolverScope[S]) BestSolution() (*S, Score, bool) {
	return s.best, s.bestScore, s.hasBest
}

// PhaseScope borrows from a SolverScope and owns per-phase counters (spec.md
// §4.M). Construct one per phase via NewPhaseScope; call Complete when the
// phase finishes to fold its numbers into the solver's statistics.
type PhaseScope[S PlanningSolution[S]] struct {
	Solver         *SolverScope[S]
	PhaseIndex     int
	PhaseType      string
	startTime      time.Time
	stepCount      uint64
	movesEvaluated uint64
	movesAccepted  uint64
	startingScore  Score
}

// NewPhaseScope begins a phase of the given type, recording its starting
// score and opening a statistics entry.
func NewPhaseScope[S PlanningSolution[S]](solver *SolverScope[S], phaseType string) *PhaseScope[S] {
	index := 0
	if solver.Stats != nil {
		index = solver.Stats.StartPhase(phaseType)
	}
	if solver.Logger != nil {
		solver.Logger.WithFields(logrus.Fields{"phase": phaseType, "index": index}).Info("phase starting")
	}
	return &PhaseScope[S]{
		Solver:        solver,
		PhaseIndex:    index,
		PhaseType:     phaseType,
		startTime:     time.Now(),
		startingScore: solver.Director.CalculateScore(),
	}
}

func (p *PhaseScope[S]) ScoreDirector() *ScoreDirector[S] { return p.Solver.Director }

// RecordMove feeds one move evaluation into the phase's running counters,
// whether or not it was ultimately accepted.
func (p *PhaseScope[S]) RecordMove(accepted bool) {
	p.movesEvaluated++
	if accepted {
		p.movesAccepted++
	}
	if p.Solver.Stats != nil {
		p.Solver.Stats.RecordMove(accepted)
	}
}

// RecordStep marks one committed step, bumping both the phase-local and
// solver-global step counters.
func (p *PhaseScope[S]) RecordStep() {
	p.stepCount++
	p.Solver.RecordStep()
}

// Complete closes out the phase's statistics entry and updates the solver's
// best solution, per spec.md §4.J's "at phase end, the working solution is
// copied into best_solution if it strictly improves it."
func (p *PhaseScope[S]) Complete() {
	p.Solver.UpdateBestSolution()
	endingScore := p.Solver.Director.CalculateScore()
	if p.Solver.Stats != nil {
		p.Solver.Stats.EndPhase(p.PhaseIndex, time.Since(p.startTime), p.stepCount, p.movesEvaluated, p.movesAccepted, p.startingScore, endingScore)
	}
	if p.Solver.Logger != nil {
		p.Solver.Logger.WithFields(logrus.Fields{
			"phase": p.PhaseType, "index": p.PhaseIndex, "steps": p.stepCount, "score": endingScore.String(),
		}).Info("phase complete")
	}
}

// StepScope is the commit boundary within a phase (spec.md §4.M). Every
// step that mutates the solution speculatively does so through a
// RecordingScoreDirector obtained from Recording; Complete keeps the
// mutation, Abandon rolls it back. Go has no destructors, so — unlike the
// source's drop-based rollback — a caller that lets a StepScope go out of
// scope without calling either leaves the recording sub-director's stack
// un-replayed; callers must call exactly one of Complete/Abandon on every
// path, including early returns.
type StepScope[S PlanningSolution[S]] struct {
	Phase     *PhaseScope[S]
	recording *RecordingScoreDirector[S]
}

// NewStepScope opens a step, wrapping the phase's director in a fresh
// RecordingScoreDirector so the step's mutation can be undone if Abandon is
// called instead of Complete.
func NewStepScope[S PlanningSolution[S]](phase *PhaseScope[S]) *StepScope[S] {
	return &StepScope[S]{Phase: phase, recording: NewRecordingScoreDirector(phase.ScoreDirector())}
}

// Recording returns the director moves in this step must be executed
// through.
func (s *StepScope[S]) Recording() *RecordingScoreDirector[S] { return s.recording }

// Complete keeps whatever mutation has been applied through Recording this
// step, records the step, and clears the recording stack.
func (s *StepScope[S]) Complete() {
	s.recording.Commit()
	s.Phase.RecordStep()
	if logger := s.Phase.Solver.Logger; logger != nil {
		logger.WithFields(logrus.Fields{"phase": s.Phase.PhaseType, "step": s.Phase.stepCount}).Debug("step committed")
	}
}

// Abandon rolls back whatever mutation has been applied through Recording
// this step, leaving the working solution and cached score exactly as they
// were when the StepScope was opened. Use this when a step's forager finds
// nothing to commit.
func (s *StepScope[S]) Abandon() {
	s.recording.Undo()
}
