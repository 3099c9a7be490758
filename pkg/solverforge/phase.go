package solverforge

import (
	"context"
	"sort"
	"sync"

	"github.com/solverforge/solverforge/internal/parallel"
)

// Phase is one stage of a solve — construction or local search — driven
// directly against a SolverScope (spec.md §4.J). Name identifies the phase
// kind for statistics and logging only; it is never inspected by the
// engine.
type Phase[S PlanningSolution[S]] interface {
	Solve(solverScope *SolverScope[S])
	Name() string
}

// ConstructionPhase greedily assigns every unassigned entity of one
// single-value planning variable, using a ConstructionForager to choose
// among the candidate values generated for each entity in turn. Grounded on
// forager.rs's calling convention (build a Placement, ask the forager which
// index to keep) and generalized from list_construction.rs's index-order
// placement loop, which performs the same "for each unassigned subject,
// pick a value, commit" shape for list variables.
type ConstructionPhase[S PlanningSolution[S], A, V any] struct {
	Descriptor *EntityDescriptor[S, A, V]
	Values     TypedValueSelector[S, V]
	Forager    ConstructionForager[S]
}

func (p *ConstructionPhase[S, A, V]) Name() string { return "Construction" }

func (p *ConstructionPhase[S, A, V]) Solve(solverScope *SolverScope[S]) {
	phase := NewPhaseScope(solverScope, p.Name())
	director := phase.ScoreDirector()
	count := p.Descriptor.EntityCount(director.WorkingSolution())

	for entityIndex := 0; entityIndex < count; entityIndex++ {
		if solverScope.ShouldTerminate() {
			break
		}
		if _, ok := p.Descriptor.Get(director.WorkingSolution(), entityIndex); ok {
			continue
		}

		var moves []Move[S]
		p.Values.Iterate(director)(func(value V) bool {
			moves = append(moves, NewChangeMove(p.Descriptor, entityIndex, value, true))
			return true
		})
		if len(moves) == 0 {
			continue
		}
		placement := NewPlacement[S](EntityReference{DescriptorIndex: p.Descriptor.DescriptorIndex, EntityIndex: entityIndex}, moves)

		idx, ok := p.Forager.PickMoveIndex(placement, director)
		if !ok {
			continue
		}

		step := NewStepScope(phase)
		placement.Moves[idx].Do(step.Recording())
		phase.RecordMove(true)
		step.Complete()
	}

	phase.Complete()
}

// ListConstructionState bundles the accessor functions a list-construction
// phase needs to evaluate and apply element insertions (spec.md §4.H;
// grounded on list_construction.rs's ScoredConstructionState). E is the
// element type being placed into entities' list-typed planning variable —
// it must be comparable so an assigned/unassigned set can be built from it,
// matching the source's E: Eq + Hash bound.
type ListConstructionState[S any, E comparable] struct {
	ElementCount    func(*S) int
	GetAssigned     func(*S) []E
	EntityCount     func(*S) int
	ListLen         func(*S, int) int
	ListInsert      func(*S, int, int, E)
	ListRemove      func(*S, int, int) E
	IndexToElement  func(int) E
	VariableName    string
	DescriptorIndex int
}

func (st ListConstructionState[S, E]) unassigned(solution *S) []E {
	n := st.ElementCount(solution)
	assignedSet := make(map[E]struct{}, n)
	for _, e := range st.GetAssigned(solution) {
		assignedSet[e] = struct{}{}
	}
	out := make([]E, 0, n)
	for i := 0; i < n; i++ {
		elem := st.IndexToElement(i)
		if _, ok := assignedSet[elem]; !ok {
			out = append(out, elem)
		}
	}
	return out
}

// evalInsertion speculatively inserts element at (entityIdx, pos), scores
// the result through director, then undoes it — the "before_changed →
// insert → score → remove → after_changed (undo)" sequence
// list_construction.rs performs, reusing the same RecordingScoreDirector
// calling convention forager_construction.go's BestFitForager uses: the
// score is read from director itself, since Before/AfterVariableChanged
// forwards straight through to director's own cached score.
func (st ListConstructionState[S, E]) evalInsertion(element E, entityIdx, pos int, director *ScoreDirector[S]) Score {
	recording := NewRecordingScoreDirector(director)
	recording.BeforeVariableChanged(st.DescriptorIndex, entityIdx, st.VariableName)
	st.ListInsert(recording.WorkingSolution(), entityIdx, pos, element)
	recording.AfterVariableChanged(st.DescriptorIndex, entityIdx, st.VariableName)
	recording.RegisterUndo(func() {
		director.BeforeVariableChanged(st.DescriptorIndex, entityIdx, st.VariableName)
		st.ListRemove(director.WorkingSolution(), entityIdx, pos)
		director.AfterVariableChanged(st.DescriptorIndex, entityIdx, st.VariableName)
	})
	score := director.CalculateScore()
	recording.Undo()
	return score
}

// bestInsertion finds the (entityIdx, pos) with the highest resulting score
// among every insertion point across nEntities entities.
func (st ListConstructionState[S, E]) bestInsertion(element E, nEntities int, director *ScoreDirector[S]) (entityIdx, pos int, score Score, ok bool) {
	best := -1
	bestPos := 0
	var bestScore Score
	solution := director.WorkingSolution()
	for e := 0; e < nEntities; e++ {
		length := st.ListLen(solution, e)
		for p := 0; p <= length; p++ {
			candidate := st.evalInsertion(element, e, p, director)
			if best == -1 || candidate.Compare(bestScore) > 0 {
				best, bestPos, bestScore = e, p, candidate
			}
		}
	}
	if best == -1 {
		return 0, 0, nil, false
	}
	return best, bestPos, bestScore, true
}

// applyInsertion permanently inserts element at (entityIdx, pos) through
// director — no recording, no undo.
func (st ListConstructionState[S, E]) applyInsertion(element E, entityIdx, pos int, director Director[S]) {
	director.BeforeVariableChanged(st.DescriptorIndex, entityIdx, st.VariableName)
	st.ListInsert(director.WorkingSolution(), entityIdx, pos, element)
	director.AfterVariableChanged(st.DescriptorIndex, entityIdx, st.VariableName)
}

// ListConstructionPhase assigns every unassigned element to entities in
// round-robin order, with no score feedback — the cheapest possible list
// construction strategy, grounded on list_construction.rs's
// ListConstructionPhase.
type ListConstructionPhase[S PlanningSolution[S], E comparable] struct {
	ElementCount    func(*S) int
	GetAssigned     func(*S) []E
	EntityCount     func(*S) int
	AssignElement   func(*S, int, E)
	IndexToElement  func(int) E
	VariableName    string
	DescriptorIndex int
}

func (p *ListConstructionPhase[S, E]) Name() string { return "ListConstruction" }

func (p *ListConstructionPhase[S, E]) Solve(solverScope *SolverScope[S]) {
	phase := NewPhaseScope(solverScope, p.Name())
	solution := phase.ScoreDirector().WorkingSolution()

	nElements := p.ElementCount(solution)
	nEntities := p.EntityCount(solution)
	if nEntities == 0 || nElements == 0 {
		phase.Complete()
		return
	}

	assignedSet := make(map[E]struct{})
	for _, e := range p.GetAssigned(solution) {
		assignedSet[e] = struct{}{}
	}

	entityIdx := 0
	for elemIdx := 0; elemIdx < nElements; elemIdx++ {
		if solverScope.ShouldTerminate() {
			break
		}
		element := p.IndexToElement(elemIdx)
		if _, ok := assignedSet[element]; ok {
			continue
		}

		step := NewStepScope(phase)
		recording := step.Recording()
		recording.BeforeVariableChanged(p.DescriptorIndex, entityIdx, p.VariableName)
		p.AssignElement(recording.WorkingSolution(), entityIdx, element)
		recording.AfterVariableChanged(p.DescriptorIndex, entityIdx, p.VariableName)
		step.Complete()

		entityIdx = (entityIdx + 1) % nEntities
	}

	phase.Complete()
}

// ListCheapestInsertionPhase assigns each unassigned element, in index
// order, to whichever (entity, position) yields the best resulting score —
// significantly better than round-robin when the scoring constraints
// reward good placement, per list_construction.rs's ListCheapestInsertionPhase
// doc comment.
type ListCheapestInsertionPhase[S PlanningSolution[S], E comparable] struct {
	State ListConstructionState[S, E]
}

func (p *ListCheapestInsertionPhase[S, E]) Name() string { return "ListCheapestInsertion" }

func (p *ListCheapestInsertionPhase[S, E]) Solve(solverScope *SolverScope[S]) {
	phase := NewPhaseScope(solverScope, p.Name())
	director := phase.ScoreDirector()
	solution := director.WorkingSolution()

	nEntities := p.State.EntityCount(solution)
	nElements := p.State.ElementCount(solution)
	if nEntities == 0 || nElements == 0 {
		phase.Complete()
		return
	}

	unassigned := p.State.unassigned(solution)
	for _, element := range unassigned {
		if solverScope.ShouldTerminate() {
			break
		}

		entityIdx, pos, _, ok := p.State.bestInsertion(element, nEntities, director)
		if !ok {
			continue
		}

		step := NewStepScope(phase)
		p.State.applyInsertion(element, entityIdx, pos, step.Recording())
		phase.RecordMove(true)
		step.Complete()
	}

	phase.Complete()
}

// ListRegretInsertionPhase prioritizes placing elements whose best
// insertion is uniquely better than their second-best one, using the same
// binary regret signal list_construction.rs's ListRegretInsertionPhase
// computes (1.0 for a unique best, 2.0 when there is only one candidate
// insertion at all, 0.0 on a tie) instead of a full numeric regret — the
// source's own simplification, preserved here rather than "improved" into
// something the pack never demonstrated.
type ListRegretInsertionPhase[S PlanningSolution[S], E comparable] struct {
	State ListConstructionState[S, E]
}

func (p *ListRegretInsertionPhase[S, E]) Name() string { return "ListRegretInsertion" }

type listInsertionCandidate struct {
	entityIdx int
	pos       int
	score     Score
}

func (p *ListRegretInsertionPhase[S, E]) evaluateRegret(element E, nEntities int, director *ScoreDirector[S]) (entityIdx, pos int, regret float64, ok bool) {
	var all []listInsertionCandidate
	solution := director.WorkingSolution()
	for e := 0; e < nEntities; e++ {
		length := p.State.ListLen(solution, e)
		for pos := 0; pos <= length; pos++ {
			all = append(all, listInsertionCandidate{e, pos, p.State.evalInsertion(element, e, pos, director)})
		}
	}
	if len(all) == 0 {
		return 0, 0, 0, false
	}

	sort.Slice(all, func(i, j int) bool { return all[i].score.Compare(all[j].score) > 0 })
	best := all[0]

	regretVal := 2.0
	if len(all) >= 2 {
		if best.score.Compare(all[1].score) > 0 {
			regretVal = 1.0
		} else {
			regretVal = 0.0
		}
	}
	return best.entityIdx, best.pos, regretVal, true
}

func (p *ListRegretInsertionPhase[S, E]) Solve(solverScope *SolverScope[S]) {
	phase := NewPhaseScope(solverScope, p.Name())
	director := phase.ScoreDirector()
	solution := director.WorkingSolution()

	nEntities := p.State.EntityCount(solution)
	nElements := p.State.ElementCount(solution)
	if nEntities == 0 || nElements == 0 {
		phase.Complete()
		return
	}

	unassigned := p.State.unassigned(solution)
	for len(unassigned) > 0 {
		if solverScope.ShouldTerminate() {
			break
		}

		bestListIdx := -1
		bestEntity, bestPos := 0, 0
		bestRegret := 0.0
		for listIdx, element := range unassigned {
			entityIdx, pos, regret, ok := p.evaluateRegret(element, nEntities, director)
			if !ok {
				continue
			}
			if bestListIdx == -1 || regret > bestRegret {
				bestListIdx, bestEntity, bestPos, bestRegret = listIdx, entityIdx, pos, regret
			}
		}
		if bestListIdx == -1 {
			break
		}

		element := unassigned[bestListIdx]
		unassigned[bestListIdx] = unassigned[len(unassigned)-1]
		unassigned = unassigned[:len(unassigned)-1]

		step := NewStepScope(phase)
		p.State.applyInsertion(element, bestEntity, bestPos, step.Recording())
		phase.RecordMove(true)
		step.Complete()
	}

	phase.Complete()
}

// LocalSearchPhase repeatedly selects a step's worth of candidate moves
// from Moves, evaluates each speculatively, asks Acceptor whether it is
// admissible and Forager whether to keep looking, then commits whichever
// move the forager ultimately picked. This is the acceptor/forager
// collaboration spec.md §4.I and §4.J describe; no single source file
// combines the two, so the loop shape is original, built directly from
// that contract and the same RecordingScoreDirector calling convention
// used throughout the forager and construction-phase code above.
// LocalSearchPhase's MoveThreads selects how a step's neighborhood is
// scored: sequentially against the shared director (0 or 1, the default),
// or fanned out across a bounded worker pool, each worker scoring its own
// move against an independent from-scratch clone (spec.md §5's "optional
// parallel move evaluation"). Fan-out trades the shared director's
// incremental bookkeeping for ConstraintSet.EvaluateAll, which is pure
// with respect to the constraint set (Evaluate never mutates kernel
// state, only reads it), so many goroutines may call it concurrently
// against their own clones without synchronization.
type LocalSearchPhase[S PlanningSolution[S]] struct {
	Moves       MoveSelector[S, Move[S]]
	Acceptor    Acceptor
	Forager     LocalSearchForager[S]
	MoveThreads int
}

func (p *LocalSearchPhase[S]) Name() string { return "LocalSearch" }

func (p *LocalSearchPhase[S]) Solve(solverScope *SolverScope[S]) {
	phase := NewPhaseScope(solverScope, p.Name())
	director := phase.ScoreDirector()

	for {
		if solverScope.ShouldTerminate() {
			break
		}

		startingScore := director.CalculateScore()
		p.Forager.Reset()

		if p.MoveThreads > 1 {
			p.considerParallel(phase, director, startingScore)
		} else {
			var stepNumber int64
			p.Moves.Iterate(director)(func(move Move[S]) bool {
				if !move.IsApplicable(director.WorkingSolution()) {
					return true
				}

				recording := NewRecordingScoreDirector(director)
				move.Do(recording)
				candidateScore := director.CalculateScore()
				accepted := p.Acceptor.Accept(startingScore, candidateScore, stepNumber)
				recording.Undo()
				stepNumber++

				phase.RecordMove(accepted)
				return !p.Forager.Consider(move, candidateScore, accepted)
			})
		}

		winner, _, ok := p.Forager.Pick()
		if !ok {
			break
		}

		step := NewStepScope(phase)
		winner.Do(step.Recording())
		step.Complete()
	}

	phase.Complete()
}

// cloneDirector wraps a standalone solution clone so a Move can be applied
// to it through the Director[S] interface without touching any kernel's
// incremental indices — the clone is scored afterward with
// ConstraintSet.EvaluateAll, a from-scratch recomputation that never
// consults those indices, so the before/after notifications below are
// no-ops rather than wiring to a ConstraintSet.
type cloneDirector[S any] struct {
	solution *S
}

func (c *cloneDirector[S]) WorkingSolution() *S { return c.solution }

func (c *cloneDirector[S]) BeforeVariableChanged(descriptorIndex, entityIndex int, variableName string) {
}

func (c *cloneDirector[S]) AfterVariableChanged(descriptorIndex, entityIndex int, variableName string) {
}

func (c *cloneDirector[S]) RegisterUndo(undo func()) {}

// considerParallel scores every applicable move in this step's
// neighborhood concurrently, each against its own clone of the working
// solution, then feeds the results into Forager.Consider in selector
// order (the forager's own early-stop decision stays sequential — fanning
// that out too would reorder which moves Consider ever sees). Returns the
// number of moves fed to the forager, for statistics.
func (p *LocalSearchPhase[S]) considerParallel(phase *PhaseScope[S], director *ScoreDirector[S], startingScore Score) int64 {
	var moves []Move[S]
	p.Moves.Iterate(director)(func(move Move[S]) bool {
		if move.IsApplicable(director.WorkingSolution()) {
			moves = append(moves, move)
		}
		return true
	})
	if len(moves) == 0 {
		return 0
	}

	scores := make([]Score, len(moves))
	pool := parallel.NewStaticWorkerPool(p.MoveThreads)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	ctx := context.Background()
	base := director.WorkingSolution()
	constraints := director.Constraints()
	for i, move := range moves {
		i, move := i, move
		wg.Add(1)
		if err := pool.Submit(ctx, func() {
			defer wg.Done()
			clone := (*base).Clone()
			move.Do(&cloneDirector[S]{solution: &clone})
			scores[i] = constraints.EvaluateAll(&clone)
		}); err != nil {
			wg.Done()
			clone := (*base).Clone()
			move.Do(&cloneDirector[S]{solution: &clone})
			scores[i] = constraints.EvaluateAll(&clone)
		}
	}
	wg.Wait()

	var stepNumber int64
	for i, move := range moves {
		accepted := p.Acceptor.Accept(startingScore, scores[i], stepNumber)
		stepNumber++
		phase.RecordMove(accepted)
		if p.Forager.Consider(move, scores[i], accepted) {
			break
		}
	}
	return stepNumber
}
