package solverforge

// LocalSearchForager decides which of a local-search step's acceptor-
// accepted candidates to actually commit (spec.md §4.I). Consider is fed
// one candidate at a time, in the move selector's iteration order, already
// paired with whether the acceptor accepted it; it returns true once the
// forager has seen enough and the step loop should stop pulling further
// candidates from the selector. Pick returns the step's winner, if any.
type LocalSearchForager[S any] interface {
	Consider(move Move[S], candidateScore Score, accepted bool) (stop bool)
	Pick() (Move[S], Score, bool)
	Reset()
}

// AcceptedCountLimitForager keeps the best-scoring candidate among the
// first Limit acceptor-accepted candidates it sees, then signals stop
// (spec.md §4.I's Accepted-count limit). Limit <= 0 means unbounded: every
// candidate from the selector is considered.
type AcceptedCountLimitForager[S any] struct {
	Limit        int
	acceptedSeen int
	bestMove     Move[S]
	bestScore    Score
	hasBest      bool
}

func NewAcceptedCountLimitForager[S any](limit int) *AcceptedCountLimitForager[S] {
	return &AcceptedCountLimitForager[S]{Limit: limit}
}

func (f *AcceptedCountLimitForager[S]) Consider(move Move[S], candidateScore Score, accepted bool) bool {
	if !accepted {
		return false
	}
	f.acceptedSeen++
	if !f.hasBest || candidateScore.Compare(f.bestScore) > 0 {
		f.bestMove = move
		f.bestScore = candidateScore
		f.hasBest = true
	}
	return f.Limit > 0 && f.acceptedSeen >= f.Limit
}

func (f *AcceptedCountLimitForager[S]) Pick() (Move[S], Score, bool) {
	return f.bestMove, f.bestScore, f.hasBest
}

func (f *AcceptedCountLimitForager[S]) Reset() {
	var zeroMove Move[S]
	f.acceptedSeen = 0
	f.bestMove = zeroMove
	f.hasBest = false
}

// PickEarlyForager commits the first acceptor-accepted candidate that
// strictly improves on startingScore, without looking further (spec.md
// §4.I's Pick-early). startingScore is the score passed to
// NewPickEarlyForager; Reset does not change it, so a forager reused across
// steps compares every step's candidates against that same score rather
// than the step's own starting score. If no accepted candidate improves, it falls
// back to the best accepted candidate seen, same as AcceptedCountLimitForager
// with an unbounded limit.
type PickEarlyForager[S any] struct {
	startingScore Score
	earlyMove     Move[S]
	earlyScore    Score
	hasEarly      bool
	fallback      AcceptedCountLimitForager[S]
}

func NewPickEarlyForager[S any](startingScore Score) *PickEarlyForager[S] {
	return &PickEarlyForager[S]{startingScore: startingScore}
}

func (f *PickEarlyForager[S]) Consider(move Move[S], candidateScore Score, accepted bool) bool {
	if f.fallback.Consider(move, candidateScore, accepted) {
		// unbounded fallback never itself requests a stop
	}
	if accepted && candidateScore.Compare(f.startingScore) > 0 {
		f.earlyMove = move
		f.earlyScore = candidateScore
		f.hasEarly = true
		return true
	}
	return false
}

func (f *PickEarlyForager[S]) Pick() (Move[S], Score, bool) {
	if f.hasEarly {
		return f.earlyMove, f.earlyScore, true
	}
	return f.fallback.Pick()
}

func (f *PickEarlyForager[S]) Reset() {
	var zeroMove Move[S]
	f.earlyMove = zeroMove
	f.hasEarly = false
	f.fallback.Reset()
}
