package solverforge

import "math"

// Acceptor is the per-move policy deciding whether a speculatively evaluated
// candidate is allowed to become this step's working solution (spec.md
// §4.I). Accept may maintain internal state (a tabu ring, a late-acceptance
// buffer, a temperature, a water level) updated as a side effect of each
// call. LocalSearchPhase calls Accept once per evaluated candidate, whether
// or not the forager later commits it, and passes the candidate's ordinal
// within the current step as step.
type Acceptor interface {
	Accept(prev, candidate Score, step int64) bool
}

// HillClimbingAcceptor accepts only strictly improving candidates (spec.md
// §4.I's Hill climbing rule). It carries no state.
type HillClimbingAcceptor struct{}

func (HillClimbingAcceptor) Accept(prev, candidate Score, step int64) bool {
	return candidate.Compare(prev) > 0
}

// TabuKeyFunc extracts the key a TabuAcceptor rings against. What the key
// represents (the changed entity, the assigned value, the move's string
// form, or its inverse) is the caller's choice — spec.md §6 lists four tabu
// flavors (entity/value/move/undo-move tabu) that differ only in this
// extraction, so one generic acceptor covers all four.
type TabuKeyFunc func() string

// TabuAcceptor accepts a candidate whose key isn't in the tabu ring, or
// whose score beats the best-so-far (the aspiration criterion), and records
// the key of every candidate it accepts into the ring (spec.md §4.I's Tabu
// rule). Size <= 0 disables the ring (no candidate is ever tabu).
type TabuAcceptor struct {
	Size      int
	KeyOf     TabuKeyFunc
	best      Score
	hasBest   bool
	ring      []string
	ringSet   map[string]int
	nextSlot  int
}

// NewTabuAcceptor builds a tabu acceptor with the given ring size. keyOf is
// called once per Accept call.
func NewTabuAcceptor(size int, keyOf TabuKeyFunc) *TabuAcceptor {
	capacity := size
	if capacity < 0 {
		capacity = 0
	}
	return &TabuAcceptor{Size: size, KeyOf: keyOf, ring: make([]string, 0, capacity), ringSet: make(map[string]int)}
}

func (t *TabuAcceptor) isTabu(key string) bool {
	_, tabu := t.ringSet[key]
	return tabu
}

func (t *TabuAcceptor) Accept(prev, candidate Score, step int64) bool {
	key := t.KeyOf()
	aspirated := t.hasBest && candidate.Compare(t.best) > 0
	if !aspirated && t.isTabu(key) {
		return false
	}
	if !t.hasBest || candidate.Compare(t.best) > 0 {
		t.best = candidate
		t.hasBest = true
	}
	t.record(key)
	return true
}

// record pushes key into the ring, evicting the oldest entry past Size.
func (t *TabuAcceptor) record(key string) {
	if t.Size <= 0 {
		return
	}
	if len(t.ring) < t.Size {
		t.ring = append(t.ring, key)
	} else {
		evicted := t.ring[t.nextSlot]
		t.ringSet[evicted]--
		if t.ringSet[evicted] <= 0 {
			delete(t.ringSet, evicted)
		}
		t.ring[t.nextSlot] = key
	}
	t.ringSet[key]++
	t.nextSlot = (t.nextSlot + 1) % t.Size
}

// RandomFloat01 abstracts the U(0,1) draw simulated annealing needs, so
// acceptor determinism is governed entirely by the caller's seeded source
// (spec.md §5's determinism contract) rather than a package-global RNG.
type RandomFloat01 func() float64

// SimulatedAnnealingAcceptor accepts strictly improving candidates outright,
// and otherwise accepts with probability exp((candidate-prev)/T) against a
// uniform draw, cooling T by Decay after every Accept call (spec.md §4.I's
// Simulated annealing rule; "numeric conversions use the top, least-
// significant level as a real" per spec.md §4.I, i.e. Levels()'s last
// entry).
type SimulatedAnnealingAcceptor struct {
	Temperature float64
	Decay       float64
	Rand        RandomFloat01
}

func NewSimulatedAnnealingAcceptor(startingTemperature, decay float64, rnd RandomFloat01) *SimulatedAnnealingAcceptor {
	return &SimulatedAnnealingAcceptor{Temperature: startingTemperature, Decay: decay, Rand: rnd}
}

func leastSignificantLevel(s Score) float64 {
	levels := s.Levels()
	if len(levels) == 0 {
		return 0
	}
	return float64(levels[len(levels)-1])
}

func (a *SimulatedAnnealingAcceptor) Accept(prev, candidate Score, step int64) bool {
	accepted := false
	if candidate.Compare(prev) > 0 {
		accepted = true
	} else {
		delta := leastSignificantLevel(candidate) - leastSignificantLevel(prev)
		probability := math.Exp(delta / a.Temperature)
		accepted = a.Rand() < probability
	}
	a.Temperature *= a.Decay
	return accepted
}

// LateAcceptanceAcceptor accepts a candidate that matches or beats the score
// in ring slot step mod N or that beats the immediately preceding score,
// and on acceptance overwrites that ring slot with
// the accepted candidate's score (spec.md §4.I's Late acceptance rule).
type LateAcceptanceAcceptor struct {
	buffer []Score
	filled bool
	zero   ScoreFactory
}

// NewLateAcceptanceAcceptor builds a buffer of size, pre-filled with zero()
// until real scores displace each slot.
func NewLateAcceptanceAcceptor(size int, zero ScoreFactory) *LateAcceptanceAcceptor {
	buf := make([]Score, size)
	for i := range buf {
		buf[i] = zero()
	}
	return &LateAcceptanceAcceptor{buffer: buf, zero: zero}
}

func (l *LateAcceptanceAcceptor) Accept(prev, candidate Score, step int64) bool {
	if len(l.buffer) == 0 {
		return candidate.Compare(prev) > 0
	}
	slot := int(step) % len(l.buffer)
	reference := l.buffer[slot]
	accepted := candidate.Compare(reference) >= 0 || candidate.Compare(prev) > 0
	if accepted {
		l.buffer[slot] = candidate
	}
	return accepted
}

// GreatDelugeAcceptor accepts any candidate at or above the current water
// level, then raises the level toward best by IncreaseRatio (spec.md §4.I's
// Great deluge rule). Best must be kept current by the caller via RaiseBest
// whenever a new global best is committed. The water level is tracked as a
// plain real number against Score's least-significant level, the same
// single-level simplification spec.md §4.I already mandates for simulated
// annealing's numeric conversions — a full multi-level water line has no
// natural definition for hard/soft scores in general.
type GreatDelugeAcceptor struct {
	WaterLevel    float64
	IncreaseRatio float64
	best          float64
	hasBest       bool
}

func NewGreatDelugeAcceptor(startingWaterLevel, increaseRatio float64) *GreatDelugeAcceptor {
	return &GreatDelugeAcceptor{WaterLevel: startingWaterLevel, IncreaseRatio: increaseRatio}
}

// RaiseBest updates the acceptor's notion of the best score seen, which the
// water level climbs toward.
func (g *GreatDelugeAcceptor) RaiseBest(best Score) {
	level := leastSignificantLevel(best)
	if !g.hasBest || level > g.best {
		g.best = level
		g.hasBest = true
	}
}

func (g *GreatDelugeAcceptor) Accept(prev, candidate Score, step int64) bool {
	accepted := leastSignificantLevel(candidate) >= g.WaterLevel
	if g.hasBest {
		g.WaterLevel += (g.best - g.WaterLevel) * g.IncreaseRatio
	}
	return accepted
}
