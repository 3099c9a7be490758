package solverforge

// constraint_stream.go is the Stream DSL (spec.md §4.E): a builder chain
//
//	UniStream → (filter|join|group_by|if_exists|balance)* → penalize|reward → as_constraint(name)
//
// grounded on original_source's solverforge-scoring/src/stream (uni_stream.rs's
// UniConstraintStream combinators, arity_stream_macros.rs's per-arity
// self-join builders). Each combinator returns a new stream value wrapping
// a composed closure; the terminal As*Constraint call builds exactly the
// Constraint[S] concrete kernel (constraint_uni.go, constraint_bi.go, ...)
// a caller could also construct directly with the matching New*Constraint
// function — the DSL introduces no additional runtime dispatch, per
// spec.md §4.E's "syntactic sugar over §4.C kernels; no runtime dispatch
// is introduced."
//
// Go methods cannot introduce type parameters beyond their receiver's, so
// every combinator that adds a new type parameter (a join key K, a group
// value V, a joined-in collection's entity type B) is a package-level
// function taking the prior stream as its first argument, rather than a
// method on it; combinators that only narrow the existing type parameters
// (Filter, Penalize, Reward) remain methods.

// ---- Uni ----

// UniStream is the starting point of every chain: entities of a single
// collection, optionally narrowed by Filter.
type UniStream[S, A any] struct {
	descriptor int
	extractor  func(solution *S) []A
	filter     func(solution *S, a *A) bool
}

// NewUniStream starts a stream over the entities extractor returns,
// reacting to descriptorIndex's insert/retract notifications.
func NewUniStream[S, A any](descriptorIndex int, extractor func(solution *S) []A) UniStream[S, A] {
	return UniStream[S, A]{descriptor: descriptorIndex, extractor: extractor}
}

// Filter adds a predicate, combined with any already-accumulated filter by
// AND (spec.md §4.E "Filters compose with AND").
func (u UniStream[S, A]) Filter(predicate func(solution *S, a *A) bool) UniStream[S, A] {
	u.filter = andUniFilter(u.filter, predicate)
	return u
}

func andUniFilter[S, A any](prior, next func(solution *S, a *A) bool) func(solution *S, a *A) bool {
	if prior == nil {
		return next
	}
	return func(solution *S, a *A) bool { return prior(solution, a) && next(solution, a) }
}

func (u UniStream[S, A]) filterOrTrue() func(solution *S, a *A) bool {
	if u.filter != nil {
		return u.filter
	}
	return func(*S, *A) bool { return true }
}

// UniConstraintBuilder is the terminal stage reached by Penalize/Reward,
// needing only a name and hardness to become a finished kernel.
type UniConstraintBuilder[S, A any] struct {
	stream UniStream[S, A]
	impact ImpactType
	weight func(a *A) Score
	zero   ScoreFactory
}

// Penalize finalizes the stream: every entity passing the accumulated
// filter subtracts weight(a) from the score.
func (u UniStream[S, A]) Penalize(weight func(a *A) Score, zero ScoreFactory) UniConstraintBuilder[S, A] {
	return UniConstraintBuilder[S, A]{stream: u, impact: Penalty, weight: weight, zero: zero}
}

// Reward finalizes the stream: every entity passing the accumulated
// filter adds weight(a) to the score.
func (u UniStream[S, A]) Reward(weight func(a *A) Score, zero ScoreFactory) UniConstraintBuilder[S, A] {
	return UniConstraintBuilder[S, A]{stream: u, impact: Reward, weight: weight, zero: zero}
}

// AsConstraint builds the finished uni-arity kernel.
func (b UniConstraintBuilder[S, A]) AsConstraint(name string, isHard bool) *UniConstraint[S, A] {
	return NewUniConstraint[S, A](
		name, b.impact, isHard, b.stream.descriptor, b.stream.extractor, b.stream.filterOrTrue(), b.weight, b.zero,
	)
}

// ---- Bi (self-join) ----

// BiStream pairs distinct entities of the same collection sharing a join
// key (spec.md §4.E "join"). Built by JoinSelf, not directly.
type BiStream[S, A any, K comparable] struct {
	descriptor int
	extractor  func(solution *S) []A
	key        func(a *A) K
	filter     func(solution *S, lo, hi *A) bool
}

// JoinSelf joins u with itself on keyFn. BiConstraint's Evaluate (the
// from-scratch recomputation used for drift checks) walks every pair and
// consults only filter, never the key index that OnInsert uses to prune
// candidates — so for the two to agree, filter itself must require
// keyFn(lo) == keyFn(hi) as a precondition of any match (spec.md §4.E
// "Joiners require an equal-join key"). JoinSelf bakes that equality in as
// the filter's first conjunct; any filter accumulated on u (applied to
// both sides, since a self-join pair is only valid if both its members
// individually pass u's own Filter) and any further BiStream.Filter calls
// are ANDed on top.
func JoinSelf[S, A any, K comparable](u UniStream[S, A], keyFn func(a *A) K) BiStream[S, A, K] {
	uf := u.filterOrTrue()
	return BiStream[S, A, K]{
		descriptor: u.descriptor,
		extractor:  u.extractor,
		key:        keyFn,
		filter: func(solution *S, lo, hi *A) bool {
			return keyFn(lo) == keyFn(hi) && uf(solution, lo) && uf(solution, hi)
		},
	}
}

func (b BiStream[S, A, K]) Filter(predicate func(solution *S, lo, hi *A) bool) BiStream[S, A, K] {
	prior := b.filter
	b.filter = func(solution *S, lo, hi *A) bool {
		return (prior == nil || prior(solution, lo, hi)) && predicate(solution, lo, hi)
	}
	return b
}

type BiConstraintBuilder[S, A any, K comparable] struct {
	stream BiStream[S, A, K]
	impact ImpactType
	weight func(lo, hi *A) Score
	zero   ScoreFactory
}

func (b BiStream[S, A, K]) Penalize(weight func(lo, hi *A) Score, zero ScoreFactory) BiConstraintBuilder[S, A, K] {
	return BiConstraintBuilder[S, A, K]{stream: b, impact: Penalty, weight: weight, zero: zero}
}

func (b BiStream[S, A, K]) Reward(weight func(lo, hi *A) Score, zero ScoreFactory) BiConstraintBuilder[S, A, K] {
	return BiConstraintBuilder[S, A, K]{stream: b, impact: Reward, weight: weight, zero: zero}
}

func (b BiConstraintBuilder[S, A, K]) AsConstraint(name string, isHard bool) *BiConstraint[S, A, K] {
	return NewBiConstraint[S, A, K](
		name, b.impact, isHard, b.stream.descriptor, b.stream.extractor, b.stream.key, b.stream.filter, b.weight, b.zero,
	)
}

// ---- Cross-collection bi (join against another collection) ----

// CrossBiStream pairs entities of u's collection with entities of a second
// collection sharing a join key (spec.md §4.E "join" against a distinct
// collection, as opposed to JoinSelf).
type CrossBiStream[S, A, B any, K comparable] struct {
	descriptorA int
	descriptorB int
	extractorA  func(solution *S) []A
	extractorB  func(solution *S) []B
	keyA        func(a *A) K
	keyB        func(b *B) K
	filter      func(solution *S, a *A, b *B) bool
}

// Join builds a CrossBiStream from u joined against a second collection.
// As with JoinSelf, CrossBiConstraint's Evaluate consults only filter, not
// the key index — so filter must require keyA(a) == keyB(b) itself. Any
// filter accumulated on u is applied to the A side before the join.
func Join[S, A, B any, K comparable](
	u UniStream[S, A],
	descriptorB int,
	extractorB func(solution *S) []B,
	keyA func(a *A) K,
	keyB func(b *B) K,
) CrossBiStream[S, A, B, K] {
	uf := u.filterOrTrue()
	return CrossBiStream[S, A, B, K]{
		descriptorA: u.descriptor,
		descriptorB: descriptorB,
		extractorA:  u.extractor,
		extractorB:  extractorB,
		keyA:        keyA,
		keyB:        keyB,
		filter: func(solution *S, a *A, b *B) bool {
			return keyA(a) == keyB(b) && uf(solution, a)
		},
	}
}

func (c CrossBiStream[S, A, B, K]) Filter(predicate func(solution *S, a *A, b *B) bool) CrossBiStream[S, A, B, K] {
	prior := c.filter
	c.filter = func(solution *S, a *A, b *B) bool {
		return (prior == nil || prior(solution, a, b)) && predicate(solution, a, b)
	}
	return c
}

type CrossBiConstraintBuilder[S, A, B any, K comparable] struct {
	stream CrossBiStream[S, A, B, K]
	impact ImpactType
	weight func(a *A, b *B) Score
	zero   ScoreFactory
}

func (c CrossBiStream[S, A, B, K]) Penalize(weight func(a *A, b *B) Score, zero ScoreFactory) CrossBiConstraintBuilder[S, A, B, K] {
	return CrossBiConstraintBuilder[S, A, B, K]{stream: c, impact: Penalty, weight: weight, zero: zero}
}

func (c CrossBiStream[S, A, B, K]) Reward(weight func(a *A, b *B) Score, zero ScoreFactory) CrossBiConstraintBuilder[S, A, B, K] {
	return CrossBiConstraintBuilder[S, A, B, K]{stream: c, impact: Reward, weight: weight, zero: zero}
}

func (b CrossBiConstraintBuilder[S, A, B, K]) AsConstraint(name string, isHard bool) *CrossBiConstraint[S, A, B, K] {
	return NewCrossBiConstraint[S, A, B, K](
		name, b.impact, isHard,
		b.stream.descriptorA, b.stream.descriptorB,
		b.stream.extractorA, b.stream.extractorB,
		b.stream.keyA, b.stream.keyB,
		b.stream.filter, b.weight, b.zero,
	)
}

// ---- Tri / Quad / Penta (self-join) ----
//
// Each of these is its own concrete self-join stream, the same shape as
// BiStream extended to more participants, following
// arity_stream_macros.rs's pattern of implementing every arity as an
// independent self-join builder rather than chaining one out of the last
// (the source macro-generates new_self_join/filter/penalize/reward/
// as_constraint identically for every arity from 2 through 5).

type TriStream[S, A any, K comparable] struct {
	descriptor int
	extractor  func(solution *S) []A
	key        func(a *A) K
	filter     func(solution *S, a, b, c *A) bool
}

// NewTriStream starts a self-join stream over a single collection. As with
// JoinSelf, TriConstraint's Evaluate consults only filter, never the key
// index OnInsert uses, so the default filter requires all three
// participants to share keyFn's key; Filter calls AND further predicates
// on top.
func NewTriStream[S, A any, K comparable](descriptorIndex int, extractor func(solution *S) []A, keyFn func(a *A) K) TriStream[S, A, K] {
	return TriStream[S, A, K]{
		descriptor: descriptorIndex,
		extractor:  extractor,
		key:        keyFn,
		filter: func(_ *S, a, b, c *A) bool {
			k := keyFn(a)
			return keyFn(b) == k && keyFn(c) == k
		},
	}
}

func (t TriStream[S, A, K]) Filter(predicate func(solution *S, a, b, c *A) bool) TriStream[S, A, K] {
	prior := t.filter
	t.filter = func(solution *S, a, b, c *A) bool {
		return (prior == nil || prior(solution, a, b, c)) && predicate(solution, a, b, c)
	}
	return t
}

type TriConstraintBuilder[S, A any, K comparable] struct {
	stream TriStream[S, A, K]
	impact ImpactType
	weight func(a, b, c *A) Score
	zero   ScoreFactory
}

func (t TriStream[S, A, K]) Penalize(weight func(a, b, c *A) Score, zero ScoreFactory) TriConstraintBuilder[S, A, K] {
	return TriConstraintBuilder[S, A, K]{stream: t, impact: Penalty, weight: weight, zero: zero}
}

func (t TriStream[S, A, K]) Reward(weight func(a, b, c *A) Score, zero ScoreFactory) TriConstraintBuilder[S, A, K] {
	return TriConstraintBuilder[S, A, K]{stream: t, impact: Reward, weight: weight, zero: zero}
}

func (b TriConstraintBuilder[S, A, K]) AsConstraint(name string, isHard bool) *TriConstraint[S, A, K] {
	return NewTriConstraint[S, A, K](
		name, b.impact, isHard, b.stream.descriptor, b.stream.extractor, b.stream.key, b.stream.filter, b.weight, b.zero,
	)
}

type QuadStream[S, A any, K comparable] struct {
	descriptor int
	extractor  func(solution *S) []A
	key        func(a *A) K
	filter     func(solution *S, a, b, c, d *A) bool
}

// NewQuadStream starts a self-join stream over a single collection; see
// NewTriStream's doc comment for why the default filter requires all
// participants to share keyFn's key.
func NewQuadStream[S, A any, K comparable](descriptorIndex int, extractor func(solution *S) []A, keyFn func(a *A) K) QuadStream[S, A, K] {
	return QuadStream[S, A, K]{
		descriptor: descriptorIndex,
		extractor:  extractor,
		key:        keyFn,
		filter: func(_ *S, a, b, c, d *A) bool {
			k := keyFn(a)
			return keyFn(b) == k && keyFn(c) == k && keyFn(d) == k
		},
	}
}

func (q QuadStream[S, A, K]) Filter(predicate func(solution *S, a, b, c, d *A) bool) QuadStream[S, A, K] {
	prior := q.filter
	q.filter = func(solution *S, a, b, c, d *A) bool {
		return (prior == nil || prior(solution, a, b, c, d)) && predicate(solution, a, b, c, d)
	}
	return q
}

type QuadConstraintBuilder[S, A any, K comparable] struct {
	stream QuadStream[S, A, K]
	impact ImpactType
	weight func(a, b, c, d *A) Score
	zero   ScoreFactory
}

func (q QuadStream[S, A, K]) Penalize(weight func(a, b, c, d *A) Score, zero ScoreFactory) QuadConstraintBuilder[S, A, K] {
	return QuadConstraintBuilder[S, A, K]{stream: q, impact: Penalty, weight: weight, zero: zero}
}

func (q QuadStream[S, A, K]) Reward(weight func(a, b, c, d *A) Score, zero ScoreFactory) QuadConstraintBuilder[S, A, K] {
	return QuadConstraintBuilder[S, A, K]{stream: q, impact: Reward, weight: weight, zero: zero}
}

func (b QuadConstraintBuilder[S, A, K]) AsConstraint(name string, isHard bool) *QuadConstraint[S, A, K] {
	return NewQuadConstraint[S, A, K](
		name, b.impact, isHard, b.stream.descriptor, b.stream.extractor, b.stream.key, b.stream.filter, b.weight, b.zero,
	)
}

type PentaStream[S, A any, K comparable] struct {
	descriptor int
	extractor  func(solution *S) []A
	key        func(a *A) K
	filter     func(solution *S, a, b, c, d, e *A) bool
}

// NewPentaStream starts a self-join stream over a single collection; see
// NewTriStream's doc comment for why the default filter requires all
// participants to share keyFn's key.
func NewPentaStream[S, A any, K comparable](descriptorIndex int, extractor func(solution *S) []A, keyFn func(a *A) K) PentaStream[S, A, K] {
	return PentaStream[S, A, K]{
		descriptor: descriptorIndex,
		extractor:  extractor,
		key:        keyFn,
		filter: func(_ *S, a, b, c, d, e *A) bool {
			k := keyFn(a)
			return keyFn(b) == k && keyFn(c) == k && keyFn(d) == k && keyFn(e) == k
		},
	}
}

func (p PentaStream[S, A, K]) Filter(predicate func(solution *S, a, b, c, d, e *A) bool) PentaStream[S, A, K] {
	prior := p.filter
	p.filter = func(solution *S, a, b, c, d, e *A) bool {
		return (prior == nil || prior(solution, a, b, c, d, e)) && predicate(solution, a, b, c, d, e)
	}
	return p
}

type PentaConstraintBuilder[S, A any, K comparable] struct {
	stream PentaStream[S, A, K]
	impact ImpactType
	weight func(a, b, c, d, e *A) Score
	zero   ScoreFactory
}

func (p PentaStream[S, A, K]) Penalize(weight func(a, b, c, d, e *A) Score, zero ScoreFactory) PentaConstraintBuilder[S, A, K] {
	return PentaConstraintBuilder[S, A, K]{stream: p, impact: Penalty, weight: weight, zero: zero}
}

func (p PentaStream[S, A, K]) Reward(weight func(a, b, c, d, e *A) Score, zero ScoreFactory) PentaConstraintBuilder[S, A, K] {
	return PentaConstraintBuilder[S, A, K]{stream: p, impact: Reward, weight: weight, zero: zero}
}

func (b PentaConstraintBuilder[S, A, K]) AsConstraint(name string, isHard bool) *PentaConstraint[S, A, K] {
	return NewPentaConstraint[S, A, K](
		name, b.impact, isHard, b.stream.descriptor, b.stream.extractor, b.stream.key, b.stream.filter, b.weight, b.zero,
	)
}

// ---- group_by ----

// GroupedStream partitions u's entities by key, folding each group through
// an accumulator (spec.md §4.E "group_by").
type GroupedStream[S, A any, K comparable, V any] struct {
	descriptor int
	extractor  func(solution *S) []A
	key        func(a *A) K
	value      func(a *A) V
	newAcc     func() GroupAccumulator[V]
}

// GroupBy builds a GroupedStream from u, folding value(a) into each
// group's accumulator. u's own Filter, if any, narrows which entities are
// folded in at all (applied once here, not carried further, since the
// grouping kernel keys/values entities directly rather than re-filtering
// per group).
func GroupBy[S, A any, K comparable, V any](
	u UniStream[S, A],
	keyFn func(a *A) K,
	value func(a *A) V,
	newAcc func() GroupAccumulator[V],
) GroupedStream[S, A, K, V] {
	uf := u.filterOrTrue()
	filteredExtractor := func(solution *S) []A {
		all := u.extractor(solution)
		out := make([]A, 0, len(all))
		for i := range all {
			if uf(solution, &all[i]) {
				out = append(out, all[i])
			}
		}
		return out
	}
	return GroupedStream[S, A, K, V]{
		descriptor: u.descriptor,
		extractor:  filteredExtractor,
		key:        keyFn,
		value:      value,
		newAcc:     newAcc,
	}
}

type GroupedConstraintBuilder[S, A any, K comparable, V any] struct {
	stream GroupedStream[S, A, K, V]
	impact ImpactType
	zero   ScoreFactory
}

// Penalize/Reward on a GroupedStream take no weight function: the
// accumulator's own Score() supplies the per-group contribution, the
// impact only decides its sign (matching GroupingConstraint's contract).
func (g GroupedStream[S, A, K, V]) Penalize(zero ScoreFactory) GroupedConstraintBuilder[S, A, K, V] {
	return GroupedConstraintBuilder[S, A, K, V]{stream: g, impact: Penalty, zero: zero}
}

func (g GroupedStream[S, A, K, V]) Reward(zero ScoreFactory) GroupedConstraintBuilder[S, A, K, V] {
	return GroupedConstraintBuilder[S, A, K, V]{stream: g, impact: Reward, zero: zero}
}

func (b GroupedConstraintBuilder[S, A, K, V]) AsConstraint(name string, isHard bool) *GroupingConstraint[S, A, K, V] {
	return NewGroupingConstraint[S, A, K, V](
		name, b.impact, isHard, b.stream.descriptor, b.stream.extractor, b.stream.key, b.stream.value, b.stream.newAcc, b.zero,
	)
}

// Complement extends a GroupedStream with a complement collection B, one
// of whose members exists per group key regardless of whether any A
// currently belongs to that group (spec.md §4.C "Complemented group
// kernel"). keyA reports (key, ok) since — unlike plain group_by — a
// complemented group can legitimately have no key for some A entities.
func Complement[S, A, B any, K comparable, V any](
	g GroupedStream[S, A, K, V],
	descriptorB int,
	extractorB func(solution *S) []B,
	keyA func(a *A) (K, bool),
	keyB func(b *B) K,
	defaultScore func(b *B) Score,
) ComplementedGroupStream[S, A, B, K, V] {
	return ComplementedGroupStream[S, A, B, K, V]{
		descriptorA:  g.descriptor,
		descriptorB:  descriptorB,
		extractorA:   g.extractor,
		extractorB:   extractorB,
		keyA:         keyA,
		keyB:         keyB,
		value:        g.value,
		newAcc:       g.newAcc,
		defaultScore: defaultScore,
	}
}

type ComplementedGroupStream[S, A, B any, K comparable, V any] struct {
	descriptorA  int
	descriptorB  int
	extractorA   func(solution *S) []A
	extractorB   func(solution *S) []B
	keyA         func(a *A) (K, bool)
	keyB         func(b *B) K
	value        func(a *A) V
	newAcc       func() GroupAccumulator[V]
	defaultScore func(b *B) Score
}

type ComplementedGroupConstraintBuilder[S, A, B any, K comparable, V any] struct {
	stream ComplementedGroupStream[S, A, B, K, V]
	impact ImpactType
	zero   ScoreFactory
}

func (c ComplementedGroupStream[S, A, B, K, V]) Penalize(zero ScoreFactory) ComplementedGroupConstraintBuilder[S, A, B, K, V] {
	return ComplementedGroupConstraintBuilder[S, A, B, K, V]{stream: c, impact: Penalty, zero: zero}
}

func (c ComplementedGroupStream[S, A, B, K, V]) Reward(zero ScoreFactory) ComplementedGroupConstraintBuilder[S, A, B, K, V] {
	return ComplementedGroupConstraintBuilder[S, A, B, K, V]{stream: c, impact: Reward, zero: zero}
}

func (b ComplementedGroupConstraintBuilder[S, A, B, K, V]) AsConstraint(name string, isHard bool) *ComplementedGroupConstraint[S, A, B, K, V] {
	return NewComplementedGroupConstraint[S, A, B, K, V](
		name, b.impact, isHard,
		b.stream.descriptorA, b.stream.descriptorB,
		b.stream.extractorA, b.stream.extractorB,
		b.stream.keyA, b.stream.keyB,
		b.stream.value, b.stream.newAcc,
		b.stream.defaultScore, b.zero,
	)
}

// ---- balance ----

// BalanceStream computes one global standard-deviation statistic across
// u's entities grouped by key (spec.md §4.E "balance").
type BalanceStream[S, A any, K comparable] struct {
	descriptor int
	extractor  func(solution *S) []A
	key        func(a *A) K
	baseScore  Score
}

// Balance builds a BalanceStream from u. u's own Filter, if any, narrows
// which entities are counted, applied once here (same rationale as
// GroupBy above).
func Balance[S, A any, K comparable](u UniStream[S, A], keyFn func(a *A) K, baseScore Score) BalanceStream[S, A, K] {
	uf := u.filterOrTrue()
	filteredExtractor := func(solution *S) []A {
		all := u.extractor(solution)
		out := make([]A, 0, len(all))
		for i := range all {
			if uf(solution, &all[i]) {
				out = append(out, all[i])
			}
		}
		return out
	}
	return BalanceStream[S, A, K]{descriptor: u.descriptor, extractor: filteredExtractor, key: keyFn, baseScore: baseScore}
}

type BalanceConstraintBuilder[S, A any, K comparable] struct {
	stream BalanceStream[S, A, K]
	impact ImpactType
}

func (b BalanceStream[S, A, K]) Penalize() BalanceConstraintBuilder[S, A, K] {
	return BalanceConstraintBuilder[S, A, K]{stream: b, impact: Penalty}
}

func (b BalanceStream[S, A, K]) Reward() BalanceConstraintBuilder[S, A, K] {
	return BalanceConstraintBuilder[S, A, K]{stream: b, impact: Reward}
}

func (b BalanceConstraintBuilder[S, A, K]) AsConstraint(name string, isHard bool, zero ScoreFactory) *BalanceConstraint[S, A, K] {
	return NewBalanceConstraint[S, A, K](
		name, b.impact, isHard, b.stream.descriptor, b.stream.extractor, b.stream.key, b.stream.baseScore, zero,
	)
}

// ---- if_exists ----

// IfExistsStream filters u's entities down to those for which at least
// one (Exists) or exactly zero (NotExists) B entities share a join key
// (spec.md §4.E "if_exists").
type IfExistsStream[S, A, B any, K comparable] struct {
	descriptorA int
	descriptorB int
	extractorA  func(solution *S) []A
	extractorB  func(solution *S) []B
	keyA        func(a *A) K
	keyB        func(b *B) K
	filterB     func(solution *S, b *B) bool
	exists      bool
}

// IfExists builds an IfExistsStream requiring at least one matching B.
// u's own Filter, if any, is not applied: IfExistsConstraint has no A-side
// filter hook of its own, so every A that u's extractor yields is checked
// against B.
func IfExists[S, A, B any, K comparable](
	u UniStream[S, A],
	descriptorB int,
	extractorB func(solution *S) []B,
	keyA func(a *A) K,
	keyB func(b *B) K,
	filterB func(solution *S, b *B) bool,
) IfExistsStream[S, A, B, K] {
	return IfExistsStream[S, A, B, K]{
		descriptorA: u.descriptor, descriptorB: descriptorB,
		extractorA: u.extractor, extractorB: extractorB,
		keyA: keyA, keyB: keyB, filterB: filterB, exists: true,
	}
}

// IfNotExists builds an IfExistsStream requiring exactly zero matching B.
func IfNotExists[S, A, B any, K comparable](
	u UniStream[S, A],
	descriptorB int,
	extractorB func(solution *S) []B,
	keyA func(a *A) K,
	keyB func(b *B) K,
	filterB func(solution *S, b *B) bool,
) IfExistsStream[S, A, B, K] {
	s := IfExists[S, A, B, K](u, descriptorB, extractorB, keyA, keyB, filterB)
	s.exists = false
	return s
}

type IfExistsConstraintBuilder[S, A, B any, K comparable] struct {
	stream IfExistsStream[S, A, B, K]
	impact ImpactType
	weight func(a *A) Score
	zero   ScoreFactory
}

func (i IfExistsStream[S, A, B, K]) Penalize(weight func(a *A) Score, zero ScoreFactory) IfExistsConstraintBuilder[S, A, B, K] {
	return IfExistsConstraintBuilder[S, A, B, K]{stream: i, impact: Penalty, weight: weight, zero: zero}
}

func (i IfExistsStream[S, A, B, K]) Reward(weight func(a *A) Score, zero ScoreFactory) IfExistsConstraintBuilder[S, A, B, K] {
	return IfExistsConstraintBuilder[S, A, B, K]{stream: i, impact: Reward, weight: weight, zero: zero}
}

func (b IfExistsConstraintBuilder[S, A, B, K]) AsConstraint(name string, isHard bool) *IfExistsConstraint[S, A, B, K] {
	return NewIfExistsConstraint[S, A, B, K](
		name, b.impact, isHard, b.stream.exists,
		b.stream.descriptorA, b.stream.descriptorB,
		b.stream.extractorA, b.stream.extractorB,
		b.stream.keyA, b.stream.keyB, b.stream.filterB,
		b.weight, b.zero,
	)
}
