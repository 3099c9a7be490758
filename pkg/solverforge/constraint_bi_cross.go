package solverforge

// CrossTuple2 is a match between one entity from the kernel's A-side
// collection and one from its B-side collection (spec.md §4.C
// "Cross-collection (bi) kernels"). Unlike Tuple2, there is no ascending
// canonicalization — A and B are different collections, so their indices
// are not comparable in the self-join sense.
type CrossTuple2 struct{ A, B int }

// CrossBiConstraint is the cross-collection arity-2 kernel: A and B come
// from different extractors with different descriptor indices. The kernel
// reacts to before/after-change notifications on *either* side, rebuilding
// symmetrically (spec.md §4.C: "when B itself mutates, the kernel is
// notified with its descriptor index and performs a symmetric rebuild on
// that side").
//
// spec.md §9's open question about globally-unique entity ids versus
// (descriptor, index) keyed pair-maps is resolved here by construction: a
// match is keyed by CrossTuple2{A, B}, i.e. by (descriptor-scoped index,
// descriptor-scoped index) pairs, never by a bare entity id. This sidesteps
// the ambiguity entirely — no global id scheme is required.
type CrossBiConstraint[S, A, B any, K comparable] struct {
	name   string
	impact ImpactType
	isHard bool

	descriptorA int
	descriptorB int

	extractorA func(solution *S) []A
	extractorB func(solution *S) []B

	keyExtractorA func(a *A) K
	keyExtractorB func(b *B) K

	filter func(solution *S, a *A, b *B) bool
	weight func(a *A, b *B) Score
	zero   ScoreFactory

	indexToKeyA map[int]K
	indexToKeyB map[int]K
	keyIndexA   map[K]map[int]struct{}
	keyIndexB   map[K]map[int]struct{}

	matches    map[CrossTuple2]struct{}
	aToMatches map[int]map[CrossTuple2]struct{}
	bToMatches map[int]map[CrossTuple2]struct{}
}

// NewCrossBiConstraint builds a cross-collection arity-2 kernel.
func NewCrossBiConstraint[S, A, B any, K comparable](
	name string,
	impact ImpactType,
	isHard bool,
	descriptorA, descriptorB int,
	extractorA func(solution *S) []A,
	extractorB func(solution *S) []B,
	keyExtractorA func(a *A) K,
	keyExtractorB func(b *B) K,
	filter func(solution *S, a *A, b *B) bool,
	weight func(a *A, b *B) Score,
	zero ScoreFactory,
) *CrossBiConstraint[S, A, B, K] {
	c := &CrossBiConstraint[S, A, B, K]{
		name:          name,
		impact:        impact,
		isHard:        isHard,
		descriptorA:   descriptorA,
		descriptorB:   descriptorB,
		extractorA:    extractorA,
		extractorB:    extractorB,
		keyExtractorA: keyExtractorA,
		keyExtractorB: keyExtractorB,
		filter:        filter,
		weight:        weight,
		zero:          zero,
	}
	c.Reset()
	return c
}

func (c *CrossBiConstraint[S, A, B, K]) Name() string { return c.name }
func (c *CrossBiConstraint[S, A, B, K]) IsHard() bool { return c.isHard }

func (c *CrossBiConstraint[S, A, B, K]) Reset() {
	c.indexToKeyA = make(map[int]K)
	c.indexToKeyB = make(map[int]K)
	c.keyIndexA = make(map[K]map[int]struct{})
	c.keyIndexB = make(map[K]map[int]struct{})
	c.matches = make(map[CrossTuple2]struct{})
	c.aToMatches = make(map[int]map[CrossTuple2]struct{})
	c.bToMatches = make(map[int]map[CrossTuple2]struct{})
}

func (c *CrossBiConstraint[S, A, B, K]) Initialize(solution *S) Score {
	c.Reset()
	total := c.zero()
	as := c.extractorA(solution)
	bs := c.extractorB(solution)
	for i := range as {
		total = total.Add(c.insertA(solution, as, bs, i))
	}
	for j := range bs {
		total = total.Add(c.insertB(solution, as, bs, j))
	}
	return total
}

func (c *CrossBiConstraint[S, A, B, K]) Evaluate(solution *S) Score {
	total := c.zero()
	as := c.extractorA(solution)
	bs := c.extractorB(solution)
	for i := range as {
		for j := range bs {
			if c.filter(solution, &as[i], &bs[j]) {
				total = total.Add(c.impact.apply(c.weight(&as[i], &bs[j])))
			}
		}
	}
	return total
}

func (c *CrossBiConstraint[S, A, B, K]) OnInsert(solution *S, entityIndex, descriptorIndex int) Score {
	as := c.extractorA(solution)
	bs := c.extractorB(solution)
	switch descriptorIndex {
	case c.descriptorA:
		if entityIndex < 0 || entityIndex >= len(as) {
			return c.zero()
		}
		return c.insertA(solution, as, bs, entityIndex)
	case c.descriptorB:
		if entityIndex < 0 || entityIndex >= len(bs) {
			return c.zero()
		}
		return c.insertB(solution, as, bs, entityIndex)
	default:
		return c.zero()
	}
}

func (c *CrossBiConstraint[S, A, B, K]) OnRetract(solution *S, entityIndex, descriptorIndex int) Score {
	switch descriptorIndex {
	case c.descriptorA:
		return c.retractA(solution, entityIndex)
	case c.descriptorB:
		return c.retractB(solution, entityIndex)
	default:
		return c.zero()
	}
}

func (c *CrossBiConstraint[S, A, B, K]) insertA(solution *S, as []A, bs []B, aIdx int) Score {
	key := c.keyExtractorA(&as[aIdx])
	c.indexToKeyA[aIdx] = key
	if c.keyIndexA[key] == nil {
		c.keyIndexA[key] = make(map[int]struct{})
	}
	c.keyIndexA[key][aIdx] = struct{}{}

	total := c.zero()
	for bIdx := range c.keyIndexB[key] {
		tuple := CrossTuple2{A: aIdx, B: bIdx}
		if _, exists := c.matches[tuple]; exists {
			continue
		}
		if !c.filter(solution, &as[aIdx], &bs[bIdx]) {
			continue
		}
		c.matches[tuple] = struct{}{}
		c.addBackLinks(tuple)
		total = total.Add(c.impact.apply(c.weight(&as[aIdx], &bs[bIdx])))
	}
	return total
}

func (c *CrossBiConstraint[S, A, B, K]) insertB(solution *S, as []A, bs []B, bIdx int) Score {
	key := c.keyExtractorB(&bs[bIdx])
	c.indexToKeyB[bIdx] = key
	if c.keyIndexB[key] == nil {
		c.keyIndexB[key] = make(map[int]struct{})
	}
	c.keyIndexB[key][bIdx] = struct{}{}

	total := c.zero()
	for aIdx := range c.keyIndexA[key] {
		tuple := CrossTuple2{A: aIdx, B: bIdx}
		if _, exists := c.matches[tuple]; exists {
			continue
		}
		if !c.filter(solution, &as[aIdx], &bs[bIdx]) {
			continue
		}
		c.matches[tuple] = struct{}{}
		c.addBackLinks(tuple)
		total = total.Add(c.impact.apply(c.weight(&as[aIdx], &bs[bIdx])))
	}
	return total
}

func (c *CrossBiConstraint[S, A, B, K]) retractA(solution *S, aIdx int) Score {
	key, ok := c.indexToKeyA[aIdx]
	if !ok {
		return c.zero()
	}
	if bucket := c.keyIndexA[key]; bucket != nil {
		delete(bucket, aIdx)
		if len(bucket) == 0 {
			delete(c.keyIndexA, key)
		}
	}
	delete(c.indexToKeyA, aIdx)

	retired := c.aToMatches[aIdx]
	delete(c.aToMatches, aIdx)
	if len(retired) == 0 {
		return c.zero()
	}
	as := c.extractorA(solution)
	bs := c.extractorB(solution)
	total := c.zero()
	for tuple := range retired {
		delete(c.matches, tuple)
		c.removeBackLinkB(tuple)
		if tuple.A < len(as) && tuple.B < len(bs) {
			total = total.Add(c.impact.apply(c.weight(&as[tuple.A], &bs[tuple.B])).Negate())
		}
	}
	return total
}

func (c *CrossBiConstraint[S, A, B, K]) retractB(solution *S, bIdx int) Score {
	key, ok := c.indexToKeyB[bIdx]
	if !ok {
		return c.zero()
	}
	if bucket := c.keyIndexB[key]; bucket != nil {
		delete(bucket, bIdx)
		if len(bucket) == 0 {
			delete(c.keyIndexB, key)
		}
	}
	delete(c.indexToKeyB, bIdx)

	retired := c.bToMatches[bIdx]
	delete(c.bToMatches, bIdx)
	if len(retired) == 0 {
		return c.zero()
	}
	as := c.extractorA(solution)
	bs := c.extractorB(solution)
	total := c.zero()
	for tuple := range retired {
		delete(c.matches, tuple)
		c.removeBackLinkA(tuple)
		if tuple.A < len(as) && tuple.B < len(bs) {
			total = total.Add(c.impact.apply(c.weight(&as[tuple.A], &bs[tuple.B])).Negate())
		}
	}
	return total
}

func (c *CrossBiConstraint[S, A, B, K]) addBackLinks(tuple CrossTuple2) {
	if c.aToMatches[tuple.A] == nil {
		c.aToMatches[tuple.A] = make(map[CrossTuple2]struct{})
	}
	c.aToMatches[tuple.A][tuple] = struct{}{}
	if c.bToMatches[tuple.B] == nil {
		c.bToMatches[tuple.B] = make(map[CrossTuple2]struct{})
	}
	c.bToMatches[tuple.B][tuple] = struct{}{}
}

func (c *CrossBiConstraint[S, A, B, K]) removeBackLinkA(tuple CrossTuple2) {
	bucket := c.aToMatches[tuple.A]
	delete(bucket, tuple)
	if len(bucket) == 0 {
		delete(c.aToMatches, tuple.A)
	}
}

func (c *CrossBiConstraint[S, A, B, K]) removeBackLinkB(tuple CrossTuple2) {
	bucket := c.bToMatches[tuple.B]
	delete(bucket, tuple)
	if len(bucket) == 0 {
		delete(c.bToMatches, tuple.B)
	}
}

// MatchCount exposes the current match-set size for tests.
func (c *CrossBiConstraint[S, A, B, K]) MatchCount() int { return len(c.matches) }
