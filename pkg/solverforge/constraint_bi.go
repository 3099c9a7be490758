package solverforge

// Tuple2 is a canonicalized arity-2 match: Lo < Hi always (spec.md §4.C
// "Ordering and tie-breaking" / P5 "every matched tuple has strictly
// ascending entity indices").
type Tuple2 struct{ Lo, Hi int }

// BiConstraint is the arity-2 self-join kernel (spec.md §4.C). K is the
// join-key type (must be comparable to key a map). It maintains:
//   - matches: the current set of passing tuples;
//   - keyIndex: join key -> set of entity indices sharing that key;
//   - entityToMatches: entity index -> set of tuples it participates in,
//     for O(matches-for-this-entity) retraction.
type BiConstraint[S, A any, K comparable] struct {
	name         string
	impact       ImpactType
	isHard       bool
	descriptor   int
	extractor    func(solution *S) []A
	keyExtractor func(a *A) K
	filter       func(solution *S, lo, hi *A) bool
	weight       func(lo, hi *A) Score
	zero         ScoreFactory

	indexToKey      map[int]K
	keyIndex        map[K]map[int]struct{}
	matches         map[Tuple2]struct{}
	entityToMatches map[int]map[Tuple2]struct{}
}

// NewBiConstraint builds a self-join arity-2 kernel over one entity
// collection, joined on keyExtractor and refined by filter. filter receives
// full entity references (not keys) in canonical (lo, hi) index order, so
// it may read any field, not only the join key (spec.md §4.C "Filter
// independence").
func NewBiConstraint[S, A any, K comparable](
	name string,
	impact ImpactType,
	isHard bool,
	descriptorIndex int,
	extractor func(solution *S) []A,
	keyExtractor func(a *A) K,
	filter func(solution *S, lo, hi *A) bool,
	weight func(lo, hi *A) Score,
	zero ScoreFactory,
) *BiConstraint[S, A, K] {
	c := &BiConstraint[S, A, K]{
		name:         name,
		impact:       impact,
		isHard:       isHard,
		descriptor:   descriptorIndex,
		extractor:    extractor,
		keyExtractor: keyExtractor,
		filter:       filter,
		weight:       weight,
		zero:         zero,
	}
	c.Reset()
	return c
}

func (c *BiConstraint[S, A, K]) Name() string { return c.name }
func (c *BiConstraint[S, A, K]) IsHard() bool { return c.isHard }

func (c *BiConstraint[S, A, K]) Reset() {
	c.indexToKey = make(map[int]K)
	c.keyIndex = make(map[K]map[int]struct{})
	c.matches = make(map[Tuple2]struct{})
	c.entityToMatches = make(map[int]map[Tuple2]struct{})
}

func (c *BiConstraint[S, A, K]) Initialize(solution *S) Score {
	c.Reset()
	total := c.zero()
	entities := c.extractor(solution)
	for i := range entities {
		total = total.Add(c.insertEntity(solution, entities, i))
	}
	return total
}

func (c *BiConstraint[S, A, K]) Evaluate(solution *S) Score {
	total := c.zero()
	entities := c.extractor(solution)
	for i := range entities {
		for j := i + 1; j < len(entities); j++ {
			if c.filter(solution, &entities[i], &entities[j]) {
				total = total.Add(c.impact.apply(c.weight(&entities[i], &entities[j])))
			}
		}
	}
	return total
}

func (c *BiConstraint[S, A, K]) OnInsert(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	entities := c.extractor(solution)
	if entityIndex < 0 || entityIndex >= len(entities) {
		return c.zero()
	}
	return c.insertEntity(solution, entities, entityIndex)
}

func (c *BiConstraint[S, A, K]) insertEntity(solution *S, entities []A, index int) Score {
	key := c.keyExtractor(&entities[index])
	c.indexToKey[index] = key
	if c.keyIndex[key] == nil {
		c.keyIndex[key] = make(map[int]struct{})
	}
	c.keyIndex[key][index] = struct{}{}

	total := c.zero()
	for other := range c.keyIndex[key] {
		if other == index {
			continue
		}
		lo, hi := index, other
		loEntity, hiEntity := &entities[index], &entities[other]
		if other < index {
			lo, hi = other, index
			loEntity, hiEntity = &entities[other], &entities[index]
		}
		tuple := Tuple2{Lo: lo, Hi: hi}
		if _, exists := c.matches[tuple]; exists {
			continue
		}
		if !c.filter(solution, loEntity, hiEntity) {
			continue
		}
		c.matches[tuple] = struct{}{}
		c.addBackLink(lo, tuple)
		c.addBackLink(hi, tuple)
		total = total.Add(c.impact.apply(c.weight(loEntity, hiEntity)))
	}
	return total
}

func (c *BiConstraint[S, A, K]) OnRetract(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	key, ok := c.indexToKey[entityIndex]
	if !ok {
		return c.zero()
	}
	if bucket := c.keyIndex[key]; bucket != nil {
		delete(bucket, entityIndex)
		if len(bucket) == 0 {
			delete(c.keyIndex, key)
		}
	}
	delete(c.indexToKey, entityIndex)

	retired := c.entityToMatches[entityIndex]
	delete(c.entityToMatches, entityIndex)
	if len(retired) == 0 {
		return c.zero()
	}

	entities := c.extractor(solution)
	total := c.zero()
	for tuple := range retired {
		delete(c.matches, tuple)
		other := tuple.Lo
		if other == entityIndex {
			other = tuple.Hi
		}
		c.removeBackLink(other, tuple)
		if tuple.Lo < len(entities) && tuple.Hi < len(entities) {
			total = total.Add(c.impact.apply(c.weight(&entities[tuple.Lo], &entities[tuple.Hi])).Negate())
		}
	}
	return total
}

func (c *BiConstraint[S, A, K]) addBackLink(entityIndex int, tuple Tuple2) {
	if c.entityToMatches[entityIndex] == nil {
		c.entityToMatches[entityIndex] = make(map[Tuple2]struct{})
	}
	c.entityToMatches[entityIndex][tuple] = struct{}{}
}

func (c *BiConstraint[S, A, K]) removeBackLink(entityIndex int, tuple Tuple2) {
	bucket := c.entityToMatches[entityIndex]
	delete(bucket, tuple)
	if len(bucket) == 0 {
		delete(c.entityToMatches, entityIndex)
	}
}

// MatchCount exposes the current match-set size, used by tests asserting
// K1/K6 index consistency.
func (c *BiConstraint[S, A, K]) MatchCount() int { return len(c.matches) }
