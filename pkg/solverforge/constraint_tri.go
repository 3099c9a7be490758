package solverforge

// TriConstraint is the arity-3 self-join kernel (spec.md §4.C): for each
// inserted entity, every 2-combination of other entities sharing its join
// key is combined with it into a candidate triple, canonicalized to
// ascending index order (P5), and kept if the filter passes.
type TriConstraint[S, A any, K comparable] struct {
	name         string
	impact       ImpactType
	isHard       bool
	descriptor   int
	extractor    func(solution *S) []A
	keyExtractor func(a *A) K
	filter       func(solution *S, a, b, c *A) bool
	weight       func(a, b, c *A) Score
	zero         ScoreFactory

	indexToKey      map[int]K
	keyIndex        map[K]map[int]struct{}
	matches         map[Tuple3]struct{}
	entityToMatches map[int]map[Tuple3]struct{}
}

// NewTriConstraint builds a self-join arity-3 kernel.
func NewTriConstraint[S, A any, K comparable](
	name string,
	impact ImpactType,
	isHard bool,
	descriptorIndex int,
	extractor func(solution *S) []A,
	keyExtractor func(a *A) K,
	filter func(solution *S, a, b, c *A) bool,
	weight func(a, b, c *A) Score,
	zero ScoreFactory,
) *TriConstraint[S, A, K] {
	c := &TriConstraint[S, A, K]{
		name: name, impact: impact, isHard: isHard, descriptor: descriptorIndex,
		extractor: extractor, keyExtractor: keyExtractor, filter: filter, weight: weight, zero: zero,
	}
	c.Reset()
	return c
}

func (c *TriConstraint[S, A, K]) Name() string { return c.name }
func (c *TriConstraint[S, A, K]) IsHard() bool { return c.isHard }

func (c *TriConstraint[S, A, K]) Reset() {
	c.indexToKey = make(map[int]K)
	c.keyIndex = make(map[K]map[int]struct{})
	c.matches = make(map[Tuple3]struct{})
	c.entityToMatches = make(map[int]map[Tuple3]struct{})
}

func (c *TriConstraint[S, A, K]) Initialize(solution *S) Score {
	c.Reset()
	total := c.zero()
	entities := c.extractor(solution)
	for i := range entities {
		total = total.Add(c.insertEntity(solution, entities, i))
	}
	return total
}

func (c *TriConstraint[S, A, K]) Evaluate(solution *S) Score {
	total := c.zero()
	entities := c.extractor(solution)
	n := len(entities)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				if c.filter(solution, &entities[i], &entities[j], &entities[k]) {
					total = total.Add(c.impact.apply(c.weight(&entities[i], &entities[j], &entities[k])))
				}
			}
		}
	}
	return total
}

func (c *TriConstraint[S, A, K]) OnInsert(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	entities := c.extractor(solution)
	if entityIndex < 0 || entityIndex >= len(entities) {
		return c.zero()
	}
	return c.insertEntity(solution, entities, entityIndex)
}

func (c *TriConstraint[S, A, K]) insertEntity(solution *S, entities []A, index int) Score {
	key := c.keyExtractor(&entities[index])
	c.indexToKey[index] = key
	if c.keyIndex[key] == nil {
		c.keyIndex[key] = make(map[int]struct{})
	}
	c.keyIndex[key][index] = struct{}{}

	total := c.zero()
	for _, combo := range combinationsExcluding(c.keyIndex[key], index, 2) {
		ordered := sortedWith(combo, index)
		tuple := Tuple3{ordered[0], ordered[1], ordered[2]}
		if _, exists := c.matches[tuple]; exists {
			continue
		}
		a, b, cc := &entities[tuple[0]], &entities[tuple[1]], &entities[tuple[2]]
		if !c.filter(solution, a, b, cc) {
			continue
		}
		c.matches[tuple] = struct{}{}
		c.addBackLinks(tuple)
		total = total.Add(c.impact.apply(c.weight(a, b, cc)))
	}
	return total
}

func (c *TriConstraint[S, A, K]) OnRetract(solution *S, entityIndex, descriptorIndex int) Score {
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
		c.removeBackLinks(tuple)
		if inBounds3(tuple, len(entities)) {
			total = total.Add(c.impact.apply(c.weight(&entities[tuple[0]], &entities[tuple[1]], &entities[tuple[2]])).Negate())
		}
	}
	return total
}

func (c *TriConstraint[S, A, K]) addBackLinks(tuple Tuple3) {
	for _, idx := range tuple {
		if c.entityToMatches[idx] == nil {
			c.entityToMatches[idx] = make(map[Tuple3]struct{})
		}
		c.entityToMatches[idx][tuple] = struct{}{}
	}
}

func (c *TriConstraint[S, A, K]) removeBackLinks(tuple Tuple3) {
	for _, idx := range tuple {
		bucket := c.entityToMatches[idx]
		delete(bucket, tuple)
		if len(bucket) == 0 {
			delete(c.entityToMatches, idx)
		}
	}
}

func inBounds3(t Tuple3, n int) bool {
	for _, idx := range t {
		if idx < 0 || idx >= n {
			return false
		}
	}
	return true
}

// MatchCount exposes the current match-set size for tests.
func (c *TriConstraint[S, A, K]) MatchCount() int { return len(c.matches) }
