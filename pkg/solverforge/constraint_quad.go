package solverforge

// QuadConstraint is the arity-4 self-join kernel (spec.md §4.C): every
// 3-combination of other entities sharing an inserted entity's join key is
// combined with it into a candidate quadruple, canonicalized ascending.
type QuadConstraint[S, A any, K comparable] struct {
	name         string
	impact       ImpactType
	isHard       bool
	descriptor   int
	extractor    func(solution *S) []A
	keyExtractor func(a *A) K
	filter       func(solution *S, a, b, c, d *A) bool
	weight       func(a, b, c, d *A) Score
	zero         ScoreFactory

	indexToKey      map[int]K
	keyIndex        map[K]map[int]struct{}
	matches         map[Tuple4]struct{}
	entityToMatches map[int]map[Tuple4]struct{}
}

// NewQuadConstraint builds a self-join arity-4 kernel.
func NewQuadConstraint[S, A any, K comparable](
	name string,
	impact ImpactType,
	isHard bool,
	descriptorIndex int,
	extractor func(solution *S) []A,
	keyExtractor func(a *A) K,
	filter func(solution *S, a, b, c, d *A) bool,
	weight func(a, b, c, d *A) Score,
	zero ScoreFactory,
) *QuadConstraint[S, A, K] {
	c := &QuadConstraint[S, A, K]{
		name: name, impact: impact, isHard: isHard, descriptor: descriptorIndex,
		extractor: extractor, keyExtractor: keyExtractor, filter: filter, weight: weight, zero: zero,
	}
	c.Reset()
	return c
}

func (c *QuadConstraint[S, A, K]) Name() string { return c.name }
func (c *QuadConstraint[S, A, K]) IsHard() bool { return c.isHard }

func (c *QuadConstraint[S, A, K]) Reset() {
	c.indexToKey = make(map[int]K)
	c.keyIndex = make(map[K]map[int]struct{})
	c.matches = make(map[Tuple4]struct{})
	c.entityToMatches = make(map[int]map[Tuple4]struct{})
}

func (c *QuadConstraint[S, A, K]) Initialize(solution *S) Score {
	c.Reset()
	total := c.zero()
	entities := c.extractor(solution)
	for i := range entities {
		total = total.Add(c.insertEntity(solution, entities, i))
	}
	return total
}

func (c *QuadConstraint[S, A, K]) Evaluate(solution *S) Score {
	total := c.zero()
	entities := c.extractor(solution)
	n := len(entities)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				for l := k + 1; l < n; l++ {
					if c.filter(solution, &entities[i], &entities[j], &entities[k], &entities[l]) {
						total = total.Add(c.impact.apply(c.weight(&entities[i], &entities[j], &entities[k], &entities[l])))
					}
				}
			}
		}
	}
	return total
}

func (c *QuadConstraint[S, A, K]) OnInsert(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	entities := c.extractor(solution)
	if entityIndex < 0 || entityIndex >= len(entities) {
		return c.zero()
	}
	return c.insertEntity(solution, entities, entityIndex)
}

func (c *QuadConstraint[S, A, K]) insertEntity(solution *S, entities []A, index int) Score {
	key := c.keyExtractor(&entities[index])
	c.indexToKey[index] = key
	if c.keyIndex[key] == nil {
		c.keyIndex[key] = make(map[int]struct{})
	}
	c.keyIndex[key][index] = struct{}{}

	total := c.zero()
	for _, combo := range combinationsExcluding(c.keyIndex[key], index, 3) {
		ordered := sortedWith(combo, index)
		tuple := Tuple4{ordered[0], ordered[1], ordered[2], ordered[3]}
		if _, exists := c.matches[tuple]; exists {
			continue
		}
		a, b, cc, d := &entities[tuple[0]], &entities[tuple[1]], &entities[tuple[2]], &entities[tuple[3]]
		if !c.filter(solution, a, b, cc, d) {
			continue
		}
		c.matches[tuple] = struct{}{}
		c.addBackLinks(tuple)
		total = total.Add(c.impact.apply(c.weight(a, b, cc, d)))
	}
	return total
}

func (c *QuadConstraint[S, A, K]) OnRetract(solution *S, entityIndex, descriptorIndex int) Score {
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
		if inBounds4(tuple, len(entities)) {
			total = total.Add(c.impact.apply(c.weight(
				&entities[tuple[0]], &entities[tuple[1]], &entities[tuple[2]], &entities[tuple[3]])).Negate())
		}
	}
	return total
}

func (c *QuadConstraint[S, A, K]) addBackLinks(tuple Tuple4) {
	for _, idx := range tuple {
		if c.entityToMatches[idx] == nil {
			c.entityToMatches[idx] = make(map[Tuple4]struct{})
		}
		c.entityToMatches[idx][tuple] = struct{}{}
	}
}

func (c *QuadConstraint[S, A, K]) removeBackLinks(tuple Tuple4) {
	for _, idx := range tuple {
		bucket := c.entityToMatches[idx]
		delete(bucket, tuple)
		if len(bucket) == 0 {
			delete(c.entityToMatches, idx)
		}
	}
}

func inBounds4(t Tuple4, n int) bool {
	for _, idx := range t {
		if idx < 0 || idx >= n {
			return false
		}
	}
	return true
}

// MatchCount exposes the current match-set size for tests.
func (c *QuadConstraint[S, A, K]) MatchCount() int { return len(c.matches) }
