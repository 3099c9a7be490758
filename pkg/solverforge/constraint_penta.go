package solverforge

// PentaConstraint is the arity-5 self-join kernel (spec.md §4.C), the top
// of the 1-5 arity range: every 4-combination of other entities sharing an
// inserted entity's join key is combined with it into a candidate
// 5-tuple, canonicalized ascending. It is implemented as its own concrete
// type, the same as the other arities — not a variadic generalization —
// per spec.md §9's "the original source is carefully monomorphized".
type PentaConstraint[S, A any, K comparable] struct {
	name         string
	impact       ImpactType
	isHard       bool
	descriptor   int
	extractor    func(solution *S) []A
	keyExtractor func(a *A) K
	filter       func(solution *S, a, b, c, d, e *A) bool
	weight       func(a, b, c, d, e *A) Score
	zero         ScoreFactory

	indexToKey      map[int]K
	keyIndex        map[K]map[int]struct{}
	matches         map[Tuple5]struct{}
	entityToMatches map[int]map[Tuple5]struct{}
}

// NewPentaConstraint builds a self-join arity-5 kernel.
func NewPentaConstraint[S, A any, K comparable](
	name string,
	impact ImpactType,
	isHard bool,
	descriptorIndex int,
	extractor func(solution *S) []A,
	keyExtractor func(a *A) K,
	filter func(solution *S, a, b, c, d, e *A) bool,
	weight func(a, b, c, d, e *A) Score,
	zero ScoreFactory,
) *PentaConstraint[S, A, K] {
	c := &PentaConstraint[S, A, K]{
		name: name, impact: impact, isHard: isHard, descriptor: descriptorIndex,
		extractor: extractor, keyExtractor: keyExtractor, filter: filter, weight: weight, zero: zero,
	}
	c.Reset()
	return c
}

func (c *PentaConstraint[S, A, K]) Name() string { return c.name }
func (c *PentaConstraint[S, A, K]) IsHard() bool { return c.isHard }

func (c *PentaConstraint[S, A, K]) Reset() {
	c.indexToKey = make(map[int]K)
	c.keyIndex = make(map[K]map[int]struct{})
	c.matches = make(map[Tuple5]struct{})
	c.entityToMatches = make(map[int]map[Tuple5]struct{})
}

func (c *PentaConstraint[S, A, K]) Initialize(solution *S) Score {
	c.Reset()
	total := c.zero()
	entities := c.extractor(solution)
	for i := range entities {
		total = total.Add(c.insertEntity(solution, entities, i))
	}
	return total
}

func (c *PentaConstraint[S, A, K]) Evaluate(solution *S) Score {
	total := c.zero()
	entities := c.extractor(solution)
	n := len(entities)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				for l := k + 1; l < n; l++ {
					for m := l + 1; m < n; m++ {
						if c.filter(solution, &entities[i], &entities[j], &entities[k], &entities[l], &entities[m]) {
							total = total.Add(c.impact.apply(c.weight(&entities[i], &entities[j], &entities[k], &entities[l], &entities[m])))
						}
					}
				}
			}
		}
	}
	return total
}

func (c *PentaConstraint[S, A, K]) OnInsert(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	entities := c.extractor(solution)
	if entityIndex < 0 || entityIndex >= len(entities) {
		return c.zero()
	}
	return c.insertEntity(solution, entities, entityIndex)
}

func (c *PentaConstraint[S, A, K]) insertEntity(solution *S, entities []A, index int) Score {
	key := c.keyExtractor(&entities[index])
	c.indexToKey[index] = key
	if c.keyIndex[key] == nil {
		c.keyIndex[key] = make(map[int]struct{})
	}
	c.keyIndex[key][index] = struct{}{}

	total := c.zero()
	for _, combo := range combinationsExcluding(c.keyIndex[key], index, 4) {
		ordered := sortedWith(combo, index)
		tuple := Tuple5{ordered[0], ordered[1], ordered[2], ordered[3], ordered[4]}
		if _, exists := c.matches[tuple]; exists {
			continue
		}
		a, b, cc, d, e := &entities[tuple[0]], &entities[tuple[1]], &entities[tuple[2]], &entities[tuple[3]], &entities[tuple[4]]
		if !c.filter(solution, a, b, cc, d, e) {
			continue
		}
		c.matches[tuple] = struct{}{}
		c.addBackLinks(tuple)
		total = total.Add(c.impact.apply(c.weight(a, b, cc, d, e)))
	}
	return total
}

func (c *PentaConstraint[S, A, K]) OnRetract(solution *S, entityIndex, descriptorIndex int) Score {
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
		if inBounds5(tuple, len(entities)) {
			total = total.Add(c.impact.apply(c.weight(
				&entities[tuple[0]], &entities[tuple[1]], &entities[tuple[2]], &entities[tuple[3]], &entities[tuple[4]])).Negate())
		}
	}
	return total
}

func (c *PentaConstraint[S, A, K]) addBackLinks(tuple Tuple5) {
	for _, idx := range tuple {
		if c.entityToMatches[idx] == nil {
			c.entityToMatches[idx] = make(map[Tuple5]struct{})
		}
		c.entityToMatches[idx][tuple] = struct{}{}
	}
}

func (c *PentaConstraint[S, A, K]) removeBackLinks(tuple Tuple5) {
	for _, idx := range tuple {
		bucket := c.entityToMatches[idx]
		delete(bucket, tuple)
		if len(bucket) == 0 {
			delete(c.entityToMatches, idx)
		}
	}
}

func inBounds5(t Tuple5, n int) bool {
	for _, idx := range t {
		if idx < 0 || idx >= n {
			return false
		}
	}
	return true
}

// MatchCount exposes the current match-set size for tests.
func (c *PentaConstraint[S, A, K]) MatchCount() int { return len(c.matches) }
