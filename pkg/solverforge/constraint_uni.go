package solverforge

// UniConstraint is the arity-1 kernel: it penalizes or rewards individual
// entities that pass a filter, independent of any join. There is no key
// index at this arity (spec.md §4.C describes keys as a join-pruning
// device; with nothing to join against they would do no work), so
// UniConstraint keeps only a match set of entity indices.
//
// S is the solution type, A the entity type.
type UniConstraint[S, A any] struct {
	name       string
	impact     ImpactType
	isHard     bool
	descriptor int
	extractor  func(solution *S) []A
	filter     func(solution *S, a *A) bool
	weight     func(a *A) Score
	zero       ScoreFactory

	matches map[int]struct{}
}

// NewUniConstraint builds a uni-arity kernel. descriptorIndex is the
// EntityDescriptor index whose notifications this kernel reacts to;
// notifications for any other descriptor index are ignored in O(1).
func NewUniConstraint[S, A any](
	name string,
	impact ImpactType,
	isHard bool,
	descriptorIndex int,
	extractor func(solution *S) []A,
	filter func(solution *S, a *A) bool,
	weight func(a *A) Score,
	zero ScoreFactory,
) *UniConstraint[S, A] {
	return &UniConstraint[S, A]{
		name:       name,
		impact:     impact,
		isHard:     isHard,
		descriptor: descriptorIndex,
		extractor:  extractor,
		filter:     filter,
		weight:     weight,
		zero:       zero,
		matches:    make(map[int]struct{}),
	}
}

func (c *UniConstraint[S, A]) Name() string { return c.name }
func (c *UniConstraint[S, A]) IsHard() bool { return c.isHard }

func (c *UniConstraint[S, A]) Reset() {
	c.matches = make(map[int]struct{})
}

func (c *UniConstraint[S, A]) Initialize(solution *S) Score {
	c.Reset()
	total := c.zero()
	entities := c.extractor(solution)
	for i := range entities {
		total = total.Add(c.insertEntity(solution, entities, i))
	}
	return total
}

func (c *UniConstraint[S, A]) Evaluate(solution *S) Score {
	total := c.zero()
	entities := c.extractor(solution)
	for i := range entities {
		if c.filter(solution, &entities[i]) {
			total = total.Add(c.impact.apply(c.weight(&entities[i])))
		}
	}
	return total
}

func (c *UniConstraint[S, A]) OnInsert(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	entities := c.extractor(solution)
	if entityIndex < 0 || entityIndex >= len(entities) {
		return c.zero()
	}
	return c.insertEntity(solution, entities, entityIndex)
}

func (c *UniConstraint[S, A]) OnRetract(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	if _, ok := c.matches[entityIndex]; !ok {
		return c.zero()
	}
	entities := c.extractor(solution)
	delete(c.matches, entityIndex)
	if entityIndex < 0 || entityIndex >= len(entities) {
		return c.zero()
	}
	delta := c.impact.apply(c.weight(&entities[entityIndex]))
	return delta.Negate()
}

func (c *UniConstraint[S, A]) insertEntity(solution *S, entities []A, index int) Score {
	if !c.filter(solution, &entities[index]) {
		return c.zero()
	}
	c.matches[index] = struct{}{}
	return c.impact.apply(c.weight(&entities[index]))
}
