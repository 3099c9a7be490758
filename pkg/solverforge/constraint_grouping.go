package solverforge

// GroupAccumulator folds entity values into a per-group running aggregate
// (count, sum, min/max, or a caller-defined combination) and turns the
// current aggregate into the group's score contribution. Implementations
// must be pure: Add/Remove return a new accumulator value rather than
// mutating in place, since the grouping kernel itself owns persistence.
type GroupAccumulator[V any] interface {
	Add(value V) GroupAccumulator[V]
	Remove(value V) GroupAccumulator[V]
	Score() Score
}

// GroupingConstraint groups entities of A by a key function into per-group
// accumulators (spec.md §4.C "Grouping kernel"). On insert, the affected
// group's accumulator updates and the kernel charges the delta between the
// group's old and new score contribution; retract is symmetric.
//
// Per spec.md §4.C: "Do not cache the value used during insert by
// recomputing at retract time — entities may mutate between insert and
// retract; the kernel therefore stores the extracted value at insert time
// and reuses it at retract." indexToValue below is exactly that cache.
type GroupingConstraint[S, A any, K comparable, V any] struct {
	name       string
	impact     ImpactType
	isHard     bool
	descriptor int
	extractor  func(solution *S) []A
	groupKey   func(a *A) K
	value      func(a *A) V
	newAcc     func() GroupAccumulator[V]
	zero       ScoreFactory

	groups       map[K]GroupAccumulator[V]
	indexToKey   map[int]K
	indexToValue map[int]V
}

// NewGroupingConstraint builds a grouping kernel. newAcc must return a
// fresh, empty accumulator (GroupAccumulator.Score() == zero) each time it
// is called.
func NewGroupingConstraint[S, A any, K comparable, V any](
	name string,
	impact ImpactType,
	isHard bool,
	descriptorIndex int,
	extractor func(solution *S) []A,
	groupKey func(a *A) K,
	value func(a *A) V,
	newAcc func() GroupAccumulator[V],
	zero ScoreFactory,
) *GroupingConstraint[S, A, K, V] {
	c := &GroupingConstraint[S, A, K, V]{
		name: name, impact: impact, isHard: isHard, descriptor: descriptorIndex,
		extractor: extractor, groupKey: groupKey, value: value, newAcc: newAcc, zero: zero,
	}
	c.Reset()
	return c
}

func (c *GroupingConstraint[S, A, K, V]) Name() string { return c.name }
func (c *GroupingConstraint[S, A, K, V]) IsHard() bool { return c.isHard }

func (c *GroupingConstraint[S, A, K, V]) Reset() {
	c.groups = make(map[K]GroupAccumulator[V])
	c.indexToKey = make(map[int]K)
	c.indexToValue = make(map[int]V)
}

func (c *GroupingConstraint[S, A, K, V]) Initialize(solution *S) Score {
	c.Reset()
	total := c.zero()
	entities := c.extractor(solution)
	for i := range entities {
		total = total.Add(c.insertEntity(entities, i))
	}
	return total
}

func (c *GroupingConstraint[S, A, K, V]) Evaluate(solution *S) Score {
	groups := make(map[K]GroupAccumulator[V])
	entities := c.extractor(solution)
	for i := range entities {
		key := c.groupKey(&entities[i])
		acc, ok := groups[key]
		if !ok {
			acc = c.newAcc()
		}
		groups[key] = acc.Add(c.value(&entities[i]))
	}
	total := c.zero()
	for _, acc := range groups {
		total = total.Add(c.impact.apply(acc.Score()))
	}
	return total
}

func (c *GroupingConstraint[S, A, K, V]) OnInsert(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	entities := c.extractor(solution)
	if entityIndex < 0 || entityIndex >= len(entities) {
		return c.zero()
	}
	return c.insertEntity(entities, entityIndex)
}

func (c *GroupingConstraint[S, A, K, V]) insertEntity(entities []A, index int) Score {
	key := c.groupKey(&entities[index])
	val := c.value(&entities[index])
	c.indexToKey[index] = key
	c.indexToValue[index] = val

	oldAcc, existed := c.groups[key]
	oldScore := c.zero()
	if existed {
		oldScore = oldAcc.Score()
	} else {
		oldAcc = c.newAcc()
	}
	newAcc := oldAcc.Add(val)
	c.groups[key] = newAcc
	newScore := newAcc.Score()

	return c.impact.apply(newScore).Add(c.impact.apply(oldScore).Negate())
}

func (c *GroupingConstraint[S, A, K, V]) OnRetract(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	key, ok := c.indexToKey[entityIndex]
	if !ok {
		return c.zero()
	}
	val := c.indexToValue[entityIndex] // cached at insert time, not re-extracted
	delete(c.indexToKey, entityIndex)
	delete(c.indexToValue, entityIndex)

	oldAcc := c.groups[key]
	oldScore := c.zero()
	if oldAcc != nil {
		oldScore = oldAcc.Score()
	} else {
		oldAcc = c.newAcc()
	}
	newAcc := oldAcc.Remove(val)
	c.groups[key] = newAcc
	newScore := newAcc.Score()

	return c.impact.apply(newScore).Add(c.impact.apply(oldScore).Negate())
}

// GroupCount exposes the number of distinct groups seen, for tests.
func (c *GroupingConstraint[S, A, K, V]) GroupCount() int { return len(c.groups) }
