package solverforge

import "math"

// BalanceConstraint maintains one global statistic — the population
// standard deviation of per-key counts across groups — and scores it as
// `impact * baseScore * stddev` (spec.md §4.C "Balance kernel", scenario 5
// in spec.md §8). sumCounts/sumCountsSquared/groupCount make recomputing
// the std-dev an O(1) operation after every insert/retract; only groups
// that currently have at least one member are counted (a key whose count
// drops to zero stops contributing to groupCount).
type BalanceConstraint[S, A any, K comparable] struct {
	name       string
	impact     ImpactType
	isHard     bool
	descriptor int
	extractor  func(solution *S) []A
	groupKey   func(a *A) K
	baseScore  Score
	zero       ScoreFactory

	indexToKey      map[int]K
	counts          map[K]int
	sumCounts       int64
	sumCountsSquare int64
	groupCount      int
	current         Score
}

// NewBalanceConstraint builds a balance kernel. baseScore is the per-unit
// score multiplied by the standard deviation; it is typically a pure-soft
// (or pure-hard) score of magnitude 1 in the level being balanced.
func NewBalanceConstraint[S, A any, K comparable](
	name string,
	impact ImpactType,
	isHard bool,
	descriptorIndex int,
	extractor func(solution *S) []A,
	groupKey func(a *A) K,
	baseScore Score,
	zero ScoreFactory,
) *BalanceConstraint[S, A, K] {
	c := &BalanceConstraint[S, A, K]{
		name: name, impact: impact, isHard: isHard, descriptor: descriptorIndex,
		extractor: extractor, groupKey: groupKey, baseScore: baseScore, zero: zero,
	}
	c.Reset()
	return c
}

func (c *BalanceConstraint[S, A, K]) Name() string { return c.name }
func (c *BalanceConstraint[S, A, K]) IsHard() bool { return c.isHard }

func (c *BalanceConstraint[S, A, K]) Reset() {
	c.indexToKey = make(map[int]K)
	c.counts = make(map[K]int)
	c.sumCounts = 0
	c.sumCountsSquare = 0
	c.groupCount = 0
	c.current = c.zero()
}

func (c *BalanceConstraint[S, A, K]) Initialize(solution *S) Score {
	c.Reset()
	entities := c.extractor(solution)
	for i := range entities {
		c.insertEntity(entities, i)
	}
	return c.current
}

func (c *BalanceConstraint[S, A, K]) Evaluate(solution *S) Score {
	entities := c.extractor(solution)
	counts := make(map[K]int)
	for i := range entities {
		counts[c.groupKey(&entities[i])]++
	}
	var sum, sumSq int64
	for _, n := range counts {
		sum += int64(n)
		sumSq += int64(n) * int64(n)
	}
	return c.impact.apply(c.stddevScore(sum, sumSq, len(counts)))
}

func (c *BalanceConstraint[S, A, K]) OnInsert(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	entities := c.extractor(solution)
	if entityIndex < 0 || entityIndex >= len(entities) {
		return c.zero()
	}
	return c.insertEntity(entities, entityIndex)
}

func (c *BalanceConstraint[S, A, K]) insertEntity(entities []A, index int) Score {
	key := c.groupKey(&entities[index])
	c.indexToKey[index] = key

	oldCount := c.counts[key]
	if oldCount == 0 {
		c.groupCount++
	}
	newCount := oldCount + 1
	c.counts[key] = newCount
	c.sumCounts += 1
	c.sumCountsSquare += int64(newCount*newCount - oldCount*oldCount)

	return c.recompute()
}

func (c *BalanceConstraint[S, A, K]) OnRetract(solution *S, entityIndex, descriptorIndex int) Score {
	if descriptorIndex != c.descriptor {
		return c.zero()
	}
	key, ok := c.indexToKey[entityIndex]
	if !ok {
		return c.zero()
	}
	delete(c.indexToKey, entityIndex)

	oldCount := c.counts[key]
	newCount := oldCount - 1
	c.sumCounts -= 1
	c.sumCountsSquare += int64(newCount*newCount - oldCount*oldCount)
	if newCount <= 0 {
		delete(c.counts, key)
		c.groupCount--
	} else {
		c.counts[key] = newCount
	}

	return c.recompute()
}

func (c *BalanceConstraint[S, A, K]) recompute() Score {
	next := c.impact.apply(c.stddevScore(c.sumCounts, c.sumCountsSquare, c.groupCount))
	delta := next.Add(c.current.Negate())
	c.current = next
	return delta
}

func (c *BalanceConstraint[S, A, K]) stddevScore(sum, sumSq int64, groupCount int) Score {
	if groupCount == 0 {
		return c.zero()
	}
	n := float64(groupCount)
	mean := float64(sum) / n
	variance := float64(sumSq)/n - mean*mean
	if variance < 0 {
		variance = 0 // floating-point guard; exact arithmetic never goes negative
	}
	return c.baseScore.MultiplyBy(math.Sqrt(variance))
}

// StdDev returns the current population standard deviation, for tests and
// statistics reporting.
func (c *BalanceConstraint[S, A, K]) StdDev() float64 {
	if c.groupCount == 0 {
		return 0
	}
	n := float64(c.groupCount)
	mean := float64(c.sumCounts) / n
	variance := float64(c.sumCountsSquare)/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
