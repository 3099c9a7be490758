package solverforge

// ValueRange is the domain of a planning variable (spec.md §3): an explicit
// list, an integer half-open range, or an index into some other collection
// (entity-reference or fact-reference ranges — modeled the same way here,
// since from the engine's point of view both are just "index into a slice
// the caller owns"; the distinction between entity-reference and
// fact-reference is a naming convention in the caller's model, not a
// behavioral one). Enumeration is on demand via Value(i); nothing is
// materialized until a selector actually asks for it.
type ValueRange[V any] interface {
	// Size returns the number of values in the range. For an integer
	// range [from, to) this is to-from; for an explicit list or an
	// indexed collection it's len(collection).
	Size() int

	// Value returns the i-th value, 0 <= i < Size().
	Value(i int) V
}

// ListValueRange is an explicit enumeration of values.
type ListValueRange[V any] struct {
	Values []V
}

func (r ListValueRange[V]) Size() int     { return len(r.Values) }
func (r ListValueRange[V]) Value(i int) V { return r.Values[i] }

// NewListValueRange builds a ValueRange over an explicit slice of values.
func NewListValueRange[V any](values []V) ValueRange[V] {
	return ListValueRange[V]{Values: values}
}

// IntRangeValueRange is a half-open integer range [From, To).
type IntRangeValueRange struct {
	From, To int
}

func (r IntRangeValueRange) Size() int { return r.To - r.From }
func (r IntRangeValueRange) Value(i int) int { return r.From + i }

// NewIntRangeValueRange builds a half-open [from, to) integer ValueRange.
func NewIntRangeValueRange(from, to int) ValueRange[int] {
	return IntRangeValueRange{From: from, To: to}
}

// IndexedValueRange projects another collection (entities or read-only
// facts) into a ValueRange of indices, via a count function and a mapping
// from index to value. This is the shape both "entity-reference range" and
// "fact-reference range" take (spec.md §3); which one a given
// IndexedValueRange represents is a naming choice made by the caller.
type IndexedValueRange[V any] struct {
	Count func() int
	At    func(i int) V
}

func (r IndexedValueRange[V]) Size() int     { return r.Count() }
func (r IndexedValueRange[V]) Value(i int) V { return r.At(i) }

// NewIndexedValueRange builds a ValueRange that enumerates another
// collection on demand.
func NewIndexedValueRange[V any](count func() int, at func(i int) V) ValueRange[V] {
	return IndexedValueRange[V]{Count: count, At: at}
}
