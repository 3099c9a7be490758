package solverforge

import "fmt"

// ChangeMove reassigns a single entity's planning variable to a new value
// (spec.md §4.G, the simplest move kind). V must be comparable only
// insofar as String() wants to print it; no comparability is required by
// the move itself.
type ChangeMove[S, A, V any] struct {
	Descriptor *EntityDescriptor[S, A, V]
	EntityIndex int
	ToValue     V
	ToOK        bool // false unassigns the variable
}

// NewChangeMove builds a change move.
func NewChangeMove[S, A, V any](descriptor *EntityDescriptor[S, A, V], entityIndex int, toValue V, toOK bool) *ChangeMove[S, A, V] {
	return &ChangeMove[S, A, V]{Descriptor: descriptor, EntityIndex: entityIndex, ToValue: toValue, ToOK: toOK}
}

func (m *ChangeMove[S, A, V]) IsApplicable(solution *S) bool {
	return m.EntityIndex >= 0 && m.EntityIndex < m.Descriptor.EntityCount(solution)
}

func (m *ChangeMove[S, A, V]) Do(director Director[S]) {
	d := m.Descriptor
	director.BeforeVariableChanged(d.DescriptorIndex, m.EntityIndex, d.VariableName)
	solution := director.WorkingSolution()
	oldValue, oldOK := d.Get(solution, m.EntityIndex)
	d.Set(solution, m.EntityIndex, m.ToValue, m.ToOK)
	director.AfterVariableChanged(d.DescriptorIndex, m.EntityIndex, d.VariableName)

	index := m.EntityIndex
	director.RegisterUndo(func() {
		director.BeforeVariableChanged(d.DescriptorIndex, index, d.VariableName)
		d.Set(director.WorkingSolution(), index, oldValue, oldOK)
		director.AfterVariableChanged(d.DescriptorIndex, index, d.VariableName)
	})
}

func (m *ChangeMove[S, A, V]) String() string {
	return fmt.Sprintf("change(%s[%d] -> %v, ok=%v)", m.Descriptor.VariableName, m.EntityIndex, m.ToValue, m.ToOK)
}
