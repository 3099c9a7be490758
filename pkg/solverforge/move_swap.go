package solverforge

import "fmt"

// SwapMove exchanges the planning variable values of two entities under
// the same descriptor (spec.md §4.G). IndexA and IndexB must be distinct
// for the move to be applicable; nothing stops them sharing the same
// current value (the move is then a no-op, but still a legal one).
type SwapMove[S, A, V any] struct {
	Descriptor *EntityDescriptor[S, A, V]
	IndexA     int
	IndexB     int
}

// NewSwapMove builds a swap move.
func NewSwapMove[S, A, V any](descriptor *EntityDescriptor[S, A, V], indexA, indexB int) *SwapMove[S, A, V] {
	return &SwapMove[S, A, V]{Descriptor: descriptor, IndexA: indexA, IndexB: indexB}
}

func (m *SwapMove[S, A, V]) IsApplicable(solution *S) bool {
	count := m.Descriptor.EntityCount(solution)
	return m.IndexA != m.IndexB &&
		m.IndexA >= 0 && m.IndexA < count &&
		m.IndexB >= 0 && m.IndexB < count
}

func (m *SwapMove[S, A, V]) Do(director Director[S]) {
	d := m.Descriptor
	solution := director.WorkingSolution()
	valA, okA := d.Get(solution, m.IndexA)
	valB, okB := d.Get(solution, m.IndexB)

	director.BeforeVariableChanged(d.DescriptorIndex, m.IndexA, d.VariableName)
	d.Set(director.WorkingSolution(), m.IndexA, valB, okB)
	director.AfterVariableChanged(d.DescriptorIndex, m.IndexA, d.VariableName)

	director.BeforeVariableChanged(d.DescriptorIndex, m.IndexB, d.VariableName)
	d.Set(director.WorkingSolution(), m.IndexB, valA, okA)
	director.AfterVariableChanged(d.DescriptorIndex, m.IndexB, d.VariableName)

	indexA, indexB := m.IndexA, m.IndexB
	director.RegisterUndo(func() {
		director.BeforeVariableChanged(d.DescriptorIndex, indexB, d.VariableName)
		d.Set(director.WorkingSolution(), indexB, valB, okB)
		director.AfterVariableChanged(d.DescriptorIndex, indexB, d.VariableName)

		director.BeforeVariableChanged(d.DescriptorIndex, indexA, d.VariableName)
		d.Set(director.WorkingSolution(), indexA, valA, okA)
		director.AfterVariableChanged(d.DescriptorIndex, indexA, d.VariableName)
	})
}

func (m *SwapMove[S, A, V]) String() string {
	return fmt.Sprintf("swap(%s[%d] <-> %s[%d])", m.Descriptor.VariableName, m.IndexA, m.Descriptor.VariableName, m.IndexB)
}
