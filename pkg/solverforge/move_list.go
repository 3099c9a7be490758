package solverforge

import "fmt"

func removeAt[V any](list []V, i int) (V, []V) {
	elem := list[i]
	rest := make([]V, 0, len(list)-1)
	rest = append(rest, list[:i]...)
	rest = append(rest, list[i+1:]...)
	return elem, rest
}

func insertAt[V any](list []V, i int, elem V) []V {
	out := make([]V, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, elem)
	out = append(out, list[i:]...)
	return out
}

func removeRange[V any](list []V, start, length int) ([]V, []V) {
	sub := copyList(list[start : start+length])
	rest := make([]V, 0, len(list)-length)
	rest = append(rest, list[:start]...)
	rest = append(rest, list[start+length:]...)
	return sub, rest
}

func insertRange[V any](list []V, index int, sub []V) []V {
	out := make([]V, 0, len(list)+len(sub))
	out = append(out, list[:index]...)
	out = append(out, sub...)
	out = append(out, list[index:]...)
	return out
}

func reversed[V any](list []V) []V {
	out := make([]V, len(list))
	for i, v := range list {
		out[len(list)-1-i] = v
	}
	return out
}

// ListChangeMove moves a single element of a list-typed planning variable
// from one position to another, possibly between two different entities
// (spec.md §4.G). DestIndex is expressed in terms of the list with the
// element already removed (the common "move to position" convention) —
// for a same-entity move, indices at or after SourceIndex in the original
// list shift down by one before DestIndex is applied.
type ListChangeMove[S, A, V any] struct {
	Descriptor   *ListEntityDescriptor[S, A, V]
	SourceEntity int
	SourceIndex  int
	DestEntity   int
	DestIndex    int
}

func NewListChangeMove[S, A, V any](descriptor *ListEntityDescriptor[S, A, V], sourceEntity, sourceIndex, destEntity, destIndex int) *ListChangeMove[S, A, V] {
	return &ListChangeMove[S, A, V]{Descriptor: descriptor, SourceEntity: sourceEntity, SourceIndex: sourceIndex, DestEntity: destEntity, DestIndex: destIndex}
}

func (m *ListChangeMove[S, A, V]) IsApplicable(solution *S) bool {
	count := m.Descriptor.EntityCount(solution)
	if m.SourceEntity < 0 || m.SourceEntity >= count || m.DestEntity < 0 || m.DestEntity >= count {
		return false
	}
	srcList := m.Descriptor.GetList(solution, m.SourceEntity)
	if m.SourceIndex < 0 || m.SourceIndex >= len(srcList) {
		return false
	}
	if m.SourceEntity == m.DestEntity {
		return m.DestIndex >= 0 && m.DestIndex < len(srcList)
	}
	dstList := m.Descriptor.GetList(solution, m.DestEntity)
	return m.DestIndex >= 0 && m.DestIndex <= len(dstList)
}

func (m *ListChangeMove[S, A, V]) Do(director Director[S]) {
	d := m.Descriptor
	solution := director.WorkingSolution()

	if m.SourceEntity == m.DestEntity {
		director.BeforeVariableChanged(d.DescriptorIndex, m.SourceEntity, d.VariableName)
		original := copyList(d.GetList(solution, m.SourceEntity))
		elem, rest := removeAt(original, m.SourceIndex)
		mutated := insertAt(rest, m.DestIndex, elem)
		d.SetList(director.WorkingSolution(), m.SourceEntity, mutated)
		director.AfterVariableChanged(d.DescriptorIndex, m.SourceEntity, d.VariableName)

		entity := m.SourceEntity
		director.RegisterUndo(func() {
			director.BeforeVariableChanged(d.DescriptorIndex, entity, d.VariableName)
			d.SetList(director.WorkingSolution(), entity, original)
			director.AfterVariableChanged(d.DescriptorIndex, entity, d.VariableName)
		})
		return
	}

	director.BeforeVariableChanged(d.DescriptorIndex, m.SourceEntity, d.VariableName)
	srcOriginal := copyList(d.GetList(solution, m.SourceEntity))
	elem, srcRest := removeAt(srcOriginal, m.SourceIndex)
	d.SetList(director.WorkingSolution(), m.SourceEntity, srcRest)
	director.AfterVariableChanged(d.DescriptorIndex, m.SourceEntity, d.VariableName)

	director.BeforeVariableChanged(d.DescriptorIndex, m.DestEntity, d.VariableName)
	dstOriginal := copyList(d.GetList(director.WorkingSolution(), m.DestEntity))
	dstNew := insertAt(dstOriginal, m.DestIndex, elem)
	d.SetList(director.WorkingSolution(), m.DestEntity, dstNew)
	director.AfterVariableChanged(d.DescriptorIndex, m.DestEntity, d.VariableName)

	srcEntity, dstEntity := m.SourceEntity, m.DestEntity
	director.RegisterUndo(func() {
		director.BeforeVariableChanged(d.DescriptorIndex, dstEntity, d.VariableName)
		d.SetList(director.WorkingSolution(), dstEntity, dstOriginal)
		director.AfterVariableChanged(d.DescriptorIndex, dstEntity, d.VariableName)

		director.BeforeVariableChanged(d.DescriptorIndex, srcEntity, d.VariableName)
		d.SetList(director.WorkingSolution(), srcEntity, srcOriginal)
		director.AfterVariableChanged(d.DescriptorIndex, srcEntity, d.VariableName)
	})
}

func (m *ListChangeMove[S, A, V]) String() string {
	return fmt.Sprintf("listChange(%s[%d][%d] -> %s[%d][%d])",
		m.Descriptor.VariableName, m.SourceEntity, m.SourceIndex,
		m.Descriptor.VariableName, m.DestEntity, m.DestIndex)
}

// SublistChangeMove moves a contiguous run of Length elements starting at
// SourceStart, optionally reversing the run in transit (which subsumes the
// classic within-list 2-opt segment reversal when SourceEntity==DestEntity
// and the destination coincides with the source). DestIndex is expressed
// against the list with the run already removed, the same convention as
// ListChangeMove.
type SublistChangeMove[S, A, V any] struct {
	Descriptor   *ListEntityDescriptor[S, A, V]
	SourceEntity int
	SourceStart  int
	Length       int
	DestEntity   int
	DestIndex    int
	Reversed     bool
}

func NewSublistChangeMove[S, A, V any](descriptor *ListEntityDescriptor[S, A, V], sourceEntity, sourceStart, length, destEntity, destIndex int, reversedFlag bool) *SublistChangeMove[S, A, V] {
	return &SublistChangeMove[S, A, V]{
		Descriptor: descriptor, SourceEntity: sourceEntity, SourceStart: sourceStart, Length: length,
		DestEntity: destEntity, DestIndex: destIndex, Reversed: reversedFlag,
	}
}

func (m *SublistChangeMove[S, A, V]) IsApplicable(solution *S) bool {
	count := m.Descriptor.EntityCount(solution)
	if m.Length <= 0 || m.SourceEntity < 0 || m.SourceEntity >= count || m.DestEntity < 0 || m.DestEntity >= count {
		return false
	}
	srcList := m.Descriptor.GetList(solution, m.SourceEntity)
	if m.SourceStart < 0 || m.SourceStart+m.Length > len(srcList) {
		return false
	}
	if m.SourceEntity == m.DestEntity {
		return m.DestIndex >= 0 && m.DestIndex <= len(srcList)-m.Length
	}
	dstList := m.Descriptor.GetList(solution, m.DestEntity)
	return m.DestIndex >= 0 && m.DestIndex <= len(dstList)
}

func (m *SublistChangeMove[S, A, V]) Do(director Director[S]) {
	d := m.Descriptor
	solution := director.WorkingSolution()

	if m.SourceEntity == m.DestEntity {
		director.BeforeVariableChanged(d.DescriptorIndex, m.SourceEntity, d.VariableName)
		original := copyList(d.GetList(solution, m.SourceEntity))
		sub, rest := removeRange(original, m.SourceStart, m.Length)
		if m.Reversed {
			sub = reversed(sub)
		}
		mutated := insertRange(rest, m.DestIndex, sub)
		d.SetList(director.WorkingSolution(), m.SourceEntity, mutated)
		director.AfterVariableChanged(d.DescriptorIndex, m.SourceEntity, d.VariableName)

		entity := m.SourceEntity
		director.RegisterUndo(func() {
			director.BeforeVariableChanged(d.DescriptorIndex, entity, d.VariableName)
			d.SetList(director.WorkingSolution(), entity, original)
			director.AfterVariableChanged(d.DescriptorIndex, entity, d.VariableName)
		})
		return
	}

	director.BeforeVariableChanged(d.DescriptorIndex, m.SourceEntity, d.VariableName)
	srcOriginal := copyList(d.GetList(solution, m.SourceEntity))
	sub, srcRest := removeRange(srcOriginal, m.SourceStart, m.Length)
	if m.Reversed {
		sub = reversed(sub)
	}
	d.SetList(director.WorkingSolution(), m.SourceEntity, srcRest)
	director.AfterVariableChanged(d.DescriptorIndex, m.SourceEntity, d.VariableName)

	director.BeforeVariableChanged(d.DescriptorIndex, m.DestEntity, d.VariableName)
	dstOriginal := copyList(d.GetList(director.WorkingSolution(), m.DestEntity))
	dstNew := insertRange(dstOriginal, m.DestIndex, sub)
	d.SetList(director.WorkingSolution(), m.DestEntity, dstNew)
	director.AfterVariableChanged(d.DescriptorIndex, m.DestEntity, d.VariableName)

	srcEntity, dstEntity := m.SourceEntity, m.DestEntity
	director.RegisterUndo(func() {
		director.BeforeVariableChanged(d.DescriptorIndex, dstEntity, d.VariableName)
		d.SetList(director.WorkingSolution(), dstEntity, dstOriginal)
		director.AfterVariableChanged(d.DescriptorIndex, dstEntity, d.VariableName)

		director.BeforeVariableChanged(d.DescriptorIndex, srcEntity, d.VariableName)
		d.SetList(director.WorkingSolution(), srcEntity, srcOriginal)
		director.AfterVariableChanged(d.DescriptorIndex, srcEntity, d.VariableName)
	})
}

func (m *SublistChangeMove[S, A, V]) String() string {
	return fmt.Sprintf("sublistChange(%s[%d][%d:%d] -> %s[%d][%d], reversed=%v)",
		m.Descriptor.VariableName, m.SourceEntity, m.SourceStart, m.SourceStart+m.Length,
		m.Descriptor.VariableName, m.DestEntity, m.DestIndex, m.Reversed)
}
