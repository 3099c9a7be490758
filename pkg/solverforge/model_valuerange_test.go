package solverforge

import "testing"

func TestListValueRange(t *testing.T) {
	r := NewListValueRange([]string{"a", "b", "c"})
	if r.Size() != 3 {
		t.Fatalf("expected size 3, got %d", r.Size())
	}
	if r.Value(1) != "b" {
		t.Fatalf("expected b, got %v", r.Value(1))
	}
}

func TestIntRangeValueRange(t *testing.T) {
	r := NewIntRangeValueRange(5, 9)
	if r.Size() != 4 {
		t.Fatalf("expected size 4, got %d", r.Size())
	}
	if r.Value(0) != 5 || r.Value(3) != 8 {
		t.Fatalf("unexpected values: %d %d", r.Value(0), r.Value(3))
	}
}

func TestIndexedValueRange(t *testing.T) {
	backing := []int{10, 20, 30}
	r := NewIndexedValueRange(func() int { return len(backing) }, func(i int) int { return backing[i] })
	if r.Size() != 3 {
		t.Fatalf("expected size 3, got %d", r.Size())
	}
	if r.Value(2) != 30 {
		t.Fatalf("expected 30, got %d", r.Value(2))
	}
}
