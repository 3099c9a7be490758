package solverforge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHardSoftScore_AddNegateZero(t *testing.T) {
	a := NewHardSoftScore(3, -5)
	b := NewHardSoftScore(-1, 2)

	sum := a.Add(b).(HardSoftScore)
	assert.Equal(t, HardSoftScore{Hard: 2, Soft: -3}, sum)

	assert.True(t, a.Add(a.Negate()).IsZero())
	assert.True(t, HardSoftScoreZero().IsZero())
}

func TestHardSoftScore_Feasibility(t *testing.T) {
	assert.True(t, NewHardSoftScore(0, -100).IsFeasible())
	assert.True(t, NewHardSoftScore(1, -100).IsFeasible())
	assert.False(t, NewHardSoftScore(-1, 1000).IsFeasible())
}

func TestHardSoftScore_Compare(t *testing.T) {
	worse := NewHardSoftScore(-1, 100)
	better := NewHardSoftScore(0, -100)
	assert.Equal(t, -1, worse.Compare(better))
	assert.Equal(t, 1, better.Compare(worse))
	assert.Equal(t, 0, better.Compare(better))
}

func TestHardSoftScore_SaturatingAdd(t *testing.T) {
	near := NewHardSoftScore(int64Max-1, 0)
	sum := near.Add(NewHardSoftScore(10, 0)).(HardSoftScore)
	assert.Equal(t, int64Max, sum.Hard)

	negNear := NewHardSoftScore(int64Min+1, 0)
	sum2 := negNear.Add(NewHardSoftScore(-10, 0)).(HardSoftScore)
	assert.Equal(t, int64Min, sum2.Hard)
}

func TestHardSoftScore_MultiplyByTruncates(t *testing.T) {
	s := NewHardSoftScore(10, -7)
	scaled := s.MultiplyBy(0.5).(HardSoftScore)
	assert.Equal(t, int64(5), scaled.Hard)
	assert.Equal(t, int64(-3), scaled.Soft) // truncation toward zero, not floor
}

func TestHardSoftScore_MismatchedTypePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewHardSoftScore(1, 1).Add(NewBendableScore(1, 1, 1))
	})
}

func TestBendableScore_AddAndFeasibility(t *testing.T) {
	a := NewBendableScore(2, -1, 2, 3)
	b := NewBendableScore(2, 1, 0, -1)
	sum := a.Add(b).(BendableScore)
	assert.Equal(t, []int64{0, 2, 2}, sum.Values)
	assert.True(t, sum.IsFeasible())

	infeasible := NewBendableScore(2, -1, -1, 100)
	assert.False(t, infeasible.IsFeasible())
}

func TestDecimalScore_RoundHalfToEven(t *testing.T) {
	s := NewDecimalScore(1, 2, 201) // 2.01 at scale 2
	scaled := s.MultiplyBy(0.5).(DecimalScore)
	// 201 * 0.5 = 100.5 -> rounds to 100 (even) under round-half-to-even.
	assert.Equal(t, int64(100), scaled.Scaled[0])
}

func TestParseScore_HardSoft(t *testing.T) {
	s, err := ParseScore("0hard/0soft", 1)
	require.NoError(t, err)
	assert.Equal(t, NewHardSoftScore(0, 0), s)

	s2, err := ParseScore(" -3hard / 7soft ", 1)
	require.NoError(t, err)
	assert.Equal(t, NewHardSoftScore(-3, 7), s2)
}

func TestParseScore_Bendable(t *testing.T) {
	s, err := ParseScore("1/2/3", 1)
	require.NoError(t, err)
	assert.Equal(t, NewBendableScore(1, 1, 2, 3), s)
}

func TestParseScore_Decimal(t *testing.T) {
	s, err := ParseScore("1.50/-2.25", 1)
	require.NoError(t, err)
	ds := s.(DecimalScore)
	assert.Equal(t, 2, ds.Scale)
	assert.Equal(t, []int64{150, -225}, ds.Scaled)
}

func TestParseScore_RejectsGarbage(t *testing.T) {
	_, err := ParseScore("", 1)
	assert.Error(t, err)
	_, err = ParseScore("abc", 1)
	assert.Error(t, err)
	_, err = ParseScore("1.5/2.25", 1) // inconsistent scale
	assert.Error(t, err)
}

func TestDecimalScore_String(t *testing.T) {
	s := NewDecimalScore(1, 2, 1234, -5)
	assert.Equal(t, "12.34/-0.05", s.String())
}

func TestScore_MultiplyByZeroYieldsZero(t *testing.T) {
	// Guard documentation: MultiplyBy by 0 always yields zero regardless of scale.
	s := NewHardSoftScore(5, 5)
	z := s.MultiplyBy(0).(HardSoftScore)
	assert.True(t, z.IsZero())
	assert.False(t, math.IsNaN(float64(z.Hard)))
}
