package vek

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVectors(t *testing.T) {
	v := Vector2{3, 4}

	eq, err := v.RichCompare(CompareEq, Vector2{3, 4})
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = v.RichCompare(CompareEq, Vector2{3, 5})
	require.NoError(t, err)
	assert.False(t, eq)

	ne, err := v.RichCompare(CompareNe, Vector2{3, 5})
	require.NoError(t, err)
	assert.True(t, ne)
}

func TestCompareSequences(t *testing.T) {
	v := Vector2{3, 4}

	cases := []struct {
		name  string
		other any
		want  bool
	}{
		{"matching floats", []float64{3.0, 4.0}, true},
		{"too long", []float64{3.0, 4.0, 5.0}, false},
		{"too short", []float64{3.0}, false},
		{"mismatch", []float64{4.0, 3.0}, false},
		{"ints", []int{3, 4}, true},
		{"mixed any", []any{3, 4.0}, true},
		{"array", [2]float64{3, 4}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			eq, err := v.RichCompare(CompareEq, c.other)
			require.NoError(t, err)
			assert.Equal(t, c.want, eq)
		})
	}
}

func TestCompareUnsupported(t *testing.T) {
	v := Vector2{3, 4}

	_, err := v.RichCompare(CompareEq, "3,4")
	assert.ErrorIs(t, err, ErrNotImplemented)

	_, err = v.RichCompare(CompareEq, []any{"3", "4"})
	assert.ErrorIs(t, err, ErrNotImplemented)

	for _, op := range []CompareOp{CompareLt, CompareLe, CompareGt, CompareGe} {
		_, err := v.RichCompare(op, Vector2{3, 4})
		assert.ErrorIs(t, err, ErrNotImplemented)
	}
}

func TestCompareSignedZero(t *testing.T) {
	neg, err := New(-0.0, 0)
	require.NoError(t, err)

	eq, err := neg.RichCompare(CompareEq, Vector2{0, 0})
	require.NoError(t, err)
	assert.True(t, eq)
}
