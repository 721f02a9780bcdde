package vek

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(it *Iterator) []float64 {
	var out []float64
	for f, ok := it.Next(); ok; f, ok = it.Next() {
		out = append(out, f)
	}
	return out
}

func TestLenIsAlwaysTwo(t *testing.T) {
	assert.Equal(t, 2, Vector2{}.Len())
	assert.Equal(t, 2, Vector2{3, 4}.Len())
}

func TestIteratorYieldsXThenY(t *testing.T) {
	v := Vector2{3, 4}

	it := v.Iter()
	assert.Equal(t, []float64{3, 4}, drain(it))

	// Exhausted cursors stay exhausted.
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestIteratorsAreIndependent(t *testing.T) {
	v := Vector2{3, 4}

	first := v.Iter()
	second := v.Iter()

	f, ok := first.Next()
	require.True(t, ok)
	assert.Equal(t, 3.0, f)

	// Advancing the first cursor must not move the second.
	assert.Equal(t, []float64{3, 4}, drain(second))
	assert.Equal(t, []float64{4}, drain(first))
}

func TestValuesRange(t *testing.T) {
	var got []float64
	for f := range (Vector2{1.5, -2.5}).Values() {
		got = append(got, f)
	}
	assert.Equal(t, []float64{1.5, -2.5}, got)

	// Early break stops the sequence cleanly.
	count := 0
	for range (Vector2{1, 2}).Values() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
