package vek

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonFinite(t *testing.T) {
	cases := []struct {
		name string
		x, y float64
	}{
		{"nan x", math.NaN(), 0},
		{"nan y", 0, math.NaN()},
		{"pos inf x", math.Inf(1), 0},
		{"neg inf x", math.Inf(-1), 0},
		{"pos inf y", 0, math.Inf(1)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.x, c.y)
			require.ErrorIs(t, err, ErrNotFinite)
		})
	}

	v, err := New(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.X)
	assert.Equal(t, 4.0, v.Y)
}

func TestNewAcceptsSignedZero(t *testing.T) {
	v, err := New(math.Copysign(0, -1), 0)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestFromPolarSkipsGate(t *testing.T) {
	v := FromPolar(math.Inf(1), 0)
	assert.True(t, math.IsInf(v.X, 1))
}

func TestPolarRoundTrip(t *testing.T) {
	vectors := []Vector2{
		{3, 4},
		{-2.5, 7},
		{0.001, -0.001},
		{1e9, -1e9},
	}

	for _, v := range vectors {
		r, theta := v.ToPolar()
		back := FromPolar(r, theta)
		assert.InDelta(t, v.X, back.X, 1e-9*math.Abs(v.X)+1e-12)
		assert.InDelta(t, v.Y, back.Y, 1e-9*math.Abs(v.Y)+1e-12)
	}
}

func TestNormalizedIsTotal(t *testing.T) {
	zero := Vector2{}
	assert.Equal(t, Vector2{X: 1, Y: 0}, zero.Normalized())

	for _, v := range []Vector2{{3, 4}, {-1, 2}, {0, -5}, {1e-8, 1e-8}} {
		assert.InDelta(t, 1.0, v.Normalized().Length(), 1e-12)
	}
}

func TestDotLengthConsistency(t *testing.T) {
	for _, v := range []Vector2{{}, {3, 4}, {-2, 0.5}, {1e3, -1e3}} {
		assert.Equal(t, v.LengthSquared(), v.Dot(v))
	}
	assert.Equal(t, 25.0, Vector2{3, 4}.LengthSquared())
	assert.Equal(t, 5.0, Vector2{3, 4}.Length())
}

func TestAngle(t *testing.T) {
	assert.Equal(t, 0.0, Vector2{}.Angle())
	assert.Equal(t, 0.0, Vector2{X: 1}.Angle())
	assert.InDelta(t, math.Pi/2, Vector2{Y: 1}.Angle(), 1e-12)
	assert.InDelta(t, math.Pi, Vector2{X: -1}.Angle(), 1e-12)
}

func TestAddAndScale(t *testing.T) {
	sum := Vector2{1, 2}.Add(Vector2{3, 4})
	assert.Equal(t, Vector2{4, 6}, sum)

	scaled := Vector2{1, 2}.Scale(2)
	assert.Equal(t, Vector2{2, 4}, scaled)

	// The scalar is not validated, the product may go non-finite.
	blown := Vector2{1, 2}.Scale(math.Inf(1))
	assert.True(t, math.IsInf(blown.X, 1))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Vec2(3, 4)", Vector2{3, 4}.String())
	assert.Equal(t, "Vec2(3.5, -0.25)", Vector2{3.5, -0.25}.String())
}
