package vek

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotFinite is returned by New when a coordinate is NaN or infinite.
// The message is part of the host-facing contract and must not change.
var ErrNotFinite = errors.New("x/y values may not be NaN/inf")

// Vector2 is an immutable pair of finite cartesian coordinates.
// Every operation returns a new value; a constructed vector never
// changes. X and Y are exported for cheap reads, never for writes.
type Vector2 struct {
	X float64
	Y float64
}

// New is the single validation gate: it succeeds only if both
// coordinates are finite. Everything downstream may assume its
// operands passed through here.
func New(x, y float64) (Vector2, error) {
	if !isFinite(x) || !isFinite(y) {
		return Vector2{}, ErrNotFinite
	}
	return Vector2{X: x, Y: y}, nil
}

// FromPolar builds a cartesian vector from r (length) and theta
// (angle). cos/sin are bounded, so finite inputs always yield a finite
// vector. Non-finite inputs pass through without the New gate.
func FromPolar(r, theta float64) Vector2 {
	return Vector2{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsZero reports whether this is the zero vector. Exact comparison,
// no epsilon. Note that Len() is always 2, so emptiness checks on the
// coordinate sequence never detect the zero vector; use this instead.
func (v Vector2) IsZero() bool {
	return v.X == 0.0 && v.Y == 0.0
}

// Dot returns the inner product with other.
func (v Vector2) Dot(other Vector2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// LengthSquared returns the squared length. Minutely faster than
// Length and sufficient for comparison purposes.
func (v Vector2) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns the length of the vector.
func (v Vector2) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Angle returns the angle this vector makes to the positive x axis,
// in (-pi, pi]. The zero vector has angle 0.
func (v Vector2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// ToPolar returns a polar representation (r, theta) of this vector.
func (v Vector2) ToPolar() (r, theta float64) {
	return v.Length(), v.Angle()
}

// Normalized returns a unit-length copy of this vector. The zero
// vector has no direction, so it normalizes to the canonical unit
// vector (1, 0); callers that care should check IsZero first.
func (v Vector2) Normalized() Vector2 {
	if v.IsZero() {
		return Vector2{X: 1, Y: 0}
	}
	mag := v.Length()
	return Vector2{X: v.X / mag, Y: v.Y / mag}
}

// Add returns the component-wise sum of v and other.
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Scale returns v scaled by s. The scalar is not validated, so a
// non-finite scalar produces a non-finite result.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// String renders the single canonical form used for both debug and
// display output. Hosts know the type by its shorter external name
// "Vec2", not by the Go identifier.
func (v Vector2) String() string {
	return fmt.Sprintf("Vec2(%v, %v)", v.X, v.Y)
}
