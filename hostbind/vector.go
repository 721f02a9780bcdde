package hostbind

import (
	"fmt"

	"vek"
)

// External names are part of the host contract: hosts address the type
// as "Vec2" inside the "vek" namespace, and must not assume it matches
// any internal identifier.
const (
	ModuleName     = "vek"
	VectorTypeName = "Vec2"
)

// NewVectorModule builds the namespace a host runtime imports. It
// contains the single vector type.
func NewVectorModule() *Module {
	m := NewModule(ModuleName)
	m.Register(VectorBinding())
	return m
}

// VectorBinding exposes vek.Vector2 to the host: two positional
// numeric constructor arguments, read-only x/y attributes, the derived
// queries as snake_case methods, and the +, *, ==, !=, len, iteration
// and repr operator slots. No setter is bound.
func VectorBinding() *TypeBinding {
	b := NewTypeBinding(VectorTypeName, newVector)

	b.Attr("x", func(recv any) (any, error) {
		v, err := vectorRecv(recv)
		if err != nil {
			return nil, err
		}
		return v.X, nil
	})
	b.Attr("y", func(recv any) (any, error) {
		v, err := vectorRecv(recv)
		if err != nil {
			return nil, err
		}
		return v.Y, nil
	})

	b.Method("is_zero", noArgs(func(v vek.Vector2) any { return v.IsZero() }))
	b.Method("length_squared", noArgs(func(v vek.Vector2) any { return v.LengthSquared() }))
	b.Method("length", noArgs(func(v vek.Vector2) any { return v.Length() }))
	b.Method("angle", noArgs(func(v vek.Vector2) any { return v.Angle() }))
	b.Method("to_polar", noArgs(func(v vek.Vector2) any {
		r, theta := v.ToPolar()
		return []float64{r, theta}
	}))
	b.Method("normalized", noArgs(func(v vek.Vector2) any { return v.Normalized() }))

	b.Method("dot", func(recv any, args ...any) (any, error) {
		v, err := vectorRecv(recv)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: dot takes exactly 1 argument", ErrBadArguments)
		}
		other, ok := args[0].(vek.Vector2)
		if !ok {
			return nil, fmt.Errorf("%w: dot operand must be a %s", ErrBadArguments, VectorTypeName)
		}
		return v.Dot(other), nil
	})

	b.Static("from_polar", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: from_polar takes exactly 2 arguments", ErrBadArguments)
		}
		r, okR := toFloat64(args[0])
		theta, okT := toFloat64(args[1])
		if !okR || !okT {
			return nil, fmt.Errorf("%w: from_polar arguments must be numeric", ErrBadArguments)
		}
		return vek.FromPolar(r, theta), nil
	})

	b.BinaryOp(OpAdd, func(recv any, operand any) (any, error) {
		v, err := vectorRecv(recv)
		if err != nil {
			return nil, err
		}
		other, ok := operand.(vek.Vector2)
		if !ok {
			return nil, fmt.Errorf("%w: + operand must be a %s", ErrBadArguments, VectorTypeName)
		}
		return v.Add(other), nil
	})

	b.BinaryOp(OpMul, func(recv any, operand any) (any, error) {
		v, err := vectorRecv(recv)
		if err != nil {
			return nil, err
		}
		s, ok := toFloat64(operand)
		if !ok {
			return nil, fmt.Errorf("%w: * operand must be numeric", ErrBadArguments)
		}
		return v.Scale(s), nil
	})

	b.BinaryOp(OpEq, compareOp(vek.CompareEq))
	b.BinaryOp(OpNe, compareOp(vek.CompareNe))

	b.UnaryOp(OpLen, func(recv any) (any, error) {
		v, err := vectorRecv(recv)
		if err != nil {
			return nil, err
		}
		return v.Len(), nil
	})
	b.UnaryOp(OpRepr, func(recv any) (any, error) {
		v, err := vectorRecv(recv)
		if err != nil {
			return nil, err
		}
		return v.String(), nil
	})
	b.UnaryOp(OpIter, func(recv any) (any, error) {
		v, err := vectorRecv(recv)
		if err != nil {
			return nil, err
		}
		return v.Iter(), nil
	})

	return b
}

func newVector(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: %s takes exactly 2 arguments", ErrBadArguments, VectorTypeName)
	}
	x, okX := toFloat64(args[0])
	y, okY := toFloat64(args[1])
	if !okX || !okY {
		return nil, fmt.Errorf("%w: coordinates must be numeric", ErrBadArguments)
	}
	v, err := vek.New(x, y)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func vectorRecv(recv any) (vek.Vector2, error) {
	v, ok := recv.(vek.Vector2)
	if !ok {
		return vek.Vector2{}, fmt.Errorf("%w: receiver is not a %s", ErrBadArguments, VectorTypeName)
	}
	return v, nil
}

func noArgs(fn func(v vek.Vector2) any) Method {
	return func(recv any, args ...any) (any, error) {
		v, err := vectorRecv(recv)
		if err != nil {
			return nil, err
		}
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: method takes no arguments", ErrBadArguments)
		}
		return fn(v), nil
	}
}

// compareOp forwards to the value type. vek.ErrNotImplemented passes
// through untouched so hosts can apply their operator fallback rules.
func compareOp(op vek.CompareOp) BinaryFunc {
	return func(recv any, operand any) (any, error) {
		v, err := vectorRecv(recv)
		if err != nil {
			return nil, err
		}
		return v.RichCompare(op, operand)
	}
}

// toFloat64 marshals a host numeric argument. Bools are not numbers
// here.
func toFloat64(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}
