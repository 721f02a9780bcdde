package vek

import "errors"

// ErrNotImplemented signals that a comparison was attempted against an
// incompatible operand or via an unsupported operator. It is returned,
// never panicked; a host boundary treats it the way dynamic runtimes
// treat NotImplemented (try the reflected operand, or report the
// comparison as unsupported).
var ErrNotImplemented = errors.New("operation not supported between these operands")

type CompareOp int

const (
	CompareEq CompareOp = iota
	CompareNe
	CompareLt
	CompareLe
	CompareGt
	CompareGe
)

// RichCompare compares v against an arbitrary operand. Only equality
// and inequality are defined: against another Vector2 it is structural
// coordinate equality, against an ordered numeric sequence it holds
// iff the sequence has exactly two elements matching x then y.
// Ordering operators are never computed.
func (v Vector2) RichCompare(op CompareOp, other any) (bool, error) {
	switch op {
	case CompareEq, CompareNe:
	default:
		return false, ErrNotImplemented
	}

	eq, err := v.equalsAny(other)
	if err != nil {
		return false, err
	}
	if op == CompareNe {
		return !eq, nil
	}
	return eq, nil
}

func (v Vector2) equalsAny(other any) (bool, error) {
	switch o := other.(type) {
	case Vector2:
		return v.X == o.X && v.Y == o.Y, nil
	case *Vector2:
		if o == nil {
			return false, ErrNotImplemented
		}
		return v.X == o.X && v.Y == o.Y, nil
	}

	seq, ok := asFloatSlice(other)
	if !ok {
		return false, ErrNotImplemented
	}
	return len(seq) == 2 && seq[0] == v.X && seq[1] == v.Y, nil
}

func asFloatSlice(value any) ([]float64, bool) {
	switch s := value.(type) {
	case []float64:
		return s, true
	case [2]float64:
		return s[:], true
	case []float32:
		out := make([]float64, len(s))
		for i, e := range s {
			out[i] = float64(e)
		}
		return out, true
	case []int:
		out := make([]float64, len(s))
		for i, e := range s {
			out[i] = float64(e)
		}
		return out, true
	case []any:
		out := make([]float64, len(s))
		for i, e := range s {
			f, ok := asFloat(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

func asFloat(value any) (float64, bool) {
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
