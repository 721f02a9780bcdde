package vek

import "iter"

// Len reports the length of the coordinate sequence. It is always 2,
// so a vector iterated as a sequence is never empty.
func (v Vector2) Len() int {
	return 2
}

// Iterator is a cursor over a vector's coordinates. It owns a copy of
// the vector, so it stays valid independent of where the source came
// from, and concurrent cursors over the same vector never interfere.
type Iterator struct {
	v   Vector2
	pos int
}

// Iter returns a fresh cursor positioned before the x coordinate.
// Iteration restarts by requesting a new cursor.
func (v Vector2) Iter() *Iterator {
	return &Iterator{v: v}
}

// Next produces the next coordinate, x then y, then reports
// exhaustion.
func (it *Iterator) Next() (float64, bool) {
	var res float64
	switch it.pos {
	case 0:
		res = it.v.X
	case 1:
		res = it.v.Y
	default:
		return 0, false
	}
	it.pos++
	return res, true
}

// Values adapts the cursor for range-over-func consumers.
func (v Vector2) Values() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		it := v.Iter()
		for f, ok := it.Next(); ok; f, ok = it.Next() {
			if !yield(f) {
				return
			}
		}
	}
}
