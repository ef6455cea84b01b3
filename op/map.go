package op

import "github.com/ripplekit/ripple"

// MapFunc transforms an emitted value. Returning None suppresses the
// emission.
type MapFunc func(value any) any

// TupleMapFunc transforms the positional values of a tuple emission.
type TupleMapFunc func(values ...any) any

// Map forwards each upstream emission transformed by a mapping function.
type Map struct {
	Operator
	fn MapFunc
}

// NewMap wraps upstream with a Map. A nil mapping function panics.
func NewMap(upstream ripple.Publisher, fn MapFunc) *Map {
	if fn == nil {
		panic("op: Map requires a mapping function")
	}
	m := &Map{fn: fn}
	m.Operator = NewOperator(m, upstream)
	return m
}

// NewUnpackMap is NewMap for tuple emissions: the incoming tuple is
// spread as the function's arguments.
func NewUnpackMap(upstream ripple.Publisher, fn TupleMapFunc) *Map {
	if fn == nil {
		panic("op: Map requires a mapping function")
	}
	return NewMap(upstream, func(value any) any {
		if t, ok := value.(ripple.Tuple); ok {
			return fn(t...)
		}
		return fn(value)
	})
}

// Emit implements ripple.Subscriber.
func (m *Map) Emit(value any, from ripple.Publisher) error {
	out := m.fn(value)
	if ripple.IsNone(out) {
		return nil
	}
	return m.Notify(out)
}

// MapOp returns a pipeline builder for Map.
func MapOp(fn MapFunc) ripple.Builder {
	return func(p ripple.Publisher) ripple.Publisher {
		return NewMap(p, fn)
	}
}

// UnpackMapOp returns a pipeline builder for an unpacking Map.
func UnpackMapOp(fn TupleMapFunc) ripple.Builder {
	return func(p ripple.Publisher) ripple.Publisher {
		return NewUnpackMap(p, fn)
	}
}
