package op

import (
	"reflect"

	"github.com/ripplekit/ripple"
)

// Predicate evaluates a single emitted value.
type Predicate func(value any) bool

// TuplePredicate evaluates the positional values of a tuple emission.
type TuplePredicate func(values ...any) bool

// Filter forwards an emission only when its predicate evaluates true.
type Filter struct {
	Operator
	pred Predicate
}

// NewFilter wraps upstream with a Filter. A nil predicate panics.
func NewFilter(upstream ripple.Publisher, pred Predicate) *Filter {
	if pred == nil {
		panic("op: Filter requires a predicate")
	}
	f := &Filter{pred: pred}
	f.Operator = NewOperator(f, upstream)
	return f
}

// NewUnpackFilter is NewFilter for tuple emissions: the incoming tuple is
// spread as the predicate's arguments. Non-tuple values are passed as a
// single argument.
func NewUnpackFilter(upstream ripple.Publisher, pred TuplePredicate) *Filter {
	if pred == nil {
		panic("op: Filter requires a predicate")
	}
	return NewFilter(upstream, func(value any) bool {
		if t, ok := value.(ripple.Tuple); ok {
			return pred(t...)
		}
		return pred(value)
	})
}

// Emit implements ripple.Subscriber.
func (f *Filter) Emit(value any, from ripple.Publisher) error {
	if f.pred(value) {
		return f.Notify(value)
	}
	return nil
}

// FilterOp returns a pipeline builder for Filter.
func FilterOp(pred Predicate) ripple.Builder {
	return func(p ripple.Publisher) ripple.Publisher {
		return NewFilter(p, pred)
	}
}

// UnpackFilterOp returns a pipeline builder for an unpacking Filter.
func UnpackFilterOp(pred TuplePredicate) ripple.Builder {
	return func(p ripple.Publisher) ripple.Publisher {
		return NewUnpackFilter(p, pred)
	}
}

// TrueOp returns a builder forwarding only truthy values.
func TrueOp() ripple.Builder {
	return FilterOp(Truthy)
}

// FalseOp returns a builder forwarding only falsy values.
func FalseOp() ripple.Builder {
	return FilterOp(func(v any) bool { return !Truthy(v) })
}

// Truthy reports whether v counts as true for the boolean filter
// specializations. None, nil, zero values and empty collections are
// falsy; everything else is truthy.
func Truthy(v any) bool {
	if v == nil || ripple.IsNone(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String, reflect.Chan:
		return rv.Len() > 0
	default:
		return !rv.IsZero()
	}
}
