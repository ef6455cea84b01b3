package ripple

import "reflect"

// noneType is the type of the None sentinel. It is unexported so no other
// value in the program can compare equal to None.
type noneType struct{}

func (noneType) String() string { return "None" }

// None marks "no value has ever been produced". It is distinguishable
// from every legitimate payload value, including nil, false and 0.
var None any = noneType{}

// IsNone reports whether v is the None sentinel.
func IsNone(v any) bool {
	_, ok := v.(noneType)
	return ok
}

// Tuple groups positional values emitted together as one event. Operators
// that track N-ary state (Cache, Distinct, CombineLatest, SlidingWindow)
// emit and compare tuples.
type Tuple []any

// ValueEqual reports whether two emitted values are equal by value.
// Used by deduplicating operators; subscriber bookkeeping always uses
// identity, never this.
func ValueEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Boxed normalizes a seed argument list: a single value stays scalar, two
// or more become a Tuple.
func Boxed(values []any) any {
	if len(values) == 1 {
		return values[0]
	}
	return Tuple(values)
}
