package op

import "github.com/ripplekit/ripple"

// Distinct forwards upstream emissions only when they differ by value
// from the previous one; consecutive duplicates are swallowed. An
// optional seed defines the initial comparison state, so an upstream
// replay equal to the seed is also swallowed.
type Distinct struct {
	Operator
}

// NewDistinct wraps upstream with a Distinct. Seed values are optional.
func NewDistinct(upstream ripple.Publisher, seed ...any) *Distinct {
	d := &Distinct{}
	d.Operator = NewOperator(d, upstream)
	if len(seed) > 0 {
		d.ResetState(ripple.Boxed(seed))
	}
	return d
}

// Emit implements ripple.Subscriber.
func (d *Distinct) Emit(value any, from ripple.Publisher) error {
	if t, ok := value.(ripple.Tuple); ok && len(t) == 0 {
		return ErrEmptyTuple
	}
	if ripple.ValueEqual(value, d.Get()) {
		return nil
	}
	return d.Notify(value)
}

// DistinctOp returns a pipeline builder for Distinct.
func DistinctOp(seed ...any) ripple.Builder {
	return func(p ripple.Publisher) ripple.Publisher {
		return NewDistinct(p, seed...)
	}
}
