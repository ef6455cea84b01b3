package op

import "github.com/ripplekit/ripple"

// CombineFunc maps the combined latest values to the emitted result.
// Returning None suppresses the emission ("not yet combinable").
type CombineFunc func(values ...any) any

// CombineLatest tracks the latest value per upstream source and emits the
// combination downstream.
//
// Emission occurs only when the source that just updated is in the
// configured trigger set (default: any source), only once every source
// has emitted at least once, and only when the combination differs from
// the previously emitted one. With zero upstream sources the combination
// is the empty tuple, replayed immediately on subscribe.
type CombineLatest struct {
	MultiOperator
	latest []any
	emitOn map[ripple.Publisher]struct{}
	mapFn  CombineFunc

	// last is the previous combination candidate, including suppressed
	// None results. Duplicate suppression compares against this, not the
	// replayed state, so a suppressed event still resets the comparison.
	last any
}

// CombineOption configures a CombineLatest.
type CombineOption func(*CombineLatest)

// EmitOn restricts downstream emission to updates originating from the
// given sources.
func EmitOn(sources ...ripple.Publisher) CombineOption {
	return func(c *CombineLatest) {
		c.emitOn = make(map[ripple.Publisher]struct{}, len(sources))
		for _, s := range sources {
			c.emitOn[s] = struct{}{}
		}
	}
}

// MapWith installs a mapping function applied to the combined values.
func MapWith(fn CombineFunc) CombineOption {
	return func(c *CombineLatest) {
		c.mapFn = fn
	}
}

// NewCombineLatest joins the given sources.
func NewCombineLatest(sources []ripple.Publisher, opts ...CombineOption) *CombineLatest {
	c := &CombineLatest{}
	c.MultiOperator = NewMultiOperator(c, sources...)
	c.latest = make([]any, len(sources))
	for i := range c.latest {
		c.latest[i] = ripple.None
	}
	for _, opt := range opts {
		opt(c)
	}
	c.last = ripple.None
	if len(sources) == 0 {
		// The empty combination is defined from the start.
		c.last = ripple.Tuple{}
		c.ResetState(ripple.Tuple{})
	}
	return c
}

// Emit implements ripple.Subscriber.
func (c *CombineLatest) Emit(value any, from ripple.Publisher) error {
	idx := c.originIndex(from)
	if idx < 0 {
		return ErrUnknownOrigin
	}
	c.latest[idx] = value

	if c.emitOn != nil {
		if _, ok := c.emitOn[from]; !ok {
			return nil
		}
	}
	for _, v := range c.latest {
		if ripple.IsNone(v) {
			return nil
		}
	}

	var out any
	if c.mapFn != nil {
		out = c.mapFn(c.latest...)
	} else {
		combined := make(ripple.Tuple, len(c.latest))
		copy(combined, c.latest)
		out = combined
	}

	if ripple.ValueEqual(out, c.last) {
		return nil
	}
	c.last = out
	if ripple.IsNone(out) {
		return nil
	}
	return c.Notify(out)
}
