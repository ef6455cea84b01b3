package op

import "github.com/ripplekit/ripple"

// Cache re-publishes every upstream emission unconditionally and replays
// the latest one to new subscribers. It is seeded with mandatory initial
// values, so a subscriber always receives a replay even before upstream
// has emitted.
type Cache struct {
	Operator
}

// NewCache wraps upstream with a Cache. At least one seed value is
// required; an empty seed is a contract violation and panics.
func NewCache(upstream ripple.Publisher, seed ...any) *Cache {
	if len(seed) == 0 {
		panic("op: Cache requires at least one seed value")
	}
	c := &Cache{}
	c.Operator = NewOperator(c, upstream)
	c.ResetState(ripple.Boxed(seed))
	return c
}

// Emit implements ripple.Subscriber: always update the cache and forward.
func (c *Cache) Emit(value any, from ripple.Publisher) error {
	if t, ok := value.(ripple.Tuple); ok && len(t) == 0 {
		return ErrEmptyTuple
	}
	return c.Notify(value)
}

// CacheOp returns a pipeline builder for Cache.
func CacheOp(seed ...any) ripple.Builder {
	return func(p ripple.Publisher) ripple.Publisher {
		return NewCache(p, seed...)
	}
}
