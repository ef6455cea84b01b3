package op

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ripplekit/ripple"
)

// Throttle limits the downstream emission rate to at most one value per
// interval. The first value in an idle interval passes through on the
// notifier's stack; values arriving during the cooldown are coalesced and
// the most recent one is re-emitted from a timer goroutine when the
// cooldown ends (trailing emission). Close cancels any pending trailing
// emission.
type Throttle struct {
	Operator
	limiter *rate.Limiter

	mu      sync.Mutex
	pending any
	timer   *time.Timer
	closed  bool
}

// NewThrottle wraps upstream with a Throttle of the given interval. A
// non-positive interval panics.
func NewThrottle(upstream ripple.Publisher, interval time.Duration) *Throttle {
	if interval <= 0 {
		panic("op: Throttle interval must be positive")
	}
	op := &Throttle{limiter: rate.NewLimiter(rate.Every(interval), 1)}
	op.Operator = NewOperator(op, upstream)
	return op
}

// Emit implements ripple.Subscriber.
func (t *Throttle) Emit(value any, from ripple.Publisher) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if t.timer == nil && t.limiter.Allow() {
		t.mu.Unlock()
		return t.Notify(value)
	}

	// Cooldown: coalesce to the most recent value and schedule a single
	// trailing emission for when the limiter permits the next event.
	t.pending = value
	if t.timer == nil {
		res := t.limiter.Reserve()
		t.timer = time.AfterFunc(res.Delay(), t.flush)
	}
	t.mu.Unlock()
	return nil
}

func (t *Throttle) flush() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	value := t.pending
	t.pending = nil
	t.timer = nil
	t.mu.Unlock()
	_ = t.Notify(value)
}

// Close cancels any pending trailing emission. Safe to call more than
// once.
func (t *Throttle) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// ThrottleOp returns a pipeline builder for Throttle.
func ThrottleOp(interval time.Duration) ripple.Builder {
	return func(p ripple.Publisher) ripple.Publisher {
		return NewThrottle(p, interval)
	}
}
