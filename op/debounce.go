package op

import (
	"sync"
	"time"

	"github.com/ripplekit/ripple"
)

// Debounce re-emits the most recent upstream value once no new value has
// arrived for a quiet period. Values are re-emitted from a timer
// goroutine; Close cancels any pending emission.
type Debounce struct {
	Operator
	d time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewDebounce wraps upstream with a Debounce with quiet period d. A
// non-positive duration panics.
func NewDebounce(upstream ripple.Publisher, d time.Duration) *Debounce {
	if d <= 0 {
		panic("op: Debounce duration must be positive")
	}
	op := &Debounce{d: d}
	op.Operator = NewOperator(op, upstream)
	return op
}

// Emit implements ripple.Subscriber. Each arrival restarts the quiet
// period timer.
func (d *Debounce) Emit(value any, from ripple.Publisher) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.d, func() {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()
		_ = d.Notify(value)
	})
	return nil
}

// Close cancels any pending emission. Safe to call more than once.
func (d *Debounce) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// DebounceOp returns a pipeline builder for Debounce.
func DebounceOp(d time.Duration) ripple.Builder {
	return func(p ripple.Publisher) ripple.Publisher {
		return NewDebounce(p, d)
	}
}
