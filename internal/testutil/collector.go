// Package testutil provides shared helpers for engine tests.
package testutil

import (
	"sync"

	"github.com/ripplekit/ripple"
)

// Collector is a subscriber recording every emission it receives, in
// order, together with the originating publisher.
//
// Thread-safety: all methods are safe for concurrent use; the async
// operator tests emit from timer goroutines.
type Collector struct {
	mu      sync.Mutex
	values  []any
	origins []ripple.Publisher

	// Err, when set, is returned from Emit. Used to test the fail-fast
	// fan-out policy.
	Err error
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Emit implements ripple.Subscriber.
func (c *Collector) Emit(value any, from ripple.Publisher) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.values = append(c.values, value)
	c.origins = append(c.origins, from)
	return nil
}

// Values returns a copy of the recorded values in arrival order.
func (c *Collector) Values() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}

// Origins returns a copy of the recorded originating publishers.
func (c *Collector) Origins() []ripple.Publisher {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ripple.Publisher, len(c.origins))
	copy(out, c.origins)
	return out
}

// Len returns the number of recorded emissions.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// Reset discards all recorded emissions.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = nil
	c.origins = nil
}

// ActivationLog records activation callback transitions for assertions on
// the demand-driven activation contract.
type ActivationLog struct {
	mu          sync.Mutex
	transitions []bool
}

// Callback returns an ActivationFunc recording each transition.
func (l *ActivationLog) Callback() ripple.ActivationFunc {
	return func(active bool) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.transitions = append(l.transitions, active)
		return nil
	}
}

// Transitions returns a copy of the recorded transitions in order.
func (l *ActivationLog) Transitions() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]bool, len(l.transitions))
	copy(out, l.transitions)
	return out
}
