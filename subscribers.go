package ripple

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Sink is a terminal subscriber invoking a callback for every emission.
type Sink struct {
	fn func(value any) error
}

// NewSink returns a Sink calling fn per emission. A nil fn discards
// values (useful to force activation of a lazy pipeline).
func NewSink(fn func(value any) error) *Sink {
	return &Sink{fn: fn}
}

// Emit implements Subscriber.
func (s *Sink) Emit(value any, from Publisher) error {
	if s.fn == nil {
		return nil
	}
	return s.fn(value)
}

// Trace is a terminal subscriber printing every emission with the elapsed
// time since construction. Debugging aid.
type Trace struct {
	w     io.Writer
	label string
	start time.Time
}

// NewTrace returns a Trace writing to w, prefixing each line with label.
func NewTrace(w io.Writer, label string) *Trace {
	return &Trace{w: w, label: label, start: time.Now()}
}

// Emit implements Subscriber.
func (t *Trace) Emit(value any, from Publisher) error {
	elapsed := time.Since(t.start).Seconds()
	_, err := fmt.Fprintf(t.w, "--- %8.4fs %s: %v\n", elapsed, t.label, value)
	return err
}

// First blocks until p's next emission and returns the emitted value.
// It bridges push-style emission into a single-value pull.
//
// When p already has non-None state the subscription-time replay is
// skipped and First resolves with the following emission. Cancel or time
// out via ctx; the subscription is released either way.
//
// First must be called from outside the goroutine driving the graph,
// since the value arrives on the notifier's stack.
func First(ctx context.Context, p Publisher) (any, error) {
	skipReplay := !IsNone(p.Get())
	w := &firstWaiter{ch: make(chan any, 1), skip: skipReplay}
	sub, err := p.Subscribe(w)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Already gone when the waiter raced with an external unsubscribe.
		if err := sub.Dispose(); err != nil && !IsNotSubscribed(err) {
			return
		}
	}()

	select {
	case v := <-w.ch:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type firstWaiter struct {
	mu   sync.Mutex
	ch   chan any
	skip bool
	done bool
}

// Emit implements Subscriber.
func (w *firstWaiter) Emit(value any, from Publisher) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.skip {
		w.skip = false
		return nil
	}
	if w.done {
		return nil
	}
	w.done = true
	w.ch <- value
	return nil
}
