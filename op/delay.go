package op

import (
	"sync"
	"time"

	"github.com/ripplekit/ripple"
)

// delayQueueSize bounds the number of in-flight delayed values. Emit
// blocks when the queue is full.
const delayQueueSize = 64

// Delay re-emits every upstream value after a fixed duration, preserving
// order and inter-arrival spacing. Values are re-emitted from a worker
// goroutine; Close stops it.
type Delay struct {
	Operator
	d    time.Duration
	ch   chan delayed
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

type delayed struct {
	value    any
	deadline time.Time
}

// NewDelay wraps upstream with a Delay of duration d. A negative
// duration panics.
func NewDelay(upstream ripple.Publisher, d time.Duration) *Delay {
	if d < 0 {
		panic("op: Delay duration must not be negative")
	}
	op := &Delay{
		d:    d,
		ch:   make(chan delayed, delayQueueSize),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	op.Operator = NewOperator(op, upstream)
	go op.run()
	return op
}

// Emit implements ripple.Subscriber.
func (d *Delay) Emit(value any, from ripple.Publisher) error {
	item := delayed{value: value, deadline: time.Now().Add(d.d)}
	select {
	case d.ch <- item:
		return nil
	case <-d.quit:
		return ErrClosed
	}
}

func (d *Delay) run() {
	defer close(d.done)
	timer := time.NewTimer(0)
	defer timer.Stop()
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-d.quit:
			return
		case item := <-d.ch:
			timer.Reset(time.Until(item.deadline))
			select {
			case <-d.quit:
				return
			case <-timer.C:
			}
			// Emit errors of downstream subscribers cannot propagate to
			// the original notifier here; the worker drops them.
			_ = d.Notify(item.value)
		}
	}
}

// Close stops the worker goroutine. Pending values are discarded.
// Safe to call more than once.
func (d *Delay) Close() {
	d.once.Do(func() { close(d.quit) })
	<-d.done
}

// DelayOp returns a pipeline builder for Delay.
func DelayOp(d time.Duration) ripple.Builder {
	return func(p ripple.Publisher) ripple.Publisher {
		return NewDelay(p, d)
	}
}
