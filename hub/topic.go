package hub

import (
	"context"
	"sync"
	"time"

	"github.com/ripplekit/ripple"
)

// Topic is a named, deferred handle to an eventually-bound publisher.
//
// A Topic is both publisher and subscriber. Toward its own subscribers it
// behaves like any publisher (replay, ordered fan-out). Toward its
// subject it behaves like an operator: the structural subscription exists
// only while the topic itself has subscribers, and is queued until a
// subject is bound.
type Topic struct {
	*ripple.Base
	name string

	mu       sync.Mutex
	subject  ripple.Publisher
	meta     map[string]any
	assigned chan struct{} // closed exactly once, on bind
}

func newTopic(name string) *Topic {
	t := &Topic{name: name, assigned: make(chan struct{})}
	t.Base = ripple.NewBase(t, ripple.None)
	cb := func(active bool) error {
		subject := t.Subject()
		if subject == nil {
			// Demand is queued; bind flushes it.
			return nil
		}
		if active {
			_, err := subject.Subscribe(t)
			return err
		}
		return subject.Unsubscribe(t)
	}
	if err := t.OnActivation(cb); err != nil {
		panic(err)
	}
	return t
}

// Name returns the normalized topic name.
func (t *Topic) Name() string {
	return t.name
}

// Assigned reports whether a subject is bound.
func (t *Topic) Assigned() bool {
	return t.Subject() != nil
}

// Subject returns the bound publisher, or nil.
func (t *Topic) Subject() ripple.Publisher {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.subject
}

// Meta returns the metadata attached at bind time, or nil.
func (t *Topic) Meta() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.meta
}

// Emit implements ripple.Subscriber. An emission from the bound subject
// fans out to the topic's subscribers; an emission from any other caller
// is forwarded to the subject, the authoritative source. Emitting on an
// unbound topic is an error.
func (t *Topic) Emit(value any, from ripple.Publisher) error {
	subject := t.Subject()
	if subject == nil {
		return &TopicError{Code: ErrCodeNotBound, Topic: t.name, Message: "no subject is bound"}
	}
	if from == subject {
		return t.Notify(value)
	}
	return subject.Notify(value)
}

// WaitForAssignment blocks until a subject is bound, ctx is done, or
// timeout elapses (timeout <= 0 means no deadline). Resolution is
// immediate when already bound. A timed-out or cancelled wait leaves the
// topic's binding state untouched, and a late bind still resolves every
// other waiter: all waiters share one broadcast channel, so no waiter's
// abandonment can corrupt another's resolution.
func (t *Topic) WaitForAssignment(ctx context.Context, timeout time.Duration) error {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-t.assigned:
		return nil
	case <-deadline:
		return &TopicError{Code: ErrCodeWaitTimeout, Topic: t.name, Message: "assignment wait timed out"}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// bind installs subject and meta. Rebinding fails, leaving the original
// subject bound.
func (t *Topic) bind(subject ripple.Publisher, meta map[string]any) error {
	t.mu.Lock()
	if t.subject != nil {
		t.mu.Unlock()
		return &TopicError{Code: ErrCodeAlreadyBound, Topic: t.name, Message: "a subject is already bound"}
	}
	t.subject = subject
	if meta != nil {
		t.meta = meta
	}
	close(t.assigned)
	t.mu.Unlock()

	// Flush queued demand: subscribers that arrived before the bind.
	if t.SubscriberCount() > 0 {
		if _, err := subject.Subscribe(t); err != nil {
			return err
		}
	}
	return nil
}
