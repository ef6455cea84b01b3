package ripple

import "sync"

// Publisher holds a replayable state and an ordered set of subscribers it
// can notify. Operators, values and hub topics all satisfy Publisher.
type Publisher interface {
	// Subscribe appends s to the subscriber set and replays the current
	// state to it when that state is not None. Fails with an
	// ALREADY_SUBSCRIBED error when s is present (by identity).
	Subscribe(s Subscriber) (*Subscription, error)

	// SubscribePrepend is Subscribe, but inserts s at the front of the
	// subscriber set. Insertion order determines fan-out order.
	SubscribePrepend(s Subscriber) (*Subscription, error)

	// Unsubscribe removes s by identity. Fails with a NOT_SUBSCRIBED
	// error when s is not present.
	Unsubscribe(s Subscriber) error

	// Get returns the current state (possibly None) without side effects.
	Get() any

	// Notify stores value as the new state, then emits it to every
	// subscriber present at call time, in insertion order.
	Notify(value any) error
}

// ActivationFunc is invoked with true on the 0->1 subscriber transition
// and false on the 1->0 transition. A returned error propagates to the
// Subscribe or Unsubscribe caller that triggered the transition.
type ActivationFunc func(active bool) error

// Base is the canonical Publisher implementation. Concrete node types
// (Value, operators, hub topics) embed a *Base constructed with NewBase
// so that emissions report the outer type as their origin.
//
// The mutex guards the subscriber list and state. It is never held while
// calling Emit or the activation callback, so re-entrant subscribe,
// unsubscribe and notify during a fan-out are safe (snapshot semantics,
// see the package documentation).
type Base struct {
	self Publisher

	mu           sync.Mutex
	state        any
	subscribers  []Subscriber
	onActivation ActivationFunc
	deps         []Publisher
}

// NewPublisher returns a standalone publisher with the given initial
// state. Pass None for "no value yet".
func NewPublisher(init any) *Base {
	b := &Base{state: init}
	b.self = b
	return b
}

// NewBase returns the publisher core for an embedding node type. outer is
// reported as the origin of every emission and is the publisher bound
// into subscriptions, so disposables unsubscribe through the outer type.
func NewBase(outer Publisher, init any) *Base {
	if outer == nil {
		panic("ripple: NewBase requires a non-nil outer publisher")
	}
	return &Base{self: outer, state: init}
}

// Subscribe implements Publisher.
func (b *Base) Subscribe(s Subscriber) (*Subscription, error) {
	return b.subscribe(s, false)
}

// SubscribePrepend implements Publisher.
func (b *Base) SubscribePrepend(s Subscriber) (*Subscription, error) {
	return b.subscribe(s, true)
}

func (b *Base) subscribe(s Subscriber, prepend bool) (*Subscription, error) {
	b.mu.Lock()
	if b.indexLocked(s) >= 0 {
		b.mu.Unlock()
		return nil, errAlreadySubscribed()
	}
	first := len(b.subscribers) == 0
	cb := b.onActivation
	b.mu.Unlock()

	// Activation runs before insertion so a lazily activated upstream
	// replays into this publisher first; the new subscriber then picks up
	// the derived state below.
	if first && cb != nil {
		if err := cb(true); err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	if b.indexLocked(s) >= 0 {
		// s was inserted re-entrantly during activation.
		b.mu.Unlock()
		return nil, errAlreadySubscribed()
	}
	if prepend {
		b.subscribers = append([]Subscriber{s}, b.subscribers...)
	} else {
		b.subscribers = append(b.subscribers, s)
	}
	state := b.state
	b.mu.Unlock()

	sub := &Subscription{publisher: b.self, subscriber: s}
	if !IsNone(state) {
		if err := s.Emit(state, b.self); err != nil {
			return sub, err
		}
	}
	return sub, nil
}

// Unsubscribe implements Publisher.
func (b *Base) Unsubscribe(s Subscriber) error {
	b.mu.Lock()
	i := b.indexLocked(s)
	if i < 0 {
		b.mu.Unlock()
		return errNotSubscribed()
	}
	b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
	empty := len(b.subscribers) == 0
	cb := b.onActivation
	b.mu.Unlock()

	if empty && cb != nil {
		return cb(false)
	}
	return nil
}

// Get implements Publisher.
func (b *Base) Get() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Notify implements Publisher. The subscriber list is snapshotted before
// the fan-out; the first Emit error aborts delivery to the remaining
// subscribers and is returned.
func (b *Base) Notify(value any) error {
	b.mu.Lock()
	b.state = value
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, s := range subs {
		if err := s.Emit(value, b.self); err != nil {
			return err
		}
	}
	return nil
}

// ResetState overwrites the state without emitting. Pass None to clear
// replay state without notifying anyone.
func (b *Base) ResetState(value any) {
	b.mu.Lock()
	b.state = value
	b.mu.Unlock()
}

// OnActivation registers the activation callback. At most one callback
// may be registered per publisher; a second registration fails with a
// CALLBACK_REGISTERED error and leaves the first in effect.
func (b *Base) OnActivation(fn ActivationFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.onActivation != nil {
		return errCallbackRegistered()
	}
	b.onActivation = fn
	return nil
}

// SubscriberCount returns the number of current subscribers.
func (b *Base) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Subscribers returns a copy of the current subscriber list in fan-out
// order.
func (b *Base) Subscribers() []Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	return subs
}

// DependsOn records upstream publishers this node structurally depends
// on. The set is informational, for introspection and diagnostics.
func (b *Base) DependsOn(publishers ...Publisher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deps = append(b.deps, publishers...)
}

// Dependencies returns the recorded upstream publishers.
func (b *Base) Dependencies() []Publisher {
	b.mu.Lock()
	defer b.mu.Unlock()
	deps := make([]Publisher, len(b.deps))
	copy(deps, b.deps)
	return deps
}

// indexLocked returns the position of s in the subscriber list, or -1.
// Comparison is by identity, not value equality.
func (b *Base) indexLocked(s Subscriber) int {
	for i, have := range b.subscribers {
		if have == s {
			return i
		}
	}
	return -1
}
