package op

import (
	"errors"

	"github.com/ripplekit/ripple"
)

// ErrClosed is returned when emitting on a time-based operator after
// Close.
var ErrClosed = errors.New("op: operator is closed")

// ErrUnknownOrigin is returned when an operator receives an emission from
// a publisher it is not wired to.
var ErrUnknownOrigin = errors.New("op: emission from a publisher that is not upstream")

// ErrEmptyTuple is returned when an operator requiring at least one
// positional value receives an empty tuple.
var ErrEmptyTuple = errors.New("op: emission requires at least one positional value")

// Node is a graph node that is both publisher and subscriber. Concrete
// operators satisfy Node and hand themselves to NewOperator or
// NewMultiOperator.
type Node interface {
	ripple.Publisher
	ripple.Subscriber
}

// Operator is the single-dependency lazy-activation core. It registers an
// activation callback on its own publisher base that subscribes outer to
// upstream on the 0->1 local-subscriber transition and unsubscribes on
// the 1->0 transition.
//
// State machine: Inactive (no local subscribers, not subscribed upstream)
// <-> Active (>=1 local subscriber, subscribed upstream). The transition
// to Active completes before the new local subscriber's replay fires, so
// the operator establishes derived state first.
type Operator struct {
	*ripple.Base
	upstream ripple.Publisher
}

// NewOperator wires outer as a lazily activated subscriber of upstream.
func NewOperator(outer Node, upstream ripple.Publisher) Operator {
	o := Operator{Base: ripple.NewBase(outer, ripple.None), upstream: upstream}
	o.DependsOn(upstream)
	cb := func(active bool) error {
		if active {
			_, err := upstream.Subscribe(outer)
			return err
		}
		return upstream.Unsubscribe(outer)
	}
	if err := o.OnActivation(cb); err != nil {
		panic(err) // fresh base, no callback can be registered yet
	}
	return o
}

// Upstream returns the wrapped upstream publisher.
func (o Operator) Upstream() ripple.Publisher {
	return o.upstream
}

// MultiOperator generalizes Operator to an ordered list of upstream
// publishers: all of them are subscribed on the 0->1 transition (in
// declaration order) and unsubscribed on the 1->0 transition.
type MultiOperator struct {
	*ripple.Base
	upstreams []ripple.Publisher
}

// NewMultiOperator wires outer as a lazily activated subscriber of every
// upstream publisher.
func NewMultiOperator(outer Node, upstreams ...ripple.Publisher) MultiOperator {
	m := MultiOperator{Base: ripple.NewBase(outer, ripple.None), upstreams: upstreams}
	m.DependsOn(upstreams...)
	cb := func(active bool) error {
		if active {
			for _, up := range m.upstreams {
				if _, err := up.Subscribe(outer); err != nil {
					return err
				}
			}
			return nil
		}
		var errs []error
		for _, up := range m.upstreams {
			if err := up.Unsubscribe(outer); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	if err := m.OnActivation(cb); err != nil {
		panic(err)
	}
	return m
}

// Upstreams returns the upstream publishers in declaration order.
func (m MultiOperator) Upstreams() []ripple.Publisher {
	out := make([]ripple.Publisher, len(m.upstreams))
	copy(out, m.upstreams)
	return out
}

// originIndex returns the position of from among the upstreams, or -1.
func (m MultiOperator) originIndex(from ripple.Publisher) int {
	for i, up := range m.upstreams {
		if up == from {
			return i
		}
	}
	return -1
}
