package ripple

// Subscription pairs exactly one publisher with one subscriber. It is the
// disposable handle returned by Subscribe; Dispose releases the pairing.
type Subscription struct {
	publisher  Publisher
	subscriber Subscriber
}

// Dispose removes the pairing. Disposing a pairing that was already
// removed (by a prior Dispose or an out-of-band Unsubscribe) surfaces the
// NOT_SUBSCRIBED error rather than silently succeeding.
func (s *Subscription) Dispose() error {
	return s.publisher.Unsubscribe(s.subscriber)
}

// Publisher returns the publisher side of the pairing.
func (s *Subscription) Publisher() Publisher {
	return s.publisher
}

// Subscriber returns the subscriber side of the pairing.
func (s *Subscription) Subscriber() Subscriber {
	return s.subscriber
}
