package ripple

// Subscriber receives emitted values together with the identity of the
// originating publisher.
//
// Emit is called synchronously on the notifying caller's stack. Returning
// a non-nil error aborts the remainder of the fan-out in progress and
// propagates to the Notify caller.
//
// Subscribers are tracked by identity, not value equality: register
// pointer types so two subscribers that happen to be indistinguishable by
// value comparison still count as distinct entries.
type Subscriber interface {
	Emit(value any, from Publisher) error
}
