package ripple

// Value is the mutable source/sink primitive: a publisher that is also
// directly triggerable as a subscriber. Emitting on a Value publishes to
// its subscribers; wiring a Value downstream of another publisher makes
// it mirror that publisher's emissions.
type Value struct {
	*Base
}

// NewValue returns a Value with the given initial state. Pass None for
// "no value yet".
func NewValue(init any) *Value {
	v := &Value{}
	v.Base = NewBase(v, init)
	return v
}

// Emit implements Subscriber by publishing value to the Value's own
// subscribers. The originating publisher is ignored.
func (v *Value) Emit(value any, from Publisher) error {
	return v.Base.Notify(value)
}
