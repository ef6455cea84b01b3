package ripple_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplekit/ripple"
	"github.com/ripplekit/ripple/internal/testutil"
)

func TestPublisher_SubscribeReplaysState(t *testing.T) {
	p := ripple.NewPublisher(42)
	c := testutil.NewCollector()

	_, err := p.Subscribe(c)
	require.NoError(t, err)

	// Replay happens synchronously, before Subscribe returns.
	require.Equal(t, []any{42}, c.Values())
	assert.Equal(t, []ripple.Publisher{p}, c.Origins())
}

func TestPublisher_SubscribeWithoutStateDoesNotReplay(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)
	c := testutil.NewCollector()

	_, err := p.Subscribe(c)
	require.NoError(t, err)
	assert.Zero(t, c.Len(), "None state must not be replayed")
}

func TestPublisher_SubscribeDuplicateFails(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)
	c := testutil.NewCollector()

	_, err := p.Subscribe(c)
	require.NoError(t, err)

	_, err = p.Subscribe(c)
	require.Error(t, err)
	assert.True(t, ripple.IsAlreadySubscribed(err))
	assert.Equal(t, 1, p.SubscriberCount(), "failed subscribe must not alter the set")
}

func TestPublisher_UnsubscribeAbsentFails(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)
	c := testutil.NewCollector()

	err := p.Unsubscribe(c)
	require.Error(t, err)
	assert.True(t, ripple.IsNotSubscribed(err))
}

func TestPublisher_NotifyFanOutOrder(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)

	var order []string
	first := ripple.NewSink(func(any) error { order = append(order, "first"); return nil })
	second := ripple.NewSink(func(any) error { order = append(order, "second"); return nil })
	front := ripple.NewSink(func(any) error { order = append(order, "front"); return nil })

	_, err := p.Subscribe(first)
	require.NoError(t, err)
	_, err = p.Subscribe(second)
	require.NoError(t, err)
	_, err = p.SubscribePrepend(front)
	require.NoError(t, err)

	require.NoError(t, p.Notify(1))
	assert.Equal(t, []string{"front", "first", "second"}, order)
}

func TestPublisher_NotifyStoresState(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)
	require.True(t, ripple.IsNone(p.Get()))

	require.NoError(t, p.Notify("a"))
	assert.Equal(t, "a", p.Get())

	// Unconditional: the same value is stored and fanned out again.
	c := testutil.NewCollector()
	_, err := p.Subscribe(c)
	require.NoError(t, err)
	require.NoError(t, p.Notify("a"))
	assert.Equal(t, []any{"a", "a"}, c.Values(), "replay plus second notify")
}

func TestPublisher_ResetStateDoesNotEmit(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)
	c := testutil.NewCollector()
	_, err := p.Subscribe(c)
	require.NoError(t, err)

	p.ResetState(7)
	assert.Zero(t, c.Len())
	assert.Equal(t, 7, p.Get())

	p.ResetState(ripple.None)
	assert.True(t, ripple.IsNone(p.Get()))
}

// A subscriber that unsubscribes a later subscriber mid-fan-out must not
// suppress delivery to it for the notify in progress (snapshot policy).
func TestPublisher_FanOutSnapshot(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)

	late := testutil.NewCollector()
	saboteur := ripple.NewSink(func(any) error {
		return p.Unsubscribe(late)
	})

	_, err := p.Subscribe(saboteur)
	require.NoError(t, err)
	_, err = p.Subscribe(late)
	require.NoError(t, err)

	require.NoError(t, p.Notify(1))
	assert.Equal(t, []any{1}, late.Values(), "snapshot still delivers to late")

	require.NoError(t, p.Notify(2))
	assert.Equal(t, []any{1}, late.Values(), "removal takes effect for later notifies")
}

func TestPublisher_ReentrantSubscribeDuringFanOut(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)

	joined := testutil.NewCollector()
	joiner := ripple.NewSink(func(any) error {
		if p.SubscriberCount() == 1 {
			_, err := p.Subscribe(joined)
			return err
		}
		return nil
	})

	_, err := p.Subscribe(joiner)
	require.NoError(t, err)

	require.NoError(t, p.Notify(1))
	// joined entered during the fan-out: it sees the replayed state but is
	// not part of the snapshot being iterated.
	assert.Equal(t, []any{1}, joined.Values())

	require.NoError(t, p.Notify(2))
	assert.Equal(t, []any{1, 2}, joined.Values())
}

func TestPublisher_FanOutFailFast(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)

	failing := testutil.NewCollector()
	failing.Err = assert.AnError
	after := testutil.NewCollector()

	_, err := p.Subscribe(failing)
	require.NoError(t, err)
	_, err = p.Subscribe(after)
	require.NoError(t, err)

	err = p.Notify(1)
	require.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, after.Len(), "fan-out aborts after the failing subscriber")
	assert.Equal(t, 1, p.Get(), "state update precedes fan-out")
}

func TestPublisher_ActivationTransitions(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)
	log := &testutil.ActivationLog{}
	require.NoError(t, p.OnActivation(log.Callback()))

	a := testutil.NewCollector()
	b := testutil.NewCollector()

	_, err := p.Subscribe(a)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, log.Transitions(), "0->1 fires true")

	_, err = p.Subscribe(b)
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, log.Transitions(), "1->2 is a no-op transition")

	require.NoError(t, p.Unsubscribe(a))
	assert.Equal(t, []bool{true}, log.Transitions(), "2->1 is a no-op transition")

	require.NoError(t, p.Unsubscribe(b))
	assert.Equal(t, []bool{true, false}, log.Transitions(), "1->0 fires false")

	_, err = p.Subscribe(a)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, log.Transitions(), "reactivation fires true again")
}

func TestPublisher_ActivationFiresBeforeReplay(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)

	// The callback establishes state; the new subscriber must still see it.
	require.NoError(t, p.OnActivation(func(active bool) error {
		if active {
			p.ResetState("derived")
		}
		return nil
	}))

	c := testutil.NewCollector()
	_, err := p.Subscribe(c)
	require.NoError(t, err)
	assert.Equal(t, []any{"derived"}, c.Values())
}

func TestPublisher_SecondActivationCallbackFails(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)
	log := &testutil.ActivationLog{}
	require.NoError(t, p.OnActivation(log.Callback()))

	err := p.OnActivation(func(bool) error { return nil })
	require.Error(t, err)
	assert.True(t, ripple.IsCallbackRegistered(err))

	// First callback remains in effect.
	_, err = p.Subscribe(testutil.NewCollector())
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, log.Transitions())
}

func TestPublisher_Dependencies(t *testing.T) {
	up := ripple.NewPublisher(ripple.None)
	p := ripple.NewPublisher(ripple.None)

	assert.Empty(t, p.Dependencies())
	p.DependsOn(up)
	require.Len(t, p.Dependencies(), 1)
	assert.Equal(t, ripple.Publisher(up), p.Dependencies()[0])
}

func TestSubscription_DisposeRemovesPairing(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)
	c := testutil.NewCollector()

	sub, err := p.Subscribe(c)
	require.NoError(t, err)
	require.Equal(t, 1, p.SubscriberCount())

	require.NoError(t, sub.Dispose())
	assert.Zero(t, p.SubscriberCount())
}

func TestSubscription_DoubleDisposeFails(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)
	c := testutil.NewCollector()

	sub, err := p.Subscribe(c)
	require.NoError(t, err)
	require.NoError(t, sub.Dispose())

	err = sub.Dispose()
	require.Error(t, err)
	assert.True(t, ripple.IsNotSubscribed(err))
}

func TestSubscription_DisposeAfterExternalUnsubscribeFails(t *testing.T) {
	p := ripple.NewPublisher(ripple.None)
	c := testutil.NewCollector()

	sub, err := p.Subscribe(c)
	require.NoError(t, err)
	require.NoError(t, p.Unsubscribe(c))

	err = sub.Dispose()
	assert.True(t, ripple.IsNotSubscribed(err))
}

func TestNone_Identity(t *testing.T) {
	assert.True(t, ripple.IsNone(ripple.None))
	assert.False(t, ripple.IsNone(nil), "nil is a legitimate payload")
	assert.False(t, ripple.IsNone(0))
	assert.False(t, ripple.IsNone(false))
	assert.False(t, ripple.IsNone(""))
}

func TestValueEqual_Tuples(t *testing.T) {
	assert.True(t, ripple.ValueEqual(ripple.Tuple{1, "a"}, ripple.Tuple{1, "a"}))
	assert.False(t, ripple.ValueEqual(ripple.Tuple{1, "a"}, ripple.Tuple{1, "b"}))
	assert.False(t, ripple.ValueEqual(ripple.Tuple{1}, 1))
	assert.True(t, ripple.ValueEqual(ripple.None, ripple.None))
}
