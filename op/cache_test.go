package op_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplekit/ripple"
	"github.com/ripplekit/ripple/internal/testutil"
	"github.com/ripplekit/ripple/op"
)

func TestCache_SeedReplaysWhenUpstreamSilent(t *testing.T) {
	up := ripple.NewValue(ripple.None)
	cache := op.NewCache(up, 0)

	c := testutil.NewCollector()
	_, err := cache.Subscribe(c)
	require.NoError(t, err)
	assert.Equal(t, []any{0}, c.Values(), "seed replays before any upstream emission")
}

func TestCache_UpstreamReplayWinsOverSeed(t *testing.T) {
	up := ripple.NewValue(10)
	cache := op.NewCache(up, 0)

	c := testutil.NewCollector()
	_, err := cache.Subscribe(c)
	require.NoError(t, err)
	assert.Equal(t, []any{10}, c.Values(), "upstream replay resolves first, once")
}

func TestCache_ForwardsDuplicates(t *testing.T) {
	up := ripple.NewValue(ripple.None)
	cache := op.NewCache(up, 0)

	c := testutil.NewCollector()
	_, err := cache.Subscribe(c)
	require.NoError(t, err)

	require.NoError(t, up.Emit(1, nil))
	require.NoError(t, up.Emit(1, nil))
	assert.Equal(t, []any{0, 1, 1}, c.Values(), "Cache forwards unconditionally")
}

func TestCache_TupleSeed(t *testing.T) {
	up := ripple.NewValue(ripple.None)
	cache := op.NewCache(up, 1, 2)

	c := testutil.NewCollector()
	_, err := cache.Subscribe(c)
	require.NoError(t, err)
	assert.Equal(t, []any{ripple.Tuple{1, 2}}, c.Values())
}

func TestCache_EmptySeedPanics(t *testing.T) {
	up := ripple.NewValue(ripple.None)
	assert.Panics(t, func() { op.NewCache(up) })
}

func TestDistinct_SwallowsConsecutiveDuplicates(t *testing.T) {
	up := ripple.NewValue(ripple.None)
	dist := op.NewDistinct(up)

	c := testutil.NewCollector()
	_, err := dist.Subscribe(c)
	require.NoError(t, err)

	require.NoError(t, up.Emit(1, nil))
	require.NoError(t, up.Emit(2, nil))
	require.NoError(t, up.Emit(2, nil))
	require.NoError(t, up.Emit(1, nil))
	assert.Equal(t, []any{1, 2, 1}, c.Values())
}

func TestDistinct_TupleComparison(t *testing.T) {
	up := ripple.NewValue(ripple.None)
	dist := op.NewDistinct(up)

	c := testutil.NewCollector()
	_, err := dist.Subscribe(c)
	require.NoError(t, err)

	require.NoError(t, up.Emit(ripple.Tuple{0, 0}, nil))
	require.NoError(t, up.Emit(ripple.Tuple{0, 0}, nil))
	require.NoError(t, up.Emit(ripple.Tuple{0, 1}, nil))
	assert.Equal(t, []any{ripple.Tuple{0, 0}, ripple.Tuple{0, 1}}, c.Values())
}

func TestDistinct_SeedSuppressesEqualEmission(t *testing.T) {
	up := ripple.NewValue(ripple.None)
	dist := op.NewDistinct(up, 0)

	c := testutil.NewCollector()
	_, err := dist.Subscribe(c)
	require.NoError(t, err)
	require.Equal(t, []any{0}, c.Values(), "seed replays")

	require.NoError(t, up.Emit(0, nil))
	assert.Equal(t, []any{0}, c.Values(), "emission equal to seed is swallowed")

	require.NoError(t, up.Emit(1, nil))
	assert.Equal(t, []any{0, 1}, c.Values())
}

func TestDistinct_EmptyTupleRejected(t *testing.T) {
	up := ripple.NewValue(ripple.None)
	dist := op.NewDistinct(up)

	_, err := dist.Subscribe(testutil.NewCollector())
	require.NoError(t, err)

	err = up.Emit(ripple.Tuple{}, nil)
	assert.ErrorIs(t, err, op.ErrEmptyTuple)
}
