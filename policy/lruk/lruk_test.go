package lruk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLRUK_PromotionAtThreshold(t *testing.T) {
	t.Parallel()

	c := New[int, string](2, 10, 2)

	c.Put(1, "one")
	require.Equal(t, 0, c.Len(), "first contact must not enter the main tier")
	require.False(t, c.Contains(1))

	// Second access reaches k=2 and promotes.
	v, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, "one", v)
	require.Equal(t, 1, c.Len())
	require.True(t, c.Contains(1))

	v, ok = c.Get(1)
	require.True(t, ok)
	require.Equal(t, "one", v)
}

func TestLRUK_NeverPutKeysNeverPromote(t *testing.T) {
	t.Parallel()

	c := New[int, string](2, 10, 3)

	// Reads of an unknown key must not create history records.
	for i := 0; i < 2; i++ {
		_, ok := c.Get(42)
		require.False(t, ok)
		require.Equal(t, "", c.GetOrZero(42))
	}

	// If the misses above had counted, this Put+Get would reach k=3.
	c.Put(42, "answer")
	_, ok := c.Get(42)
	require.False(t, ok, "history must start counting at the Put")

	v, ok := c.Get(42)
	require.True(t, ok)
	require.Equal(t, "answer", v)
}

func TestLRUK_MainEvictionFollowsRecencyOrder(t *testing.T) {
	t.Parallel()

	c := New[int, string](1, 10, 2)

	c.Put(1, "one")
	require.Equal(t, "one", c.GetOrZero(1))

	c.Put(2, "two")
	require.Equal(t, "two", c.GetOrZero(2))

	// Promoting 2 displaced 1, whose history record was consumed at its
	// own promotion, so 1 is gone from both tiers.
	_, ok := c.Get(1)
	require.False(t, ok)
	require.Equal(t, "two", c.GetOrZero(2))
}

func TestLRUK_HistoryOverflowForgetsProgress(t *testing.T) {
	t.Parallel()

	c := New[int, string](2, 1, 2)

	c.Put(1, "one")
	c.Put(2, "two") // displaces 1's record

	_, ok := c.Get(1)
	require.False(t, ok, "displaced history record must forget the pending value")

	v, ok := c.Get(2)
	require.True(t, ok)
	require.Equal(t, "two", v)
}

func TestLRUK_RepeatedPutsAccumulateAndKeepLatestValue(t *testing.T) {
	t.Parallel()

	c := New[int, string](2, 10, 3)

	c.Put(7, "stale")
	c.Put(7, "fresh")

	v, ok := c.Get(7)
	require.True(t, ok, "two puts plus one get reach k=3")
	require.Equal(t, "fresh", v)
}

func TestLRUK_PromotedUpdatesStayInMainTier(t *testing.T) {
	t.Parallel()

	promote := func(c *Cache[string, string], k, v string) {
		c.Put(k, v)
		require.Equal(t, v, c.GetOrZero(k))
	}

	c := New[string, string](2, 10, 2)
	promote(c, "a", "a1")
	promote(c, "b", "b1")

	// Updating a promoted key refreshes it in place; b becomes the LRU.
	c.Put("a", "a2")
	require.Equal(t, 2, c.Len())

	promote(c, "c", "c1")
	require.False(t, c.Contains("b"))
	require.Equal(t, "a2", c.GetOrZero("a"))
	require.Equal(t, "c1", c.GetOrZero("c"))
}

func TestLRUK_ThresholdClampsToOne(t *testing.T) {
	t.Parallel()

	for _, k := range []int{0, -5, 1} {
		c := New[int, string](2, 10, k)
		c.Put(1, "one")
		v, ok := c.Get(1)
		require.True(t, ok, "k=%d must behave like k=1", k)
		require.Equal(t, "one", v)
		require.True(t, c.Contains(1))
	}
}

func TestLRUK_ZeroMainCapacity(t *testing.T) {
	t.Parallel()

	c := New[int, string](0, 10, 2)
	c.Put(1, "one")

	// The promoting access still serves the pending value, but nothing
	// is retained afterwards.
	v, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, "one", v)
	require.Equal(t, 0, c.Len())

	_, ok = c.Get(1)
	require.False(t, ok)
}

func TestLRUK_RemoveCoversBothTiers(t *testing.T) {
	t.Parallel()

	c := New[int, string](2, 10, 3)

	c.Put(1, "gated")
	c.Put(1, "gated")
	require.True(t, c.Remove(1), "Remove must reach history records")

	// Progress restarts from scratch: one Put and one Get stay below k=3.
	c.Put(1, "gated")
	_, ok := c.Get(1)
	require.False(t, ok)

	v, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, "gated", v)

	require.True(t, c.Remove(1), "Remove must reach promoted entries")
	require.False(t, c.Remove(1))
	require.Equal(t, 0, c.Len())
}
