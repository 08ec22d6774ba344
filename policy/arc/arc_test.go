package arc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func (c *Cache[K, V]) locOf(t *testing.T, key K) where {
	t.Helper()
	el, ok := c.items[key]
	require.True(t, ok, "key %v must be tracked", key)
	return el.Value.(*entry[K, V]).loc
}

func TestARC_TwiceAccessedOutlivesOnceAccessed(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)
	c.Put("x", 1)
	_, ok := c.Get("x") // x graduates to the frequency side
	require.True(t, ok)
	c.Put("y", 2)
	c.Put("z", 3) // displaces y, the only once-accessed resident

	require.False(t, c.Contains("y"))
	require.Equal(t, 1, c.GetOrZero("x"))
	require.True(t, c.Contains("z"))
	require.Equal(t, 2, c.Len())
}

func TestARC_ResidentAccessMovesToFrequencySide(t *testing.T) {
	t.Parallel()

	c := New[string, int](4)
	c.Put("a", 1)
	require.Equal(t, inT1, c.locOf(t, "a"))

	c.Get("a")
	require.Equal(t, inT2, c.locOf(t, "a"))

	c.Put("a", 2)
	require.Equal(t, inT2, c.locOf(t, "a"))
	require.Equal(t, 2, c.GetOrZero("a"))
}

func TestARC_RecencyGhostHitGrowsTarget(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)
	c.Put("x", 1)
	c.Get("x")
	c.Put("y", 2)
	c.Put("z", 3) // y -> B1
	require.Equal(t, inB1, c.locOf(t, "y"))
	require.Equal(t, 0, c.p)

	// Reviving y signals the recency side was undersized.
	c.Put("y", 20)
	require.Equal(t, 1, c.p)
	require.Equal(t, inT2, c.locOf(t, "y"))
	require.Equal(t, 20, c.GetOrZero("y"))
	require.False(t, c.Contains("z"), "the revival must displace a resident")
}

func TestARC_GhostHitOnGetAdaptsButMisses(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)
	c.Put("x", 1)
	c.Get("x")
	c.Put("y", 2)
	c.Put("z", 3) // y -> B1

	v, ok := c.Get("y")
	require.False(t, ok, "ghosts never serve data")
	require.Zero(t, v)
	require.Equal(t, 1, c.p, "the miss still adapts the target")

	_, tracked := c.items["y"]
	require.False(t, tracked, "the ghost is consumed by the hit")

	_, ok = c.Get("y")
	require.False(t, ok)
	require.Equal(t, 1, c.p, "a plain miss adapts nothing")
}

func TestARC_FrequencyGhostHitShrinksTarget(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)
	c.Put("x", 1)
	c.Get("x") // x -> T2
	c.Put("y", 2)
	c.Put("z", 3)  // y -> B1
	c.Put("y", 20) // revive: p grows to 1, z -> B1, y -> T2
	require.Equal(t, 1, c.p)

	// T1 is below its grown target, so the next admission demotes from
	// the frequency side instead.
	c.Put("w", 4)
	require.Equal(t, inB2, c.locOf(t, "x"))

	_, ok := c.Get("x")
	require.False(t, ok)
	require.Equal(t, 0, c.p, "a B2 hit steers capacity back toward frequency")
}

func TestARC_FrequencySideSurvivesScan(t *testing.T) {
	t.Parallel()

	c := New[string, int](4)
	for _, k := range []string{"h1", "h2"} {
		c.Put(k, 1)
		c.Get(k)
	}

	for i := 0; i < 10; i++ {
		c.Put(fmt.Sprintf("scan-%d", i), i)
	}

	require.True(t, c.Contains("h1"))
	require.True(t, c.Contains("h2"))
	require.Equal(t, 2, c.t2.Len())
	require.Equal(t, 4, c.Len())
}

func TestARC_BoundsHold(t *testing.T) {
	t.Parallel()

	const capacity = 5
	c := New[int, int](capacity)
	check := func(op string, i int) {
		require.LessOrEqual(t, c.t1.Len()+c.t2.Len(), capacity, "%s %d: residents", op, i)
		require.LessOrEqual(t, c.t1.Len()+c.b1.Len(), capacity, "%s %d: recency side", op, i)
		total := c.t1.Len() + c.t2.Len() + c.b1.Len() + c.b2.Len()
		require.LessOrEqual(t, total, 2*capacity, "%s %d: identities", op, i)
		require.Equal(t, total, len(c.items), "%s %d: index in sync", op, i)
	}

	for i := 0; i < 40; i++ {
		c.Put(i, i)
		check("put", i)
		if i%3 == 0 {
			c.Get(i / 2)
			check("get", i)
		}
	}
}

func TestARC_FullT1WithEmptyB1EvictsOutright(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	_, tracked := c.items["a"]
	require.False(t, tracked, "the oldest once-seen key leaves without a ghost")
	require.Equal(t, 0, c.b1.Len())
	require.Equal(t, 2, c.Len())
	require.True(t, c.Contains("b"))
	require.True(t, c.Contains("c"))
}

func TestARC_NonPositiveCapacity_StoresNothing(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{0, -2} {
		c := New[int, int](capacity)
		c.Put(1, 1)
		_, ok := c.Get(1)
		require.False(t, ok)
		require.Equal(t, 0, c.Len())
		require.Equal(t, 0, c.GetOrZero(1))
	}
}
