// Package arc implements an adaptive replacement cache engine.
//
// The engine splits residency between a recency list T1 (keys seen once
// since admission) and a frequency list T2 (keys seen at least twice),
// and remembers recently evicted keys in the ghost lists B1 and B2.
// Ghosts carry no values; a hit on one is evidence that the matching
// resident list was sized too small, so the target size p of T1 shifts
// toward it. The cache tracks at most capacity resident entries and at
// most twice that many identities overall.
package arc

import (
	"container/list"

	"github.com/IvanBrykalov/polycache/policy"
)

// where tags which of the four lists currently holds an entry.
type where uint8

const (
	inT1 where = iota + 1 // resident, seen once since admission
	inT2                  // resident, seen again
	inB1                  // ghost of a T1 eviction
	inB2                  // ghost of a T2 eviction
)

type entry[K comparable, V any] struct {
	key K
	val V // zeroed while the entry is a ghost
	loc where
}

// Cache is the adaptive engine. Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	cap   int
	p     int // target size of T1, adapted on ghost hits, in [0, cap]
	t1    *list.List
	t2    *list.List
	b1    *list.List
	b2    *list.List
	items map[K]*list.Element
}

var _ policy.Policy[int, string] = (*Cache[int, string])(nil)

// New returns an adaptive cache holding at most capacity entries. A
// capacity <= 0 yields an always-empty cache.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Cache[K, V]{
		cap:   capacity,
		t1:    list.New(),
		t2:    list.New(),
		b1:    list.New(),
		b2:    list.New(),
		items: make(map[K]*list.Element, capacity),
	}
}

// Get returns the value for key when it is resident, refreshing the entry
// into T2. A ghost hit adapts p and drops the ghost but still reports a
// miss: ghosts hold identity only and never serve data. An unknown key
// misses without side effects.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	el, ok := c.items[key]
	if ok {
		e := el.Value.(*entry[K, V])
		switch e.loc {
		case inT1, inT2:
			c.refresh(el, e)
			return e.val, true
		case inB1:
			c.growT1()
			c.dropGhost(el, e)
		case inB2:
			c.growT2()
			c.dropGhost(el, e)
		}
	}
	var zero V
	return zero, false
}

// GetOrZero returns the value stored for key, or the zero value of V on
// a miss.
func (c *Cache[K, V]) GetOrZero(key K) V {
	v, _ := c.Get(key)
	return v
}

// Put inserts key or updates its stored value. A resident key refreshes
// into T2. A ghost key adapts p toward the list that remembered it and
// revives into T2, evicting a resident entry if the cache is full. An
// unknown key is admitted into T1 after the identity budget is enforced.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.cap <= 0 {
		return
	}
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		switch e.loc {
		case inT1, inT2:
			e.val = value
			c.refresh(el, e)
		case inB1:
			c.growT1()
			c.revive(el, e, value)
		case inB2:
			c.growT2()
			c.revive(el, e, value)
		}
		return
	}

	// A brand new key. Keep the recency side within capacity, then keep
	// the total identity count within twice the capacity.
	if c.t1.Len()+c.b1.Len() >= c.cap {
		if c.b1.Len() > 0 {
			c.dropOldestGhost(c.b1)
		} else {
			// T1 alone is at capacity: push its oldest entry all the
			// way out, ghost included.
			c.replace()
			c.dropOldestGhost(c.b1)
		}
	}
	if c.t1.Len()+c.t2.Len()+c.b1.Len()+c.b2.Len() >= 2*c.cap {
		if c.b1.Len() > c.b2.Len() {
			c.dropOldestGhost(c.b1)
		} else {
			c.dropOldestGhost(c.b2)
		}
	}
	c.replace()

	e := &entry[K, V]{key: key, val: value, loc: inT1}
	c.items[key] = c.t1.PushFront(e)
}

// Contains reports whether key is resident. Ghosts do not count.
func (c *Cache[K, V]) Contains(key K) bool {
	el, ok := c.items[key]
	if !ok {
		return false
	}
	loc := el.Value.(*entry[K, V]).loc
	return loc == inT1 || loc == inT2
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return c.t1.Len() + c.t2.Len() }

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

func (c *Cache[K, V]) listOf(loc where) *list.List {
	switch loc {
	case inT1:
		return c.t1
	case inT2:
		return c.t2
	case inB1:
		return c.b1
	default:
		return c.b2
	}
}

// growT1 reacts to a B1 hit: the recency side was undersized.
func (c *Cache[K, V]) growT1() {
	delta := 1
	if c.b1.Len() > 0 && c.b2.Len() > c.b1.Len() {
		delta = c.b2.Len() / c.b1.Len()
	}
	c.p = min(c.p+delta, c.cap)
}

// growT2 reacts to a B2 hit: the frequency side was undersized.
func (c *Cache[K, V]) growT2() {
	delta := 1
	if c.b2.Len() > 0 && c.b1.Len() > c.b2.Len() {
		delta = c.b1.Len() / c.b2.Len()
	}
	c.p = max(c.p-delta, 0)
}

// refresh moves a resident entry to the front of T2.
func (c *Cache[K, V]) refresh(el *list.Element, e *entry[K, V]) {
	c.listOf(e.loc).Remove(el)
	e.loc = inT2
	c.items[e.key] = c.t2.PushFront(e)
}

// revive turns a ghost back into a T2 resident carrying value.
func (c *Cache[K, V]) revive(el *list.Element, e *entry[K, V], value V) {
	c.listOf(e.loc).Remove(el)
	c.replace()
	e.val = value
	e.loc = inT2
	c.items[e.key] = c.t2.PushFront(e)
}

// replace frees one resident slot by demoting a resident entry to its
// ghost list. T1 gives up its oldest entry while it holds at least
// max(1, p) entries, otherwise T2 does. No-op below capacity.
func (c *Cache[K, V]) replace() {
	if c.t1.Len()+c.t2.Len() < c.cap {
		return
	}
	if c.t1.Len() >= max(1, c.p) {
		c.demote(c.t1, inB1)
	} else {
		c.demote(c.t2, inB2)
	}
}

// demote moves a resident list's oldest entry into ghost state, dropping
// its value.
func (c *Cache[K, V]) demote(from *list.List, ghost where) {
	el := from.Back()
	if el == nil {
		return
	}
	e := el.Value.(*entry[K, V])
	from.Remove(el)
	var zero V
	e.val = zero
	e.loc = ghost
	c.items[e.key] = c.listOf(ghost).PushFront(e)
}

// dropGhost forgets a ghost entirely.
func (c *Cache[K, V]) dropGhost(el *list.Element, e *entry[K, V]) {
	c.listOf(e.loc).Remove(el)
	delete(c.items, e.key)
}

func (c *Cache[K, V]) dropOldestGhost(ghosts *list.List) {
	el := ghosts.Back()
	if el == nil {
		return
	}
	c.dropGhost(el, el.Value.(*entry[K, V]))
}
