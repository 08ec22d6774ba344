// Package lruk implements a history-gated variant of the recency cache.
//
// Keys do not enter the main tier on first contact. A Put on an unknown
// key only records the value as pending in a bounded history tier; the
// key is promoted to the main tier once its accesses reach the threshold
// k. One-shot keys therefore churn through the cheap history tier and
// never displace established entries.
package lruk

import (
	"github.com/IvanBrykalov/polycache/policy"
	"github.com/IvanBrykalov/polycache/policy/lru"
)

// record is the history-tier bookkeeping for a key that has not yet
// earned residency: its access count and the value waiting for promotion.
type record[V any] struct {
	count   int
	pending V
}

// Cache is the two-tier engine. The main tier holds promoted entries in
// recency order; the history tier holds records for gated keys, itself
// recency-ordered so stale candidates age out. A key lives in at most one
// tier at a time. Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	k    int
	main *lru.Cache[K, V]
	hist *lru.Cache[K, *record[V]]
}

var _ policy.Policy[int, string] = (*Cache[int, string])(nil)

// New constructs a history-gated cache. mainCapacity bounds the promoted
// tier and historyCapacity the gate bookkeeping; both treat non-positive
// values as always-empty tiers. k is the access count a key needs for
// promotion and clamps to 1.
func New[K comparable, V any](mainCapacity, historyCapacity, k int) *Cache[K, V] {
	if k < 1 {
		k = 1
	}
	return &Cache[K, V]{
		k:    k,
		main: lru.New[K, V](mainCapacity),
		hist: lru.New[K, *record[V]](historyCapacity),
	}
}

// Put stores key's value. A promoted key is updated in place in the main
// tier; any other key only gains (or refreshes) a history record carrying
// the value as pending, counting one access. Inserting a new record may
// displace the history tier's least recently touched record, which
// forgets that key's progress entirely.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.main.Contains(key) {
		c.main.Put(key, value)
		return
	}
	if r, ok := c.hist.Get(key); ok {
		r.count++
		r.pending = value
		return
	}
	c.hist.Put(key, &record[V]{count: 1, pending: value})
}

// Get returns the value for key. A main-tier hit behaves like a plain
// recency-cache hit. A history-tier key counts the access and, once its
// count reaches k, is promoted: the pending value moves into the main
// tier (displacing that tier's least recent entry when full), the history
// record is consumed, and the access reports a hit. A key never seen by
// Put has no record, so it misses without side effects and can never be
// promoted by reads alone.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if v, ok := c.main.Get(key); ok {
		return v, true
	}
	r, ok := c.hist.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	r.count++
	if r.count < c.k {
		var zero V
		return zero, false
	}
	c.main.Put(key, r.pending)
	c.hist.Remove(key)
	return r.pending, true
}

// GetOrZero returns the value stored for key, or the zero value of V on
// a miss.
func (c *Cache[K, V]) GetOrZero(key K) V {
	v, _ := c.Get(key)
	return v
}

// Contains reports whether key is resident in the main tier. Keys still
// gated in history are not resident.
func (c *Cache[K, V]) Contains(key K) bool {
	return c.main.Contains(key)
}

// Remove drops key from whichever tier holds it and reports whether
// anything was dropped.
func (c *Cache[K, V]) Remove(key K) bool {
	if c.main.Remove(key) {
		return true
	}
	return c.hist.Remove(key)
}

// Len returns the number of promoted entries. Gated history records do
// not count: they hold no servable value until promotion.
func (c *Cache[K, V]) Len() int { return c.main.Len() }

// Cap returns the main tier capacity.
func (c *Cache[K, V]) Cap() int { return c.main.Cap() }

// Purge drops both tiers.
func (c *Cache[K, V]) Purge() {
	c.main.Purge()
	c.hist.Purge()
}
