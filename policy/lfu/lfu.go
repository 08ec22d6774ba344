// Package lfu implements a least-frequently-used cache engine with
// optional frequency aging.
//
// Entries are bucketed by access count. Each bucket keeps its entries in
// touch order, so eviction picks the least recently touched entry of the
// lowest occupied bucket in O(1). Without aging, long-dead entries can sit
// on inflated counts forever; the aging variant watches the mean count and
// halves every count once the mean crosses a threshold, letting newly hot
// keys overtake formerly hot ones.
package lfu

import (
	"container/list"
	"slices"

	"github.com/IvanBrykalov/polycache/policy"
)

type entry[K comparable, V any] struct {
	key  K
	val  V
	freq int
}

// Cache is the frequency engine. Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	cap     int
	maxAvg  int // decay threshold on the mean count; <= 0 disables aging
	minFreq int
	freqSum int
	items   map[K]*list.Element
	buckets map[int]*list.List // count -> entries, front = most recently touched
}

var _ policy.Policy[int, string] = (*Cache[int, string])(nil)

// New returns a frequency cache without aging. A capacity <= 0 yields an
// always-empty cache.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return NewWithAging[K, V](capacity, 0)
}

// NewWithAging returns a frequency cache that runs a decay pass whenever
// the mean access count exceeds maxAverage. A non-positive maxAverage
// disables aging.
func NewWithAging[K comparable, V any](capacity, maxAverage int) *Cache[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Cache[K, V]{
		cap:     capacity,
		maxAvg:  maxAverage,
		items:   make(map[K]*list.Element, capacity),
		buckets: make(map[int]*list.List),
	}
}

// Put inserts key with an access count of one, or updates the stored
// value and counts an access. An insert at capacity first evicts the
// least frequent entry, breaking count ties by least recent touch.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.cap <= 0 {
		return
	}
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.val = value
		c.touch(el, e)
		return
	}
	if len(c.items) >= c.cap {
		c.evictLeastFrequent()
	}
	e := &entry[K, V]{key: key, val: value, freq: 1}
	c.items[key] = c.bucket(1).PushFront(e)
	c.minFreq = 1
	c.freqSum++
	c.maybeAge()
}

// Get returns the value stored for key and counts an access.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	c.touch(el, e)
	return e.val, true
}

// GetOrZero returns the value stored for key, or the zero value of V on
// a miss.
func (c *Cache[K, V]) GetOrZero(key K) V {
	v, _ := c.Get(key)
	return v
}

// Peek returns the value stored for key without counting an access.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	if el, ok := c.items[key]; ok {
		return el.Value.(*entry[K, V]).val, true
	}
	var zero V
	return zero, false
}

// Contains reports key residency without counting an access.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Remove deletes key and reports whether an entry was present.
func (c *Cache[K, V]) Remove(key K) bool {
	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(el, el.Value.(*entry[K, V]))
	return true
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

// Purge drops all entries and resets the frequency bookkeeping.
func (c *Cache[K, V]) Purge() {
	clear(c.items)
	clear(c.buckets)
	c.minFreq = 0
	c.freqSum = 0
}

func (c *Cache[K, V]) bucket(freq int) *list.List {
	b := c.buckets[freq]
	if b == nil {
		b = list.New()
		c.buckets[freq] = b
	}
	return b
}

// touch moves the entry one bucket up and refreshes its in-bucket recency.
func (c *Cache[K, V]) touch(el *list.Element, e *entry[K, V]) {
	old := e.freq
	b := c.buckets[old]
	b.Remove(el)
	if b.Len() == 0 {
		delete(c.buckets, old)
		if c.minFreq == old {
			c.minFreq = old + 1
		}
	}
	e.freq = old + 1
	c.items[e.key] = c.bucket(e.freq).PushFront(e)
	c.freqSum++
	c.maybeAge()
}

func (c *Cache[K, V]) evictLeastFrequent() {
	b := c.buckets[c.minFreq]
	if b == nil {
		return
	}
	el := b.Back()
	c.removeElement(el, el.Value.(*entry[K, V]))
}

func (c *Cache[K, V]) removeElement(el *list.Element, e *entry[K, V]) {
	b := c.buckets[e.freq]
	b.Remove(el)
	if b.Len() == 0 {
		delete(c.buckets, e.freq)
		if c.minFreq == e.freq {
			c.resetMinFreq()
		}
	}
	delete(c.items, e.key)
	c.freqSum -= e.freq
}

// resetMinFreq rescans bucket levels after the minimum bucket drained.
// The bucket count stays tiny in practice (counts cluster), so a linear
// scan is cheaper than keeping an ordered structure for the rare case.
func (c *Cache[K, V]) resetMinFreq() {
	c.minFreq = 0
	for f := range c.buckets {
		if c.minFreq == 0 || f < c.minFreq {
			c.minFreq = f
		}
	}
}

// maybeAge halves every stored count once the mean exceeds the threshold,
// with a floor of one. Buckets are rebuilt level by level in ascending
// order, each level oldest first, so entries merged into a shared level
// keep their relative recency and higher levels land in front.
func (c *Cache[K, V]) maybeAge() {
	if c.maxAvg <= 0 || len(c.items) == 0 {
		return
	}
	if c.freqSum <= c.maxAvg*len(c.items) {
		return
	}

	levels := make([]int, 0, len(c.buckets))
	for f := range c.buckets {
		levels = append(levels, f)
	}
	slices.Sort(levels)

	rebuilt := make(map[int]*list.List, len(c.buckets))
	sum := 0
	for _, f := range levels {
		aged := f / 2
		if aged < 1 {
			aged = 1
		}
		nb := rebuilt[aged]
		if nb == nil {
			nb = list.New()
			rebuilt[aged] = nb
		}
		for el := c.buckets[f].Back(); el != nil; el = el.Prev() {
			e := el.Value.(*entry[K, V])
			e.freq = aged
			c.items[e.key] = nb.PushFront(e)
			sum += aged
		}
	}
	c.buckets = rebuilt
	c.freqSum = sum
	c.resetMinFreq()
}
