// Package twoq implements the 2Q cache engine.
//
// Admissions pass through a small FIFO-ish young queue (A1in); a key read
// again while young is promoted to the mature queue (Am), which is plain
// LRU. Keys pushed out of the young queue leave their key in a ghost list
// (A1out) so a prompt re-insert skips the probation and lands in Am
// directly. Scans therefore flow through A1in without touching the mature
// working set.
package twoq

import (
	"container/list"

	"github.com/IvanBrykalov/polycache/policy"
)

type entry[K comparable, V any] struct {
	key K
	val V
}

// Cache is the 2Q engine. Not safe for concurrent use.
type Cache[K comparable, V any] struct {
	cap      int
	capIn    int // A1in bound
	capGhost int // A1out bound

	in     *list.List // A1in, front = newest admission
	am     *list.List // Am, front = most recently used
	ghosts *list.List // A1out keys only, front = newest ghost

	inIdx  map[K]*list.Element
	amIdx  map[K]*list.Element
	ghoIdx map[K]*list.Element
}

var _ policy.Policy[int, string] = (*Cache[int, string])(nil)

// New returns a 2Q cache with the usual queue split: the young queue gets
// a quarter of the capacity and the ghost list half. A capacity <= 0
// yields an always-empty cache.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return NewWithSizes[K, V](capacity, capacity/4, capacity/2)
}

// NewWithSizes is New with explicit young-queue and ghost-list bounds.
// Both bounds clamp to at least one slot.
func NewWithSizes[K comparable, V any](capacity, inCapacity, ghostCapacity int) *Cache[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	if inCapacity < 1 {
		inCapacity = 1
	}
	if ghostCapacity < 1 {
		ghostCapacity = 1
	}
	return &Cache[K, V]{
		cap:      capacity,
		capIn:    inCapacity,
		capGhost: ghostCapacity,
		in:       list.New(),
		am:       list.New(),
		ghosts:   list.New(),
		inIdx:    make(map[K]*list.Element),
		amIdx:    make(map[K]*list.Element),
		ghoIdx:   make(map[K]*list.Element),
	}
}

// Put inserts key or updates its stored value. Updating a resident key
// counts as reuse: a young entry is promoted to the mature queue. A key
// remembered by the ghost list is admitted straight into the mature
// queue; anything else starts in the young queue.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.cap <= 0 {
		return
	}
	if el, ok := c.amIdx[key]; ok {
		el.Value.(*entry[K, V]).val = value
		c.am.MoveToFront(el)
		return
	}
	if el, ok := c.inIdx[key]; ok {
		e := el.Value.(*entry[K, V])
		e.val = value
		c.promote(el, e)
		return
	}

	e := &entry[K, V]{key: key, val: value}
	if gel, ok := c.ghoIdx[key]; ok {
		c.ghosts.Remove(gel)
		delete(c.ghoIdx, key)
		c.amIdx[key] = c.am.PushFront(e)
	} else {
		c.inIdx[key] = c.in.PushFront(e)
	}
	c.enforce()
}

// Get returns the value stored for key. A mature hit refreshes recency; a
// young hit promotes the entry to the mature queue. Ghosts hold no values
// and miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if el, ok := c.amIdx[key]; ok {
		c.am.MoveToFront(el)
		return el.Value.(*entry[K, V]).val, true
	}
	if el, ok := c.inIdx[key]; ok {
		e := el.Value.(*entry[K, V])
		c.promote(el, e)
		return e.val, true
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

// Contains reports whether key is resident in either queue.
func (c *Cache[K, V]) Contains(key K) bool {
	if _, ok := c.amIdx[key]; ok {
		return true
	}
	_, ok := c.inIdx[key]
	return ok
}

// Remove deletes key from the cache, clearing any ghost record as well,
// and reports whether a resident entry was removed. Explicit removal is
// not an eviction, so no ghost is left behind.
func (c *Cache[K, V]) Remove(key K) bool {
	if gel, ok := c.ghoIdx[key]; ok {
		c.ghosts.Remove(gel)
		delete(c.ghoIdx, key)
	}
	if el, ok := c.amIdx[key]; ok {
		c.am.Remove(el)
		delete(c.amIdx, key)
		return true
	}
	if el, ok := c.inIdx[key]; ok {
		c.in.Remove(el)
		delete(c.inIdx, key)
		return true
	}
	return false
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return c.in.Len() + c.am.Len() }

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

// Purge drops all entries and ghosts.
func (c *Cache[K, V]) Purge() {
	c.in.Init()
	c.am.Init()
	c.ghosts.Init()
	clear(c.inIdx)
	clear(c.amIdx)
	clear(c.ghoIdx)
}

// promote moves a young entry into the mature queue.
func (c *Cache[K, V]) promote(el *list.Element, e *entry[K, V]) {
	c.in.Remove(el)
	delete(c.inIdx, e.key)
	c.amIdx[e.key] = c.am.PushFront(e)
}

// enforce settles the queue bounds after an admission: the young queue
// sheds to the ghost list past its own bound, any remaining resident
// overflow is paid by the mature queue (young only when nothing mature
// is left) and finally the ghost list is trimmed.
func (c *Cache[K, V]) enforce() {
	if c.in.Len() > c.capIn {
		c.evictYoung()
	}
	for c.in.Len()+c.am.Len() > c.cap {
		if c.am.Len() > 0 {
			c.evictMature()
		} else {
			c.evictYoung()
		}
	}
	for c.ghosts.Len() > c.capGhost {
		tail := c.ghosts.Back()
		delete(c.ghoIdx, tail.Value.(K))
		c.ghosts.Remove(tail)
	}
}

// evictYoung drops the young queue's oldest entry, remembering its key as
// a ghost so a prompt re-insert bypasses probation.
func (c *Cache[K, V]) evictYoung() {
	el := c.in.Back()
	if el == nil {
		return
	}
	e := el.Value.(*entry[K, V])
	c.in.Remove(el)
	delete(c.inIdx, e.key)
	if old, ok := c.ghoIdx[e.key]; ok {
		c.ghosts.Remove(old)
	}
	c.ghoIdx[e.key] = c.ghosts.PushFront(e.key)
}

// evictMature drops the mature queue's least recently used entry.
func (c *Cache[K, V]) evictMature() {
	el := c.am.Back()
	if el == nil {
		return
	}
	e := el.Value.(*entry[K, V])
	c.am.Remove(el)
	delete(c.amIdx, e.key)
}
