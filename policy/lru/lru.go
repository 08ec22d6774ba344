// Package lru implements the classic least-recently-used cache engine.
//
// Entries live on an intrusive doubly linked list ordered from most to
// least recently used; a map indexes list nodes by key so every operation
// is O(1). The engine is not safe for concurrent use.
package lru

import "github.com/IvanBrykalov/polycache/policy"

// EvictCallback runs for each entry displaced by a capacity eviction.
// Explicit Remove and Purge do not invoke it.
type EvictCallback[K comparable, V any] func(key K, value V)

// entry is an intrusive list node. The list head is the most recently
// used entry, the tail the least recently used.
type entry[K comparable, V any] struct {
	key        K
	val        V
	prev, next *entry[K, V]
}

// Cache is a fixed-capacity cache with strict recency ordering: every
// Put and Get marks the touched entry most recently used, and an insert
// at capacity displaces the least recently used entry.
type Cache[K comparable, V any] struct {
	cap     int
	items   map[K]*entry[K, V]
	head    *entry[K, V]
	tail    *entry[K, V]
	onEvict EvictCallback[K, V]
}

var _ policy.Policy[int, string] = (*Cache[int, string])(nil)

// New returns a cache holding at most capacity entries. A capacity <= 0
// yields an always-empty cache: every Put is a no-op and every Get a miss.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return NewWithEvict[K, V](capacity, nil)
}

// NewWithEvict is New with a callback observing capacity evictions.
func NewWithEvict[K comparable, V any](capacity int, onEvict EvictCallback[K, V]) *Cache[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Cache[K, V]{
		cap:     capacity,
		items:   make(map[K]*entry[K, V], capacity),
		onEvict: onEvict,
	}
}

// Put inserts key or updates its stored value, marking the entry most
// recently used either way.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.cap <= 0 {
		return
	}
	if e, ok := c.items[key]; ok {
		e.val = value
		c.moveToFront(e)
		return
	}
	if len(c.items) >= c.cap {
		c.evictOldest()
	}
	e := &entry[K, V]{key: key, val: value}
	c.items[key] = e
	c.pushFront(e)
}

// Get returns the value stored for key and marks the entry most recently
// used. The boolean reports whether the key was present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if e, ok := c.items[key]; ok {
		c.moveToFront(e)
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

// Peek returns the value stored for key without disturbing recency order.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	if e, ok := c.items[key]; ok {
		return e.val, true
	}
	var zero V
	return zero, false
}

// Contains reports key residency without disturbing recency order.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Remove deletes key and reports whether an entry was present. The
// eviction callback is not invoked.
func (c *Cache[K, V]) Remove(key K) bool {
	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(e)
	delete(c.items, key)
	return true
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

// Purge drops all entries without invoking the eviction callback.
func (c *Cache[K, V]) Purge() {
	clear(c.items)
	c.head, c.tail = nil, nil
}

func (c *Cache[K, V]) pushFront(e *entry[K, V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	if c.tail == e {
		c.tail = e.prev
	}
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	e.prev = nil
	e.next = c.head
	c.head.prev = e
	c.head = e
}

func (c *Cache[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if c.head == e {
		c.head = e.next
	}
	if c.tail == e {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

func (c *Cache[K, V]) evictOldest() {
	e := c.tail
	if e == nil {
		return
	}
	c.unlink(e)
	delete(c.items, e.key)
	if c.onEvict != nil {
		c.onEvict(e.key, e.val)
	}
}
