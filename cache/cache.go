package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/IvanBrykalov/polycache/internal/singleflight"
	"github.com/IvanBrykalov/polycache/internal/util"
)

// ErrNoLoader is returned by GetOrLoad when Options.Loader is unset.
var ErrNoLoader = errors.New("cache: no Loader configured")

// cache is a sharded in-memory KV store. All methods are safe for
// concurrent use by multiple goroutines.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	closed atomic.Bool

	opt Options[K, V]

	// sf coalesces concurrent loads of the same key in GetOrLoad.
	sf singleflight.Group[K, V]
}

// New constructs a cache from opt. It never fails: a misconfigured field
// is clamped to its nearest sensible value (see Options), so the worst
// misconfiguration yields a cache that stores nothing rather than a
// panic at startup.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Clock == nil {
		opt.Clock = clock.NewDefaultClock()
	}
	if opt.Shards < 1 {
		opt.Shards = 1
	}

	perShard := 0
	if opt.Capacity > 0 {
		perShard = (opt.Capacity + opt.Shards - 1) / opt.Shards
	}

	c := &cache[K, V]{
		hash: util.HashKey[K],
		opt:  opt,
	}
	c.shards = make([]*shard[K, V], opt.Shards)
	for i := range c.shards {
		// Shards share the defaulted copy of the options.
		c.shards[i] = newShard(perShard, &c.opt)
	}
	return c
}

// Put inserts key→value or updates the stored value, refreshing the
// entry's recency and applying DefaultTTL if one is configured.
func (c *cache[K, V]) Put(key K, value V) {
	if c.closed.Load() {
		return
	}
	c.getShard(key).put(key, value, c.defaultDeadline())
}

// PutWithTTL is Put with a per-entry TTL overriding DefaultTTL. A
// non-positive ttl stores the entry without expiration.
func (c *cache[K, V]) PutWithTTL(key K, value V, ttl time.Duration) {
	if c.closed.Load() {
		return
	}
	c.getShard(key).put(key, value, c.deadline(ttl))
}

// Add inserts key→value only if key is absent and reports whether the
// insert happened. DefaultTTL applies.
func (c *cache[K, V]) Add(key K, value V) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(key).add(key, value, c.defaultDeadline())
}

// Get returns the value stored for key, refreshing the entry's recency.
// Expired entries are collected and report a miss.
func (c *cache[K, V]) Get(key K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(key).get(key)
}

// GetOrZero returns the value stored for key, or the zero value of V on
// a miss.
func (c *cache[K, V]) GetOrZero(key K) V {
	v, _ := c.Get(key)
	return v
}

// GetOrLoad returns the value for key, fetching it through Options.Loader
// on a miss. Concurrent loads of the same key share one Loader call; a
// successful load is stored with DefaultTTL. Without a Loader it returns
// ErrNoLoader.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, key K) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	return c.sf.Do(ctx, key, func() (V, error) {
		// Another flight may have filled the entry while we queued.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, key)
		if err == nil {
			c.Put(key, v)
		}
		return v, err
	})
}

// Remove deletes key if present and reports whether an entry was removed.
func (c *cache[K, V]) Remove(key K) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(key).remove(key)
}

// Len returns the number of resident entries across all shards. Expired
// entries that have not been touched since their deadline still count.
func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.len()
	}
	return total
}

// Stats aggregates the shard counters.
func (c *cache[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += uint64(s.hits.Load())
		st.Misses += uint64(s.misses.Load())
		st.Evictions += s.evicts.Load()
	}
	return st
}

// Close marks the cache closed. Subsequent writes are ignored and reads
// miss. Close is idempotent and always returns nil.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// ---- helpers ----

func (c *cache[K, V]) getShard(key K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(key), len(c.shards))]
}

func (c *cache[K, V]) defaultDeadline() int64 {
	return c.deadline(c.opt.DefaultTTL)
}

// deadline converts a relative TTL into an absolute UnixNano deadline.
// Non-positive TTLs return 0, meaning no expiration.
func (c *cache[K, V]) deadline(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return c.opt.Clock.Now().UnixNano() + int64(ttl)
}
