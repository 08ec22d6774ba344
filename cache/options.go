package cache

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/clock"
)

// EvictReason explains why an entry left the cache.
type EvictReason int

const (
	// EvictPolicy marks an entry displaced by the shard's recency order
	// at capacity.
	EvictPolicy EvictReason = iota
	// EvictTTL marks an expired entry, collected lazily when it is next
	// touched.
	EvictTTL
)

// Metrics receives cache-level observability signals. Implementations
// must be safe for concurrent use; NoopMetrics is used when nothing is
// configured.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
}

// Options configures the sharded cache. The zero value of every field is
// usable; New applies the documented defaults and clamps instead of
// failing, so construction always succeeds.
type Options[K comparable, V any] struct {
	// Capacity is the total entry budget, split evenly across shards
	// (ceil division, at least one entry per shard). A value <= 0 yields
	// an always-empty cache: every write is a no-op, every read a miss.
	Capacity int

	// Shards is the number of independent partitions. Values below 1
	// clamp to 1. The count is used exactly as given; routing masks when
	// it happens to be a power of two and takes a modulo otherwise.
	Shards int

	// DefaultTTL applies to Put and Add. Zero or negative disables
	// expiration. PutWithTTL overrides it per entry.
	DefaultTTL time.Duration

	// Loader fetches a value on miss for GetOrLoad. Concurrent loads of
	// the same key are coalesced.
	Loader func(ctx context.Context, key K) (V, error)

	// OnEvict observes every eviction. It runs under the shard lock, so
	// keep it light and never call back into the cache.
	OnEvict func(key K, value V, reason EvictReason)

	// Metrics receives hit/miss/eviction signals. Nil means NoopMetrics.
	Metrics Metrics

	// Clock is the time source for TTL handling. Nil means the system
	// clock; tests substitute clock.NewTestClock.
	Clock clock.Clock
}
