package cache

import (
	"context"
	"time"

	"github.com/IvanBrykalov/polycache/policy"
)

// Cache is the sharded, concurrency-safe front over the recency engine.
// Operations are amortized O(1): one hash, one map access and a constant
// number of pointer fixes under a shard lock.
type Cache[K comparable, V any] interface {
	// Put inserts key→value or updates the stored value, refreshing
	// recency. DefaultTTL applies when configured.
	Put(key K, value V)

	// PutWithTTL is Put with a per-entry TTL. A non-positive ttl stores
	// the entry without expiration, regardless of DefaultTTL.
	PutWithTTL(key K, value V, ttl time.Duration)

	// Add inserts key→value only if key is absent (expired entries count
	// as absent) and reports whether the insert happened.
	Add(key K, value V) bool

	// Get returns the value stored for key and refreshes its recency.
	Get(key K) (V, bool)

	// GetOrZero is Get with the miss collapsed into V's zero value.
	GetOrZero(key K) V

	// GetOrLoad returns the value for key, loading it via Options.Loader
	// on a miss. Concurrent loads of one key are coalesced. Returns
	// ErrNoLoader when no Loader is configured.
	GetOrLoad(ctx context.Context, key K) (V, error)

	// Remove deletes key if present and reports whether it was.
	Remove(key K) bool

	// Len returns the number of resident entries across all shards.
	Len() int

	// Stats aggregates hit/miss/eviction counters across all shards.
	Stats() Stats

	// Close marks the cache closed: writes become no-ops and reads miss.
	// Always returns nil.
	Close() error
}

// The sharded front satisfies the engine contract, so it can stand in
// wherever a single-threaded engine is accepted.
var _ policy.Policy[string, int] = (Cache[string, int])(nil)
