// Package cache provides a generic, sharded in-memory cache with strict
// recency eviction, per-entry TTL, coalesced loading and metrics hooks.
//
// # Design
//
//   - Concurrency: the key space is split across independent shards, each
//     a recency engine behind its own RWMutex. Keys route to shards by a
//     64-bit FNV-1a hash of the key. The shard count is taken exactly as
//     configured; a power-of-two count routes with a mask, anything else
//     with a modulo.
//
//   - Storage: each shard wraps the engine from policy/lru, which keeps a
//     map for lookups and an intrusive most- to least-recently-used list
//     for ordering. All operations are O(1) expected.
//
//   - Capacity: Options.Capacity is a total entry budget, split evenly
//     across shards (ceil division, at least one entry per shard).
//     Construction never fails: capacities and shard counts below their
//     minimums clamp, with Capacity <= 0 yielding an always-empty cache.
//
//   - TTL: entries may carry an absolute deadline. Expiration is lazy; an
//     expired entry is collected when a read or an Add touches it, and
//     counts as an eviction with reason EvictTTL.
//
//   - GetOrLoad: misses are filled through Options.Loader, with concurrent
//     loads of the same key collapsed into a single call.
//
//   - Observability: Options.Metrics receives Hit/Miss/Evict signals (see
//     metrics/prom for a Prometheus adapter), Options.OnEvict sees every
//     evicted entry, and Stats() aggregates the per-shard counters.
//
// Other eviction strategies (LRU-K, LFU, ARC, 2Q) live as standalone
// single-threaded engines under policy/; this package is the concurrent
// front for the recency engine.
//
// # Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	c.Put("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//	c.Remove("a")
//
// # With TTL
//
//	c := cache.New[string, string](cache.Options[string, string]{Capacity: 1024})
//	c.PutWithTTL("tmp", "v", 200*time.Millisecond)
//	time.Sleep(300 * time.Millisecond)
//	_, ok := c.Get("tmp") // ok == false (expired)
//
// # With GetOrLoad
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        return "v:" + k, nil // e.g. fetch from DB
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
package cache
