package cache

import (
	"sync"

	"github.com/IvanBrykalov/polycache/internal/util"
	"github.com/IvanBrykalov/polycache/policy/lru"
)

// item wraps a stored value with its absolute expiration deadline in
// UnixNano. Zero means no expiration.
type item[V any] struct {
	val V
	exp int64
}

// shard is one independent partition: a recency engine behind its own
// lock. Expiration is lazy; an expired entry is collected when a read or
// an Add touches it.
type shard[K comparable, V any] struct {
	mu  sync.RWMutex
	eng *lru.Cache[K, item[V]]

	opt *Options[K, V]

	// Hot counters on separate cache lines so shards do not false-share.
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

func newShard[K comparable, V any](capacity int, opt *Options[K, V]) *shard[K, V] {
	s := &shard[K, V]{opt: opt}
	// The engine callback fires inside eng.Put while s.mu is held.
	s.eng = lru.NewWithEvict(capacity, func(k K, it item[V]) {
		s.noteEviction(k, it.val, EvictPolicy)
	})
	return s
}

func (s *shard[K, V]) put(key K, value V, exp int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eng.Put(key, item[V]{val: value, exp: exp})
}

// add inserts only when key is absent. An expired entry no longer counts
// as present: it is collected and overwritten.
func (s *shard[K, V]) add(key K, value V, exp int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if it, ok := s.eng.Peek(key); ok {
		if !s.expired(it) {
			return false
		}
		s.collectExpired(key, it)
	}
	s.eng.Put(key, item[V]{val: value, exp: exp})
	return true
}

func (s *shard[K, V]) get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.eng.Get(key)
	if !ok {
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	if s.expired(it) {
		s.collectExpired(key, it)
		s.misses.Add(1)
		s.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	s.hits.Add(1)
	s.opt.Metrics.Hit()
	return it.val, true
}

// remove deletes key if present. Explicit removal is not an eviction, so
// neither the eviction counter nor OnEvict fire.
func (s *shard[K, V]) remove(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Remove(key)
}

func (s *shard[K, V]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng.Len()
}

// ---- internals (mu held) ----

func (s *shard[K, V]) expired(it item[V]) bool {
	return it.exp != 0 && s.opt.Clock.Now().UnixNano() > it.exp
}

func (s *shard[K, V]) collectExpired(key K, it item[V]) {
	s.eng.Remove(key)
	s.noteEviction(key, it.val, EvictTTL)
}

func (s *shard[K, V]) noteEviction(key K, value V, reason EvictReason) {
	s.evicts.Add(1)
	s.opt.Metrics.Evict(reason)
	if cb := s.opt.OnEvict; cb != nil {
		cb(key, value, reason)
	}
}
