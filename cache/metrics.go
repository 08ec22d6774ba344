package cache

// NoopMetrics is a Metrics implementation that does nothing. It is the
// default when no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}

var _ Metrics = NoopMetrics{}

// Stats is a point-in-time aggregate of the per-shard counters. It is
// cheap to take: one atomic read per counter per shard, no locks.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns the fraction of lookups served from the cache, in
// [0, 1]. It returns 0 when no lookups happened yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
