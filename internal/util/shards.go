package util

import (
	"math/bits"
	"runtime"
)

// IsPowerOfTwo reports whether x is a positive power of two.
func IsPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// NextPow2 returns the smallest power of two >= x. Zero maps to 1 and
// values beyond 1<<63 clamp to 1<<63.
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	if x > 1<<63 {
		return 1 << 63
	}
	return 1 << bits.Len64(x-1)
}

// ShardIndex maps a key hash onto one of shards partitions. A power-of-two
// count routes with a mask, anything else with a modulo.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}

// ReasonableShardCount derives a shard count from available parallelism:
// twice GOMAXPROCS rounded up to a power of two, capped at 256. The cap
// keeps per-shard maps from getting too sparse on very wide machines.
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	n := int(NextPow2(uint64(2 * p)))
	if n > 256 {
		n = 256
	}
	return n
}
