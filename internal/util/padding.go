// Package util holds internal helpers shared by the cache front: key
// hashing, shard routing and cache-line padding.
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize is assumed to be 64 bytes, which holds for the vast
// majority of current CPUs.
const CacheLineSize = 64

// CacheLinePad separates groups of hot fields so writers on different
// shards do not false-share a line.
type CacheLinePad struct{ _ [CacheLineSize]byte }

// PaddedAtomicInt64 is an atomic counter occupying a full cache line.
type PaddedAtomicInt64 struct {
	atomic.Int64
	_ [CacheLineSize - 8]byte
}

// PaddedAtomicUint64 is the unsigned counterpart of PaddedAtomicInt64.
type PaddedAtomicUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}

// Compile-time checks that the padded counters span exactly one line.
var (
	_ [CacheLineSize - unsafe.Sizeof(PaddedAtomicInt64{})]byte
	_ [CacheLineSize - unsafe.Sizeof(PaddedAtomicUint64{})]byte
)
