// Package util holds internal helpers shared by the cache front: key
// hashing, shard routing and cache-line padding.
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import "fmt"

const (
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

// HashKey hashes the common comparable key kinds with 64-bit FNV-1a.
// Strings hash their bytes, integer keys hash their little-endian
// fixed-width encoding, and other types must implement fmt.Stringer.
// Unsupported kinds panic so a bad key type fails loudly on first use
// instead of quietly collapsing onto a single shard.
func HashKey[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return hashString(v)
	case int:
		return hashUint64(uint64(v))
	case int8:
		return hashUint64(uint64(uint8(v)))
	case int16:
		return hashUint64(uint64(uint16(v)))
	case int32:
		return hashUint64(uint64(uint32(v)))
	case int64:
		return hashUint64(uint64(v))
	case uint:
		return hashUint64(uint64(v))
	case uint8:
		return hashUint64(uint64(v))
	case uint16:
		return hashUint64(uint64(v))
	case uint32:
		return hashUint64(uint64(v))
	case uint64:
		return hashUint64(v)
	case uintptr:
		return hashUint64(uint64(v))
	case fmt.Stringer:
		return hashString(v.String())
	default:
		panic(fmt.Sprintf("util.HashKey: unsupported key type %T; use a string or integer key, or implement fmt.Stringer", k))
	}
}

func hashString(s string) uint64 {
	h := fnvOffset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

func hashUint64(u uint64) uint64 {
	h := fnvOffset64
	for i := 0; i < 8; i++ {
		h ^= u & 0xff
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
