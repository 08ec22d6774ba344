// Package policy defines the contract shared by every eviction engine and
// hosts the engine implementations in its subpackages.
//
// An engine is a complete single-threaded cache: it owns its entries and
// its bookkeeping and differs from its siblings only in which entry it
// sacrifices at capacity. Engines are interchangeable behind Policy, so a
// workload driver can swap eviction strategies without touching call sites.
// None of the engines lock; wrap one (or use the sharded front in package
// cache) when concurrent access is needed.
package policy

// Policy is the capability set common to all engines.
//
// Semantics every implementation honors:
//   - Put inserts or updates; at capacity an insert first displaces the
//     entry chosen by the engine's strategy.
//   - Get reports a hit with the stored value, or a miss with the zero
//     value. A hit counts as an access for the engine's bookkeeping.
//   - GetOrZero collapses the miss case into V's zero value for callers
//     that treat absence and zero alike.
//
// A non-positive capacity yields a functioning engine that stores
// nothing: construction never fails.
type Policy[K comparable, V any] interface {
	Put(key K, value V)
	Get(key K) (V, bool)
	GetOrZero(key K) V
}
