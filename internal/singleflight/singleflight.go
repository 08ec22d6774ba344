// Package singleflight collapses concurrent calls that share a key into
// a single execution whose result every caller receives.
package singleflight

import (
	"context"
	"sync"
)

// Group deduplicates in-flight work by key. The zero value is ready to
// use. The first caller for a key becomes the leader and runs the
// function; callers arriving while it runs become followers and block on
// the shared result.
//
// A follower's context cancellation releases only that follower. The
// leader is never interrupted: callers that need the work itself to stop
// must thread a context into the function they pass.
type Group[K comparable, V any] struct {
	mu      sync.Mutex
	flights map[K]*flight[V]
}

// flight carries one execution. val and err are published before done is
// closed, so any read after <-done observes them.
type flight[V any] struct {
	done chan struct{}
	val  V
	err  error
}

func (f *flight[V]) wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Do returns the result of fn for key, executing it at most once across
// concurrent callers. The result is not cached: once the leader returns
// and the flight is cleared, the next Do runs fn again.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (V, error) {
	g.mu.Lock()
	if g.flights == nil {
		g.flights = make(map[K]*flight[V])
	}
	if f, ok := g.flights[key]; ok {
		g.mu.Unlock()
		return f.wait(ctx)
	}
	f := &flight[V]{done: make(chan struct{})}
	g.flights[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()
	close(f.done)

	g.mu.Lock()
	delete(g.flights, key)
	g.mu.Unlock()

	return f.val, f.err
}
