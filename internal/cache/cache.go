// Package cache provides the process-wide TTL cache for aggregation results.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Clock returns the current time. Injected so tests can control expiry
// deterministically instead of sleeping.
type Clock func() time.Time

type entry struct {
	value   interface{}
	expires time.Time
}

// Store is an in-memory cache with a fixed time-to-live per entry.
// Entries are process-wide, not per-viewer. Concurrent misses on the same key
// share a single computation, so repeated renders within the TTL trigger at
// most one upstream fetch.
type Store struct {
	ttl   time.Duration
	now   Clock
	mu    sync.Mutex
	items map[string]entry
	group singleflight.Group
}

// New creates a Store. A nil clock defaults to time.Now.
func New(ttl time.Duration, now Clock) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		ttl:   ttl,
		now:   now,
		items: make(map[string]entry),
	}
}

// Key builds a cache key from an operation name, an account and the
// operation's parameters.
func Key(op, account string, params ...interface{}) string {
	parts := []string{op, account}
	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, "/")
}

// Get returns the cached value for key if present and not expired.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	if !ok || s.now().After(e.expires) {
		delete(s.items, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the configured TTL.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = entry{value: value, expires: s.now().Add(s.ttl)}
}

// Do returns the cached value for key, or computes it with fn and caches the
// result on success. The returned bool reports whether the value was served
// from cache. Failed computations are never cached, so the next call retries.
func (s *Store) Do(key string, fn func() (interface{}, error)) (interface{}, bool, error) {
	if v, ok := s.Get(key); ok {
		return v, true, nil
	}

	var hit bool
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Another caller may have filled the entry while we queued.
		if v, ok := s.Get(key); ok {
			hit = true
			return v, nil
		}
		v, err := fn()
		if err != nil {
			return nil, err
		}
		s.Set(key, v)
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, hit, nil
}
