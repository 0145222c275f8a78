package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/matchpulse/matchpulse/internal/platform/resilience"
)

type entry struct {
	value      any
	insertedAt time.Time
	expiresAt  time.Time
}

// Store is a process-wide key/value table with a fixed time-to-live. Expiry is
// lazy: an entry older than the TTL answers as a miss on read, there is no
// background sweep. Set unconditionally overwrites.
//
// When maxEntries > 0 the store is bounded and evicts the oldest entry
// (by insertion time) before admitting a new key.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	clock      clockwork.Clock
	flight     resilience.SingleFlight
}

// Option configures a Store.
type Option func(*Store)

// WithClock substitutes the wall clock, for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMaxEntries bounds the store to n entries with oldest-first eviction.
// n <= 0 leaves the store unbounded.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		s.maxEntries = n
	}
}

// NewStore builds a store whose entries live for ttl. A non-positive ttl
// disables expiry.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.clock.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	now := s.clock.Now()
	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	if s.maxEntries > 0 {
		if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
			s.evictOldestLocked()
		}
	}
	s.entries[key] = entry{
		value:      value,
		insertedAt: now,
		expiresAt:  expiresAt,
	}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len reports the number of entries currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key or invokes loader to produce it.
// Concurrent callers for the same uncached key share a single loader
// invocation, so at most one upstream fetch per key is ever in flight. Loader
// failures are never stored.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) evictOldestLocked() {
	oldestKey := ""
	var oldestAt time.Time
	for key, e := range s.entries {
		if oldestKey == "" || e.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.insertedAt
		}
	}
	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}
