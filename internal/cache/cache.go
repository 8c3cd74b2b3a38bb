// Package cache holds list-query results keyed by entity name so that a
// write to an entity can drop every cached read of it at once.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"media-catalog/internal/metrics"
)

// DefaultMaxEntries bounds the store when New is used.
const DefaultMaxEntries = 10000

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is safe for concurrent use. A nil *Store caches nothing.
type Store struct {
	mu          sync.Mutex
	entries     map[string]entry
	generations map[string]uint64
	ttl         time.Duration
	maxEntries  int
	now         func() time.Time
}

func New(ttl time.Duration) *Store {
	return NewWithLimit(ttl, DefaultMaxEntries)
}

// NewWithLimit builds a store holding at most maxEntries keys. When full,
// expired keys are swept first; if none expired the new value is not stored.
func NewWithLimit(ttl time.Duration, maxEntries int) *Store {
	return &Store{
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
		ttl:         ttl,
		maxEntries:  maxEntries,
		now:         time.Now,
	}
}

func cacheKey(entity, key string) string {
	return entity + ":" + key
}

func entityOf(k string) string {
	entity, _, _ := strings.Cut(k, ":")
	return entity
}

func (s *Store) Get(entity, key string) (any, bool) {
	if s == nil {
		return nil, false
	}

	k := cacheKey(entity, key)

	s.mu.Lock()
	e, ok := s.entries[k]
	if ok && s.now().After(e.expiresAt) {
		delete(s.entries, k)
		metrics.QueryCacheEvictions.WithLabelValues(entity).Inc()
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		metrics.QueryCacheMisses.WithLabelValues(entity).Inc()
		return nil, false
	}

	metrics.QueryCacheHits.WithLabelValues(entity).Inc()
	return e.value, true
}

func (s *Store) Set(entity, key string, value any) {
	if s == nil {
		return
	}

	s.mu.Lock()
	s.setLocked(cacheKey(entity, key), value)
	s.mu.Unlock()
}

func (s *Store) setLocked(k string, value any) {
	if _, exists := s.entries[k]; !exists && s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		s.sweepLocked()
		if len(s.entries) >= s.maxEntries {
			return
		}
	}
	s.entries[k] = entry{value: value, expiresAt: s.now().Add(s.ttl)}
}

// generation changes every time the entity is invalidated.
func (s *Store) generation(entity string) uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[entity]
}

// setIfCurrent stores value only if entity was not invalidated since gen
// was read.
func (s *Store) setIfCurrent(entity, key string, value any, gen uint64) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[entity] != gen {
		return
	}
	s.setLocked(cacheKey(entity, key), value)
}

// Invalidate drops every cached query of the given entities.
func (s *Store) Invalidate(entities ...string) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entity := range entities {
		s.generations[entity]++
		prefix := entity + ":"
		for k := range s.entries {
			if strings.HasPrefix(k, prefix) {
				delete(s.entries, k)
			}
		}
		metrics.QueryCacheInvalidations.WithLabelValues(entity).Inc()
	}
}

// Sweep removes expired entries and returns how many were dropped.
func (s *Store) Sweep() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *Store) sweepLocked() int {
	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
			metrics.QueryCacheEvictions.WithLabelValues(entityOf(k)).Inc()
			removed++
		}
	}
	return removed
}

// Run sweeps expired entries every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if s == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Len reports the number of entries still held, expired or not.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Remember returns the cached value for entity/key or loads and stores it.
// Load errors are not cached, and a value loaded across an Invalidate of
// the same entity is returned but not stored.
func Remember[T any](s *Store, entity, key string, load func() (T, error)) (T, error) {
	if v, ok := s.Get(entity, key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	gen := s.generation(entity)
	value, err := load()
	if err != nil {
		return value, err
	}

	s.setIfCurrent(entity, key, value, gen)
	return value, nil
}
