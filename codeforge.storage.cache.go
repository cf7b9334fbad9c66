package codeforge

import (
	"context"
	"sync"
	"time"
)

// SourceCacheConfig configures a CachedStore.
type SourceCacheConfig struct {
	// TTL is how long a fetched source is served from memory.
	// Default: 5 minutes.
	TTL time.Duration

	// MaxEntries bounds the cache; the least recently used entry is evicted
	// first. Default: 1000.
	MaxEntries int

	// NegativeTTL is how long a "not found" answer is remembered.
	// Zero disables negative caching.
	NegativeTTL time.Duration
}

// DefaultSourceCacheConfig returns the default CachedStore configuration.
func DefaultSourceCacheConfig() SourceCacheConfig {
	return SourceCacheConfig{
		TTL:         SourceCacheDefaultTTL,
		MaxEntries:  SourceCacheDefaultMaxEntries,
		NegativeTTL: SourceCacheDefaultNegativeTTL,
	}
}

// SourceCacheStats describes the entries held by a CachedStore.
type SourceCacheStats struct {
	Entries         int
	ValidEntries    int
	NegativeEntries int
}

type sourceCacheEntry struct {
	source     *StoredSource
	notFound   bool
	cachedAt   time.Time
	accessedAt time.Time
}

// CachedStore wraps a SourceStore and keeps recently fetched sources in
// memory. Writes through the wrapper invalidate the affected name; writes
// made directly to the wrapped store are visible once the TTL expires.
type CachedStore struct {
	store  SourceStore
	config SourceCacheConfig

	mu      sync.Mutex
	entries map[string]*sourceCacheEntry
	closed  bool
}

var _ SourceStore = (*CachedStore)(nil)

// NewCachedStore wraps store. Zero config fields take their defaults, except
// NegativeTTL where zero disables negative caching.
func NewCachedStore(store SourceStore, config SourceCacheConfig) *CachedStore {
	if config.TTL <= 0 {
		config.TTL = SourceCacheDefaultTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = SourceCacheDefaultMaxEntries
	}
	return &CachedStore{
		store:   store,
		config:  config,
		entries: make(map[string]*sourceCacheEntry),
	}
}

func (s *CachedStore) Get(ctx context.Context, name string) (*StoredSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NewStoreClosedError()
	}
	if entry, ok := s.entries[name]; ok && s.fresh(entry) {
		entry.accessedAt = time.Now()
		s.mu.Unlock()
		if entry.notFound {
			return nil, NewSourceNotFoundError(name)
		}
		cp := *entry.source
		return &cp, nil
	}
	s.mu.Unlock()

	src, err := s.store.Get(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, NewStoreClosedError()
	}
	if err != nil {
		if s.config.NegativeTTL > 0 && IsSourceNotFoundError(err) {
			s.add(name, nil)
		}
		return nil, err
	}
	s.add(name, src)
	cp := *src
	return &cp, nil
}

func (s *CachedStore) Save(ctx context.Context, src *StoredSource) error {
	if err := s.store.Save(ctx, src); err != nil {
		return err
	}
	s.Invalidate(src.Name)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// Exists answers from the cache when it holds a fresh entry for name.
func (s *CachedStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, NewStoreClosedError()
	}
	if entry, ok := s.entries[name]; ok && s.fresh(entry) {
		s.mu.Unlock()
		return !entry.notFound, nil
	}
	s.mu.Unlock()

	return s.store.Exists(ctx, name)
}

// List always queries the wrapped store.
func (s *CachedStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, NewStoreClosedError()
	}
	return s.store.List(ctx, prefix)
}

// Close drops the cache and closes the wrapped store.
func (s *CachedStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.entries = nil
	s.mu.Unlock()
	return s.store.Close()
}

// Invalidate drops the cached entry for name.
func (s *CachedStore) Invalidate(name string) {
	s.mu.Lock()
	delete(s.entries, name)
	s.mu.Unlock()
}

// InvalidateAll drops every cached entry.
func (s *CachedStore) InvalidateAll() {
	s.mu.Lock()
	if !s.closed {
		s.entries = make(map[string]*sourceCacheEntry)
	}
	s.mu.Unlock()
}

func (s *CachedStore) Stats() SourceCacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := SourceCacheStats{Entries: len(s.entries)}
	for _, entry := range s.entries {
		if !s.fresh(entry) {
			continue
		}
		if entry.notFound {
			stats.NegativeEntries++
		} else {
			stats.ValidEntries++
		}
	}
	return stats
}

// fresh reports whether entry is within its TTL. Caller holds mu.
func (s *CachedStore) fresh(entry *sourceCacheEntry) bool {
	ttl := s.config.TTL
	if entry.notFound {
		ttl = s.config.NegativeTTL
	}
	return time.Since(entry.cachedAt) < ttl
}

// add stores an entry, evicting the least recently used one when full.
// A nil src records a negative entry. Caller holds mu.
func (s *CachedStore) add(name string, src *StoredSource) {
	if _, exists := s.entries[name]; !exists && len(s.entries) >= s.config.MaxEntries {
		s.evictOldest()
	}

	now := time.Now()
	entry := &sourceCacheEntry{notFound: src == nil, cachedAt: now, accessedAt: now}
	if src != nil {
		cp := *src
		entry.source = &cp
	}
	s.entries[name] = entry
}

func (s *CachedStore) evictOldest() {
	var oldestName string
	var oldest *sourceCacheEntry
	for name, entry := range s.entries {
		if oldest == nil || entry.accessedAt.Before(oldest.accessedAt) {
			oldestName, oldest = name, entry
		}
	}
	if oldest != nil {
		delete(s.entries, oldestName)
	}
}
