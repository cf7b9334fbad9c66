package codeforge

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache maps template keys to compiled artifacts.
//
// A key is compiled at most once per Cache: concurrent requests for the same
// uncompiled key share a single compilation, and later requests are served
// from the map. Failed compilations are never stored, so the next request
// compiles again from scratch.
//
// A Cache belongs to one generation run. Call Clear (or create a new Cache)
// before an unrelated run so artifacts bound to old model types are dropped.
type Cache struct {
	compiler Compiler
	logger   *zap.Logger

	mu        sync.RWMutex
	artifacts map[TemplateKey]*Artifact
	flight    singleflight.Group

	hits     atomic.Int64
	misses   atomic.Int64
	compiles atomic.Int64
	failures atomic.Int64
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries  int
	Hits     int64
	Misses   int64
	Compiles int64
	Failures int64
}

// NewCache creates an empty cache that compiles with compiler.
func NewCache(compiler Compiler, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		compiler:  compiler,
		logger:    logger,
		artifacts: make(map[TemplateKey]*Artifact),
	}
}

// SourceLoader produces the source text of a template on a cache miss.
type SourceLoader func() (string, error)

// GetOrCompile returns the artifact for key, compiling source against
// modelType only when key is not cached yet. On a cache hit source is not
// looked at.
func (c *Cache) GetOrCompile(key TemplateKey, source string, modelType reflect.Type) (*Artifact, error) {
	return c.GetOrLoad(key, func() (string, error) { return source, nil }, modelType)
}

// GetOrLoad is GetOrCompile with the source produced by load, which runs
// only when key must be compiled. A load error is returned unchanged and
// nothing is cached.
func (c *Cache) GetOrLoad(key TemplateKey, load SourceLoader, modelType reflect.Type) (*Artifact, error) {
	if key.Name == "" {
		return nil, NewEmptyKeyNameError(key.Kind)
	}

	if a, ok := c.lookup(key); ok {
		c.hits.Add(1)
		c.logger.Debug(LogMsgCacheHit, zap.String(LogFieldKey, key.String()))
		return a, nil
	}
	c.misses.Add(1)
	c.logger.Debug(LogMsgCacheMiss, zap.String(LogFieldKey, key.String()))

	v, err, _ := c.flight.Do(key.identity(), func() (any, error) {
		// A flight that finished between lookup and Do already stored it.
		if a, ok := c.lookup(key); ok {
			return a, nil
		}
		source, err := load()
		if err != nil {
			return nil, err
		}
		return c.compile(key, source, modelType)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Artifact), nil
}

func (c *Cache) compile(key TemplateKey, source string, modelType reflect.Type) (*Artifact, error) {
	c.logger.Debug(LogMsgCompileStart,
		zap.String(LogFieldKey, key.String()),
		zap.Int(LogFieldSource, len(source)))

	c.compiles.Add(1)
	a, err := c.compiler.Compile(key, source, modelType)
	if err == nil && a == nil {
		err = NewCompilationError(key, nil)
	}
	if err != nil {
		c.failures.Add(1)
		c.logger.Debug(LogMsgCompileFailed, zap.String(LogFieldKey, key.String()), zap.Error(err))
		if !IsCompilationError(err) {
			err = NewCompilationError(key, err)
		}
		return nil, err
	}

	c.mu.Lock()
	c.artifacts[key] = a
	c.mu.Unlock()

	c.logger.Debug(LogMsgCompileComplete, zap.String(LogFieldKey, key.String()))
	return a, nil
}

func (c *Cache) lookup(key TemplateKey) (*Artifact, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.artifacts[key]
	return a, ok
}

// Has reports whether key has a compiled artifact.
func (c *Cache) Has(key TemplateKey) bool {
	_, ok := c.lookup(key)
	return ok
}

// Len returns the number of compiled artifacts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.artifacts)
}

// Keys returns all cached keys sorted by their string form.
func (c *Cache) Keys() []TemplateKey {
	c.mu.RLock()
	keys := make([]TemplateKey, 0, len(c.artifacts))
	for k := range c.artifacts {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Clear drops every artifact and resets the statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	n := len(c.artifacts)
	c.artifacts = make(map[TemplateKey]*Artifact)
	c.mu.Unlock()

	c.hits.Store(0)
	c.misses.Store(0)
	c.compiles.Store(0)
	c.failures.Store(0)

	c.logger.Debug(LogMsgCacheCleared, zap.Int(LogFieldEntries, n))
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Entries:  c.Len(),
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Compiles: c.compiles.Load(),
		Failures: c.failures.Load(),
	}
}
