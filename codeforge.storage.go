package codeforge

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// StoredSource is a template source or include file held by a SourceStore.
type StoredSource struct {
	// Name is the lookup key, e.g. "entity.cft" or "includes/header.cft".
	Name string `json:"name"`

	// Content is the raw document, frontmatter included.
	Content string `json:"content"`

	// UpdatedAt is set by the store on every save.
	UpdatedAt time.Time `json:"updated_at"`
}

// SourceStore holds template sources by name.
// Implementations must be safe for concurrent use.
type SourceStore interface {
	// Get returns the source stored under name.
	// Returns a source-not-found error if there is none.
	Get(ctx context.Context, name string) (*StoredSource, error)

	// Save creates or replaces the source under src.Name and sets UpdatedAt.
	Save(ctx context.Context, src *StoredSource) error

	// Delete removes the source stored under name.
	// Returns a source-not-found error if there is none.
	Delete(ctx context.Context, name string) error

	// Exists reports whether a source is stored under name.
	Exists(ctx context.Context, name string) (bool, error)

	// List returns the stored names starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases the store. Later calls fail with a closed-store error.
	Close() error
}

// SourceStoreDriver opens a SourceStore from a driver-specific connection
// string.
type SourceStoreDriver interface {
	Open(connectionString string) (SourceStore, error)
}

// Store driver registry
var (
	storeDriversMu sync.RWMutex
	storeDrivers   = make(map[string]SourceStoreDriver)
)

// RegisterStoreDriver registers a store driver by name.
// Panics if driver is nil or the name is taken.
func RegisterStoreDriver(name string, driver SourceStoreDriver) {
	storeDriversMu.Lock()
	defer storeDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStoreDriver)
	}
	if _, exists := storeDrivers[name]; exists {
		panic(ErrMsgStoreDriverRegistered + ": " + name)
	}
	storeDrivers[name] = driver
}

// OpenStore opens a source store with the named driver.
//
//	store, err := codeforge.OpenStore("memory", "")
//	store, err := codeforge.OpenStore("filesystem", "./templates")
//	store, err := codeforge.OpenStore("postgres", "postgres://...")
func OpenStore(driverName, connectionString string) (SourceStore, error) {
	storeDriversMu.RLock()
	driver, ok := storeDrivers[driverName]
	storeDriversMu.RUnlock()

	if !ok {
		return nil, NewStoreError(ErrMsgStoreDriverNotFound, driverName, nil)
	}
	return driver.Open(connectionString)
}

// StoreDrivers returns the registered driver names, sorted.
func StoreDrivers() []string {
	storeDriversMu.RLock()
	defer storeDriversMu.RUnlock()

	names := make([]string, 0, len(storeDrivers))
	for name := range storeDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateSource(src *StoredSource) error {
	if src == nil {
		return NewStoreError(ErrMsgNilSource, "", nil)
	}
	if src.Name == "" {
		return NewStoreError(ErrMsgEmptySourceName, "", nil)
	}
	return nil
}

// MemoryStore is an in-memory SourceStore, mainly for tests and for sources
// assembled at runtime.
type MemoryStore struct {
	mu      sync.RWMutex
	sources map[string]*StoredSource
	closed  bool
}

type memoryStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverMemory, memoryStoreDriver{})
}

// Open ignores the connection string.
func (memoryStoreDriver) Open(string) (SourceStore, error) {
	return NewMemoryStore(), nil
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sources: make(map[string]*StoredSource),
	}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*StoredSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}
	src, ok := s.sources[name]
	if !ok {
		return nil, NewSourceNotFoundError(name)
	}
	cp := *src
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, src *StoredSource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSource(src); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}
	src.UpdatedAt = time.Now()
	cp := *src
	s.sources[src.Name] = &cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}
	if _, ok := s.sources[name]; !ok {
		return NewSourceNotFoundError(name)
	}
	delete(s.sources, name)
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStoreClosedError()
	}
	_, ok := s.sources[name]
	return ok, nil
}

func (s *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.sources = nil
	return nil
}
