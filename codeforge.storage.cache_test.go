package codeforge

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts Get calls reaching the wrapped store.
type countingStore struct {
	SourceStore
	gets atomic.Int32
}

func (s *countingStore) Get(ctx context.Context, name string) (*StoredSource, error) {
	s.gets.Add(1)
	return s.SourceStore.Get(ctx, name)
}

func TestCachedStore(t *testing.T) {
	testSourceStore(t, NewCachedStore(NewMemoryStore(), DefaultSourceCacheConfig()))
}

func TestCachedStore_ServesFromMemory(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{SourceStore: NewMemoryStore()}
	store := NewCachedStore(backing, DefaultSourceCacheConfig())
	require.NoError(t, store.Save(ctx, &StoredSource{Name: "a.cft", Content: "v1"}))

	for i := 0; i < 3; i++ {
		got, err := store.Get(ctx, "a.cft")
		require.NoError(t, err)
		assert.Equal(t, "v1", got.Content)
	}
	assert.Equal(t, int32(1), backing.gets.Load())

	t.Run("save through wrapper invalidates", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &StoredSource{Name: "a.cft", Content: "v2"}))
		got, err := store.Get(ctx, "a.cft")
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Content)
		assert.Equal(t, int32(2), backing.gets.Load())
	})

	t.Run("returned sources are copies", func(t *testing.T) {
		got, err := store.Get(ctx, "a.cft")
		require.NoError(t, err)
		got.Content = "mutated"

		again, err := store.Get(ctx, "a.cft")
		require.NoError(t, err)
		assert.Equal(t, "v2", again.Content)
	})
}

func TestCachedStore_Expiry(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{SourceStore: NewMemoryStore()}
	store := NewCachedStore(backing, SourceCacheConfig{TTL: time.Millisecond})
	require.NoError(t, backing.Save(ctx, &StoredSource{Name: "a.cft", Content: "v1"}))

	_, err := store.Get(ctx, "a.cft")
	require.NoError(t, err)

	require.NoError(t, backing.Save(ctx, &StoredSource{Name: "a.cft", Content: "v2"}))
	time.Sleep(5 * time.Millisecond)

	got, err := store.Get(ctx, "a.cft")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
	assert.Equal(t, int32(2), backing.gets.Load())
}

func TestCachedStore_NegativeCaching(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled", func(t *testing.T) {
		backing := &countingStore{SourceStore: NewMemoryStore()}
		store := NewCachedStore(backing, DefaultSourceCacheConfig())

		for i := 0; i < 2; i++ {
			_, err := store.Get(ctx, "missing.cft")
			assert.True(t, IsSourceNotFoundError(err))
		}
		assert.Equal(t, int32(1), backing.gets.Load())
		assert.Equal(t, 1, store.Stats().NegativeEntries)
	})

	t.Run("disabled", func(t *testing.T) {
		backing := &countingStore{SourceStore: NewMemoryStore()}
		store := NewCachedStore(backing, SourceCacheConfig{})

		for i := 0; i < 2; i++ {
			_, err := store.Get(ctx, "missing.cft")
			assert.True(t, IsSourceNotFoundError(err))
		}
		assert.Equal(t, int32(2), backing.gets.Load())
		assert.Equal(t, 0, store.Stats().Entries)
	})
}

func TestCachedStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryStore()
	store := NewCachedStore(backing, SourceCacheConfig{MaxEntries: 2})
	for _, name := range []string{"a.cft", "b.cft", "c.cft"} {
		require.NoError(t, backing.Save(ctx, &StoredSource{Name: name, Content: name}))
	}

	_, err := store.Get(ctx, "a.cft")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = store.Get(ctx, "b.cft")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = store.Get(ctx, "a.cft")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = store.Get(ctx, "c.cft")
	require.NoError(t, err)

	assert.Equal(t, 2, store.Stats().Entries)

	require.NoError(t, backing.Delete(ctx, "b.cft"))
	_, err = store.Get(ctx, "b.cft")
	assert.True(t, IsSourceNotFoundError(err), "b.cft should have been evicted")
}

func TestCachedStore_Descriptor(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{SourceStore: NewMemoryStore()}
	store := NewCachedStore(backing, DefaultSourceCacheConfig())
	require.NoError(t, store.Save(ctx, &StoredSource{Name: "shared.cft", Content: "{% macro hi() %}hi{% endmacro %}"}))
	require.NoError(t, store.Save(ctx, &StoredSource{Name: "a.cft", Content: "---\nincludes: [shared.cft]\n---\n{{ hi() }} a"}))
	require.NoError(t, store.Save(ctx, &StoredSource{Name: "b.cft", Content: "---\nincludes: [shared.cft]\n---\n{{ hi() }} b"}))

	engine := newTestEngine(t)
	for _, name := range []string{"a.cft", "b.cft"} {
		desc, err := LoadDescriptorFromStore(ctx, store, name)
		require.NoError(t, err)
		text, err := engine.RenderDescriptor(desc, nil)
		require.NoError(t, err)
		assert.Equal(t, "hi "+name[:1], text)
	}
	assert.Equal(t, int32(3), backing.gets.Load())
}
