package notifier

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPutReplacesExistingConnection(t *testing.T) {
	registry := NewRegistry()

	first := NewConnection("user-1")
	second := NewConnection("user-1")

	registry.Put("user-1", first)
	registry.Put("user-1", second)

	got, ok := registry.Get("user-1")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, registry.Len())

	// The displaced connection is closed so its pump can stop.
	assert.True(t, first.Closed())
	assert.False(t, second.Closed())
}

func TestRegistryRemoveIsConditionalOnIdentity(t *testing.T) {
	registry := NewRegistry()

	first := NewConnection("user-1")
	second := NewConnection("user-1")

	registry.Put("user-1", first)
	registry.Put("user-1", second)

	// A stale teardown from the replaced connection must not evict the
	// replacement.
	assert.False(t, registry.Remove("user-1", first))
	got, ok := registry.Get("user-1")
	require.True(t, ok)
	assert.Same(t, second, got)

	assert.True(t, registry.Remove("user-1", second))
	_, ok = registry.Get("user-1")
	assert.False(t, ok)

	// Removing again is a no-op.
	assert.False(t, registry.Remove("user-1", second))
}

func TestRegistryForEachVisitsEveryEntryOnce(t *testing.T) {
	registry := NewRegistry()
	for i := 0; i < 10; i++ {
		userID := fmt.Sprintf("user-%d", i)
		registry.Put(userID, NewConnection(userID))
	}

	visited := make(map[string]int)
	registry.ForEach(func(userID string, conn *Connection) {
		visited[userID]++
	})

	assert.Len(t, visited, 10)
	for userID, count := range visited {
		assert.Equal(t, 1, count, "entry %s visited more than once", userID)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				userID := fmt.Sprintf("user-%d-%d", worker, j%10)
				conn := NewConnection(userID)
				registry.Put(userID, conn)
				registry.ForEach(func(string, *Connection) {})
				registry.Get(userID)
				registry.Remove(userID, conn)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, registry.Len())
}
