package notifier

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownDrainsAllConnections(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, &fakeStore{}, &fakeUsers{})

	conns := make([]*Connection, 0, 5)
	for i := 0; i < 5; i++ {
		userID := fmt.Sprintf("user-%d", i)
		conn := NewConnection(userID)
		registry.Put(userID, conn)
		conns = append(conns, conn)
	}

	dispatcher.Shutdown()

	assert.Equal(t, 0, registry.Len(), "registry must be empty after shutdown")
	for _, conn := range conns {
		require.True(t, conn.Closed())

		// The shutdown notice was queued before the close and stays
		// readable so the pump can flush it to the client.
		evt := <-conn.Events()
		assert.Equal(t, EventShutdown, evt.Name)
	}
}

func TestShutdownWithNoConnections(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, &fakeStore{}, &fakeUsers{})

	dispatcher.Shutdown()
	assert.Equal(t, 0, registry.Len())
}
