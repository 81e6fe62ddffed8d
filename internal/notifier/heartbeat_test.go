package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepHeartbeatsReachesEveryLiveConnection(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, &fakeStore{}, &fakeUsers{})

	conns := make([]*Connection, 0, 3)
	for _, userID := range []string{"user-1", "user-2", "user-3"} {
		conn := NewConnection(userID)
		defer conn.Close()
		registry.Put(userID, conn)
		conns = append(conns, conn)
	}

	dispatcher.SweepHeartbeats()

	for _, conn := range conns {
		evt := <-conn.Events()
		assert.Equal(t, EventHeartbeat, evt.Name)
		assert.Equal(t, "ping", evt.Data)
	}
	assert.Equal(t, 3, registry.Len())
}

func TestSweepHeartbeatsEvictsDeadConnections(t *testing.T) {
	registry := NewRegistry()
	dispatcher := NewDispatcher(registry, &fakeStore{}, &fakeUsers{})

	alive := NewConnection("user-1")
	defer alive.Close()
	dead := NewConnection("user-2")

	registry.Put("user-1", alive)
	registry.Put("user-2", dead)
	dead.Close()

	dispatcher.SweepHeartbeats()

	_, ok := registry.Get("user-1")
	require.True(t, ok, "live connection must survive the sweep")
	_, ok = registry.Get("user-2")
	assert.False(t, ok, "dead connection must be evicted")

	evt := <-alive.Events()
	assert.Equal(t, EventHeartbeat, evt.Name)
}
