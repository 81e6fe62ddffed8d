package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionSendAndReceive(t *testing.T) {
	conn := NewConnection("user-1")
	defer conn.Close()

	require.NoError(t, conn.Send(EventNotification, `{"id":"abc"}`))

	evt := <-conn.Events()
	assert.Equal(t, EventNotification, evt.Name)
	assert.Equal(t, `{"id":"abc"}`, evt.Data)
}

func TestConnectionSendAfterClose(t *testing.T) {
	conn := NewConnection("user-1")
	conn.Close()

	err := conn.Send(EventHeartbeat, "ping")
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.True(t, conn.Closed())
}

func TestConnectionCloseIsIdempotent(t *testing.T) {
	conn := NewConnection("user-1")
	conn.Close()
	conn.Close()

	select {
	case <-conn.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestConnectionSendTimesOutOnFullBuffer(t *testing.T) {
	conn := NewConnection("user-1")
	defer conn.Close()

	// Nobody is draining the pump, so the buffer eventually fills.
	for i := 0; i < eventBuffer; i++ {
		require.NoError(t, conn.Send(EventNotification, "payload"))
	}

	err := conn.Send(EventNotification, "overflow")
	assert.ErrorIs(t, err, ErrSendTimeout)
}
