package notifier

import (
	"errors"
	"sync"
	"time"
)

// Event names understood by stream clients. The INIT casing is part of the
// wire contract with existing clients.
const (
	EventInit         = "INIT"
	EventHeartbeat    = "heartbeat"
	EventNotification = "notification"
	EventShutdown     = "shutdown"
)

const (
	// sendTimeout bounds how long a single Send may wait on a slow client
	// before the connection is treated as dead.
	sendTimeout = 2 * time.Second

	// eventBuffer is the number of pending events a connection may hold
	// before Send starts waiting.
	eventBuffer = 16
)

var (
	// ErrConnectionClosed is returned by Send once the connection reached its
	// terminal state.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrSendTimeout is returned by Send when the client did not drain its
	// event buffer in time.
	ErrSendTimeout = errors.New("send timed out")
)

// Event is a single named frame pushed to a stream client.
type Event struct {
	Name string
	Data string
}

// Connection is the in-memory handle for one subscriber's open stream.
// Events are queued through Send and drained by the transport goroutine that
// owns the HTTP response; the queue decouples senders from client I/O.
type Connection struct {
	userID    string
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewConnection creates a connection for the given user in the connected state.
func NewConnection(userID string) *Connection {
	return &Connection{
		userID: userID,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
}

// UserID returns the subscriber this connection belongs to.
func (c *Connection) UserID() string {
	return c.userID
}

// Send queues an event for delivery. It never blocks longer than sendTimeout
// and fails once the connection is closed.
func (c *Connection) Send(name, data string) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	timer := time.NewTimer(sendTimeout)
	defer timer.Stop()

	select {
	case c.events <- Event{Name: name, Data: data}:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	case <-timer.C:
		return ErrSendTimeout
	}
}

// Events exposes the queued frames to the transport goroutine.
func (c *Connection) Events() <-chan Event {
	return c.events
}

// Done is closed when the connection reaches its terminal state.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Close transitions the connection to its terminal state. Safe to call from
// any goroutine, any number of times.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Closed reports whether the connection reached its terminal state.
func (c *Connection) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
