package notifier

import "sync"

// Registry maps a user id to that user's single live connection. All mutation
// goes through Put and Remove; callers never hold the registry lock while
// doing connection I/O, so one slow client cannot stall delivery to others.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Connection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Connection)}
}

// Put associates userID with conn, replacing and closing any previous
// connection for that user. The displaced connection is unreachable for
// future pushes either way; closing it lets its pump goroutine stop promptly.
func (r *Registry) Put(userID string, conn *Connection) {
	r.mu.Lock()
	prev := r.conns[userID]
	r.conns[userID] = conn
	r.mu.Unlock()

	if prev != nil && prev != conn {
		prev.Close()
	}
}

// Get returns the live connection for userID, if any.
func (r *Registry) Get(userID string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[userID]
	return conn, ok
}

// Remove deletes the mapping for userID only if it still points at conn, so a
// teardown firing for a displaced connection can never evict its replacement.
// It reports whether the mapping was removed.
func (r *Registry) Remove(userID string, conn *Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.conns[userID]
	if !ok || current != conn {
		return false
	}
	delete(r.conns, userID)
	return true
}

// ForEach calls visitor for every connection in a snapshot taken under the
// read lock. Entries added or removed while visiting may or may not be seen;
// no entry is visited twice.
func (r *Registry) ForEach(visitor func(userID string, conn *Connection)) {
	r.mu.RLock()
	snapshot := make(map[string]*Connection, len(r.conns))
	for userID, conn := range r.conns {
		snapshot[userID] = conn
	}
	r.mu.RUnlock()

	for userID, conn := range snapshot {
		visitor(userID, conn)
	}
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
