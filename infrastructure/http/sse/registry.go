package sse

import (
	"sync"

	"github.com/google/uuid"
)

// conn is one live push channel together with the identity it serves.
type conn struct {
	identityID int64
	channel    chan []byte
}

// Registry is the process-local table of identity → live push channel. It
// holds at most one channel per identity: a newer connection for the same
// identity silently replaces the older mapping, while the older channel
// itself stays registered until its own transport closes. Removal is by
// connection ID equality, never channel handle identity, which makes the
// stale-disconnect behavior explicit: disconnecting an already-replaced
// connection leaves the newer mapping untouched.
//
// The registry is strictly process-local; cross-instance fan-out would need
// an external broker and is out of scope.
type Registry struct {
	mu         sync.RWMutex
	byIdentity map[int64]string
	conns      map[string]*conn
	bufferSize int
}

func NewRegistry(bufferSize int) *Registry {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Registry{
		byIdentity: make(map[int64]string),
		conns:      make(map[string]*conn),
		bufferSize: bufferSize,
	}
}

// Connect registers a new channel for identityID and returns its connection
// ID and receive channel. Any previous mapping for the identity is
// overwritten.
func (r *Registry) Connect(identityID int64) (string, <-chan []byte) {
	connID := uuid.NewString()
	c := &conn{
		identityID: identityID,
		channel:    make(chan []byte, r.bufferSize),
	}

	r.mu.Lock()
	r.conns[connID] = c
	r.byIdentity[identityID] = connID
	r.mu.Unlock()

	return connID, c.channel
}

// Rebind re-announces an identity on an already-open connection, identical in
// effect to Connect for the mapping table: the identity now points at connID.
func (r *Registry) Rebind(identityID int64, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[connID]
	if !ok {
		return false
	}
	c.identityID = identityID
	r.byIdentity[identityID] = connID
	return true
}

// Disconnect removes the connection. The identity mapping is only dropped if
// it still points at this connection; a stale disconnect after the identity
// rebound to a newer channel is a no-op for the mapping.
func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[connID]
	if !ok {
		return
	}
	delete(r.conns, connID)
	close(c.channel)

	if current, ok := r.byIdentity[c.identityID]; ok && current == connID {
		delete(r.byIdentity, c.identityID)
	}
}

// Lookup reports the connection currently mapped for identityID, if any.
func (r *Registry) Lookup(identityID int64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.byIdentity[identityID]
	if !ok {
		return "", false
	}
	if _, ok := r.conns[connID]; !ok {
		return "", false
	}
	return connID, true
}

// Send delivers the message to identityID's current channel without
// blocking. The send runs under the read lock so it can never interleave
// with Disconnect closing the channel; a missing mapping or a full buffer is
// a miss, not an error.
func (r *Registry) Send(identityID int64, message []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.byIdentity[identityID]
	if !ok {
		return false
	}
	c, ok := r.conns[connID]
	if !ok {
		return false
	}

	select {
	case c.channel <- message:
		return true
	default:
		return false
	}
}

// SendAll delivers the message to every currently mapped identity channel
// and returns the count of channels addressed. Like Send, it holds the read
// lock across the sends.
func (r *Registry) SendAll(message []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for _, connID := range r.byIdentity {
		c, ok := r.conns[connID]
		if !ok {
			continue
		}
		select {
		case c.channel <- message:
			delivered++
		default:
		}
	}
	return delivered
}

// Count reports the number of currently mapped identities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byIdentity)
}
