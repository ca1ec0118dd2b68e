package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// envelope is the socket event framing clients subscribe to.
type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Registry tracks live sessions per owner plus the set of admin sessions.
// It is the only concurrently mutated in-memory shared state and is safe
// under concurrent register/unregister/fan-out. An owner's entry is removed
// as soon as its last session unregisters.
type Registry struct {
	mu      sync.RWMutex
	byOwner map[string]map[*Connection]struct{}
	admins  map[*Connection]struct{}
	logger  *zap.Logger
}

// NewRegistry builds an empty session registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		byOwner: make(map[string]map[*Connection]struct{}),
		admins:  make(map[*Connection]struct{}),
		logger:  logger,
	}
}

// Register binds a connection to its owner (and the admin set when the
// session carries the admin role).
func (r *Registry) Register(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.byOwner[conn.OwnerID()]
	if !ok {
		set = make(map[*Connection]struct{})
		r.byOwner[conn.OwnerID()] = set
	}
	set[conn] = struct{}{}
	if conn.IsAdmin() {
		r.admins[conn] = struct{}{}
	}
}

// Unregister removes a connection; the owner entry disappears with its last
// session.
func (r *Registry) Unregister(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.byOwner[conn.OwnerID()]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.byOwner, conn.OwnerID())
		}
	}
	delete(r.admins, conn)
}

// SessionsFor returns a snapshot of the owner's live sessions.
func (r *Registry) SessionsFor(ownerID string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byOwner[ownerID]
	if len(set) == 0 {
		return nil
	}
	conns := make([]*Connection, 0, len(set))
	for conn := range set {
		conns = append(conns, conn)
	}
	return conns
}

// AdminSessions returns a snapshot of all admin sessions.
func (r *Registry) AdminSessions() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.admins) == 0 {
		return nil
	}
	conns := make([]*Connection, 0, len(r.admins))
	for conn := range r.admins {
		conns = append(conns, conn)
	}
	return conns
}

// NotifyOwner delivers the payload to every session of the owner. Delivery
// is fire-and-forget per connection; one dead session never blocks the rest.
func (r *Registry) NotifyOwner(ownerID, event string, data interface{}) {
	r.deliver(r.SessionsFor(ownerID), event, data)
}

// NotifyAdmins delivers the payload to every admin session.
func (r *Registry) NotifyAdmins(event string, data interface{}) {
	r.deliver(r.AdminSessions(), event, data)
}

func (r *Registry) deliver(conns []*Connection, event string, data interface{}) {
	if len(conns) == 0 {
		return
	}
	msg, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		r.logger.Warn("failed to encode broadcast payload", zap.String("event", event), zap.Error(err))
		return
	}
	for _, conn := range conns {
		conn.Send(msg)
	}
}
