package session

import (
	"time"

	"github.com/google/uuid"
)

// Registry maps user names to live connection handles and back, enforcing a
// single live session per user. It also records each user's last disconnect
// time. Not safe for concurrent use; the owning broker serializes access.
type Registry struct {
	userByConn     map[uuid.UUID]string
	connByUser     map[string]uuid.UUID
	lastDisconnect map[string]time.Time
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		userByConn:     make(map[uuid.UUID]string),
		connByUser:     make(map[string]uuid.UUID),
		lastDisconnect: make(map[string]time.Time),
	}
}

// Connect registers the user↔connection binding. Returns
// ErrAlreadyConnected if the user already has a live session; the existing
// binding is left untouched.
func (r *Registry) Connect(user string, conn uuid.UUID) error {
	if _, ok := r.connByUser[user]; ok {
		return ErrAlreadyConnected
	}
	r.connByUser[user] = conn
	r.userByConn[conn] = user
	return nil
}

// Disconnect removes the binding for the connection and records now as the
// user's last disconnect time. Returns the user the connection belonged to,
// or false if the connection is unknown (already disconnected), in which
// case nothing changes.
func (r *Registry) Disconnect(conn uuid.UUID, now time.Time) (string, bool) {
	user, ok := r.userByConn[conn]
	if !ok {
		return "", false
	}
	delete(r.userByConn, conn)
	delete(r.connByUser, user)
	r.lastDisconnect[user] = now
	return user, true
}

// IsConnected reports whether the user has a live session.
func (r *Registry) IsConnected(user string) bool {
	_, ok := r.connByUser[user]
	return ok
}

// ConnectionOf returns the live connection handle for the user.
func (r *Registry) ConnectionOf(user string) (uuid.UUID, bool) {
	conn, ok := r.connByUser[user]
	return conn, ok
}

// UserOf returns the user bound to the connection handle.
func (r *Registry) UserOf(conn uuid.UUID) (string, bool) {
	user, ok := r.userByConn[conn]
	return user, ok
}

// LastDisconnectTime returns when the user last disconnected. The zero
// time.Time means the user has never disconnected.
func (r *Registry) LastDisconnectTime(user string) time.Time {
	return r.lastDisconnect[user]
}

// AllConnectedUsers returns the set of users with a live session as a fresh
// map the caller may mutate freely.
func (r *Registry) AllConnectedUsers() map[string]struct{} {
	users := make(map[string]struct{}, len(r.connByUser))
	for user := range r.connByUser {
		users[user] = struct{}{}
	}
	return users
}
