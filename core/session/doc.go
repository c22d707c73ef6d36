// Package session binds user identities to live connections.
//
// A session is the pairing of a user name with exactly one connection
// handle. The registry enforces at most one live session per user: a second
// Connect for an already-connected user fails with ErrAlreadyConnected and
// leaves the existing session untouched. The two internal maps form a strict
// bijection over the live set; every mutation updates both together.
//
// The registry also remembers when each user last disconnected. That
// timestamp drives catch-up replay on reconnect and is retained for the
// process lifetime. A zero time.Time means the user has no disconnect
// history.
//
// Like the other core registries, this type is not safe for concurrent use;
// the broker serializes access behind its lock.
//
// Basic usage:
//
//	reg := session.NewRegistry()
//
//	conn := uuid.New()
//	if err := reg.Connect("bob", conn); err != nil {
//	    // ErrAlreadyConnected: reject the new connection
//	}
//
//	reg.UserOf(conn)       // "bob", true
//	reg.ConnectionOf("bob") // conn, true
//
//	reg.Disconnect(conn, time.Now())
//	reg.LastDisconnectTime("bob") // the Disconnect timestamp
package session
