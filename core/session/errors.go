package session

import "errors"

// ErrAlreadyConnected is returned by Connect when the user already has a
// live session. The existing session is authoritative; the caller must
// reject the new connection attempt.
var ErrAlreadyConnected = errors.New("user already has a live session")
