package session

import "errors"

// ErrStoreIO marks failures of the backing medium. The in-memory state
// stays authoritative when a flush fails; callers surface the error to
// the user and retry on the next mutation.
var ErrStoreIO = errors.New("session store io failure")

// Store is the durable mapping from user id to State.
//
// Get returns a fresh default state for an unknown user and only fails
// when the medium itself is unreadable. Put replaces the prior value
// all-or-nothing. Implementations must be safe for concurrent use.
type Store interface {
	Get(userID int64) (State, error)
	Put(state State) error
}
