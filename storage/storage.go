// Package storage provides the durable store for the admin session
// record. Exactly one record lives under a fixed namespace; it is read
// once at process start and overwritten on every session transition.
package storage

import "errors"

// ErrNotFound is returned by Load when no session record is persisted.
var ErrNotFound = errors.New("session record not found")

// Namespace is the fixed key the session record is stored under.
const Namespace = "admin-auth"

// Store persists the serialized session record. Implementations must be
// safe for concurrent use.
type Store interface {
	// Load returns the persisted record, or ErrNotFound if none exists.
	Load() ([]byte, error)
	// Save overwrites the persisted record.
	Save(data []byte) error
	// Clear removes the persisted record. Clearing an empty store is
	// not an error.
	Clear() error
}
