// ABOUTME: Repository interface for the persisted application state blob.
// ABOUTME: Backends store one opaque JSON document under a fixed key.
package storage

import "errors"

// StateKey is the fixed key the application state is stored under.
const StateKey = "nexus_fit_state"

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("state not found")

// Repository defines the storage interface for the state blob.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Load returns the last saved blob, or ErrNotFound.
	Load() ([]byte, error)

	// Save durably replaces the blob.
	Save(data []byte) error

	// Lifecycle
	Close() error
}
