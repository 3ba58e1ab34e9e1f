package store

import "github.com/cockroachdb/errors"

// Failure kinds surfaced by store implementations. Services re-mark these
// into the engine's caller-facing taxonomy.
var (
	// ErrNotFound means the target row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict means a unique constraint or conditional guard failed.
	ErrConflict = errors.New("store: conflict")
	// ErrTransient means a retryable failure such as a serialization error
	// or timeout.
	ErrTransient = errors.New("store: transient failure")
)
