package usecase

import (
	stderrors "errors"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/store"
)

// Caller-facing error kinds. Engine operations fail with exactly one of
// these; hosts decide retry behavior by kind, never by message.
var (
	// ErrInvalidInput: inputs outside the allowed enumerations or
	// semantically impossible. Not retryable.
	ErrInvalidInput = stderrors.New("invalid input")
	// ErrPrecondition: a world-state guard failed that a retry cannot fix
	// (league already started, not enough players).
	ErrPrecondition = stderrors.New("precondition failed")
	// ErrConflict: a concurrent actor won a race the caller must resolve,
	// such as a join-code collision. Races the engine absorbs internally are
	// reported as no-op success instead.
	ErrConflict = stderrors.New("conflict")
	// ErrNotFound: target entity missing.
	ErrNotFound = stderrors.New("resource not found")
	// ErrPermissionDenied: the caller identity is not allowed to perform
	// the operation.
	ErrPermissionDenied = stderrors.New("permission denied")
	// ErrTransient: retryable store failure; callers should back off and
	// retry within a small bound.
	ErrTransient = stderrors.New("transient failure")
	// ErrInvariant: a post-condition was violated. Fatal; page an operator.
	ErrInvariant = stderrors.New("invariant violation")
)

// markStoreErr translates store-level failure kinds into the caller-facing
// taxonomy; anything else passes through unchanged.
func markStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return errors.Mark(err, ErrNotFound)
	case errors.Is(err, store.ErrConflict):
		return errors.Mark(err, ErrConflict)
	case errors.Is(err, store.ErrTransient):
		return errors.Mark(err, ErrTransient)
	}
	return err
}
