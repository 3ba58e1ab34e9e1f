package postgres

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/strideleague/strideleague/internal/domain/store"
)

const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// mapError translates driver failures into store error kinds. Serialization
// and deadlock aborts are transient; the engine retries them.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Mark(err, store.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return errors.Mark(err, store.ErrConflict)
		case pqSerializationFailure, pqDeadlockDetected:
			return errors.Mark(err, store.ErrTransient)
		}
	}
	return err
}

// affected reports whether a guarded UPDATE touched a row.
func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
