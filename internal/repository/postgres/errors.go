package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"rentloop-backend/internal/apperr"
)

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgerrcode.UniqueViolation
	}
	return false
}

func isRetryableConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return true
		}
	}
	return false
}

// translateTxErr maps commit-time database failures onto the application
// error taxonomy. The transaction is already rolled back by the time this
// surfaces.
func translateTxErr(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return apperr.ConflictWrap(err, "resource already exists")
	}
	if isRetryableConflict(err) {
		return apperr.ConflictWrap(err, "concurrent update conflict, retry the operation")
	}
	return err
}
