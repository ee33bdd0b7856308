package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/course-platform/backend/repositories"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation pq.ErrorCode = "23505"

// translateError maps driver errors onto the repository error kinds.
// Anything it does not recognise is wrapped with op.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repositories.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return &repositories.UniqueViolationError{
			Constraint: pqErr.Constraint,
			Err:        err,
		}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}

// requireRowsAffected turns a write that matched nothing into ErrNotFound
func requireRowsAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s: %w", op, err)
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
