package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/task-api/internal/store"
)

// PostgreSQL error codes
const (
	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"

	// stringDataRightTruncationCode is raised when a value exceeds a VARCHAR(n) column
	stringDataRightTruncationCode = "22001"

	// queryCanceledCode is raised when statement_timeout fires
	queryCanceledCode = "57014"
)

// MapError maps a database error to the matching store error.
// sql.ErrNoRows becomes store.ErrTaskNotFound. Constraint violations become
// store.ErrInvalidEntity. A statement timeout is annotated so logs name it.
// Anything else is returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrTaskNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case IsStatementTimeout(err):
		return fmt.Errorf("statement timeout exceeded: %w", err)
	case IsNotNullViolation(err):
		return fmt.Errorf(
			"%w: not null violation (%s): %v",
			store.ErrInvalidEntity,
			pgErr.ColumnName,
			err,
		)
	case pgErr.Code == checkViolationCode:
		return fmt.Errorf(
			"%w: check constraint violation (%s): %v",
			store.ErrInvalidEntity,
			pgErr.ConstraintName,
			err,
		)
	case pgErr.Code == stringDataRightTruncationCode:
		return fmt.Errorf("%w: value too long: %v", store.ErrInvalidEntity, err)
	default:
		return err
	}
}

// IsStatementTimeout reports whether err was caused by statement_timeout
// cancelling the query.
func IsStatementTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == queryCanceledCode
}

// IsNotNullViolation checks if the given error is a PostgreSQL not null constraint violation.
func IsNotNullViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == notNullViolationCode
}

// checkRowsAffected returns notFound when result reports zero affected rows.
func checkRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to checkRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
