package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// StoreError wraps any persistence failure so the HTTP boundary can
// distinguish database errors from other failures.
type StoreError struct {
	Op  string // the failed operation, e.g. "create prompt"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// storeErr wraps err in a StoreError, surfacing Postgres error codes when
// the driver provides them (constraint violations in particular).
func storeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{Op: op, Err: fmt.Errorf("%s (SQLSTATE %s)", pgErr.Message, pgErr.Code)}
	}
	return &StoreError{Op: op, Err: err}
}
