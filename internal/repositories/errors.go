package repositories

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no row matches the requested code.
	ErrNotFound = errors.New("product not found")
	// ErrAlreadyExists is returned when a product with the same code is already stored.
	ErrAlreadyExists = errors.New("product already exists")
	// ErrDataAccess matches every *DataAccessError through errors.Is.
	ErrDataAccess = errors.New("data access error")
)

// DataAccessError reports a storage failure together with the operation
// that triggered it.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDataAccess) hold for any DataAccessError.
func (e *DataAccessError) Is(target error) bool {
	return target == ErrDataAccess
}

func dataAccess(op string, err error) error {
	return &DataAccessError{Op: op, Err: err}
}

func notFound(code, op string) error {
	return fmt.Errorf("product with code %s not found for %s: %w", code, op, ErrNotFound)
}
