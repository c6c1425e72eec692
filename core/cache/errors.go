package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by ExecuteAsOne when the query yields no rows.
	ErrNotFound = errors.New("no rows returned")
	// ErrMultipleRows is returned when a single-row query yields more than one row.
	ErrMultipleRows = errors.New("more than one row returned")
)

// StorageFailure reports that the underlying database rejected an operation.
// The enclosing transaction has been rolled back when it is returned.
type StorageFailure struct {
	Op  string
	Err error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("storage failure (%s): %v", e.Op, e.Err)
}

func (e *StorageFailure) Unwrap() error { return e.Err }

// IsStorageFailure reports whether err carries a *StorageFailure.
func IsStorageFailure(err error) bool {
	var sf *StorageFailure
	return errors.As(err, &sf)
}
