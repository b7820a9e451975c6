package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable wraps every backend or transport failure. A
	// missing row is not an error.
	ErrStoreUnavailable = errors.New("identity store unavailable")

	ErrCodeNotFound = errors.New("link code not found")
	// ErrCodeExpired matches ErrCodeNotFound under errors.Is.
	ErrCodeExpired = fmt.Errorf("%w: expired", ErrCodeNotFound)
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
