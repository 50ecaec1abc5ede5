package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("too many requests, please try again later")
	ErrBlocked      = errors.New("request blocked")
	ErrStoreFailure = errors.New("store failure")
)

var kinds = []error{ErrUnauthorized, ErrNotFound, ErrInvalidInput, ErrRateLimited, ErrBlocked, ErrStoreFailure}

// storeFailure passes known error kinds through and wraps anything else as ErrStoreFailure.
func storeFailure(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrStoreFailure, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
