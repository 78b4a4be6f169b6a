package core

import (
	"errors"
	"fmt"
)

// ErrInvalidAmount is returned when a raw amount cannot be parsed into cents.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrSaleNotFound is returned by store lookups for ids that do not exist.
// It never reaches the HTTP boundary directly; delete responses always use
// ErrNotPermitted instead.
var ErrSaleNotFound = errors.New("sale not found")

// ErrNotPermitted covers both "no such record" and "record exists but is not
// yours". The two cases are deliberately indistinguishable so that a
// non-owner cannot probe for the existence of other users' sales.
var ErrNotPermitted = errors.New("not permitted or not found")

// ValidationError reports malformed or out-of-range input. It is always
// caller-fixable and maps to a 400 at the HTTP boundary.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Invalid builds a ValidationError with the given reason.
func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError wraps a persistence-layer failure. It is logged in full but
// surfaced to callers as a generic failure so storage internals never leak.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage annotates err with the failed storage operation. Returns nil
// when err is nil.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
