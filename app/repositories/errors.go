package repositories

import (
	"inkwell/app/apperrors"
)

// Errors shared by every storage backend.
var (
	ErrNotFound = apperrors.ErrNotFound
	ErrConflict = apperrors.ErrConflict
)

// DuplicateError reports a unique constraint violation on Field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return "duplicate value for " + e.Field
}

func (e *DuplicateError) Unwrap() error {
	return apperrors.ErrDuplicate
}
