package store

import "errors"

// Base error kinds. Entity-specific sentinels wrap one of these, so a caller
// can match the precise failure or just its class with errors.Is.
var (
	// ErrInvalid reports a missing, malformed, or out-of-range input field.
	ErrInvalid = errors.New("invalid input")
	// ErrConflict reports a uniqueness violation or a refused delete.
	ErrConflict = errors.New("conflict")
	// ErrNotFound reports a missing record or foreign-key target.
	ErrNotFound = errors.New("not found")
)
