package domain

import "errors"

var (
	// ErrNotFound signals an unknown alert id.
	ErrNotFound = errors.New("alert not found")
	// ErrForbidden signals an authenticated caller that does not own the alert.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation signals malformed input (empty criteria, bad patch fields).
	ErrValidation = errors.New("validation failed")
	// ErrConflict signals an operation that contradicts the alert's current state.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable signals a failed storage or catalog collaborator.
	ErrUnavailable = errors.New("upstream unavailable")
)
