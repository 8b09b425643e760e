package campusnet_errors

import "errors"

// Common errors
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyExists   = errors.New("already exists")
	ErrPinLimitReached = errors.New("maximum 3 pinned messages allowed")
	ErrRateLimited     = errors.New("rate limited")
)
