package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates a malformed or invalid request payload.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure. Deliberately generic:
	// callers must not learn whether the nickname or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing principal or an insufficient
	// permission set on a protected route.
	ErrUnauthorized = errors.New("unauthorized")
)
