// Package apperrors defines the error taxonomy the global translator maps
// to HTTP status codes.
package apperrors

import "errors"

var (
	// ErrUnauthorized maps to 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound maps to 404. Cross-user reads surface as this, never as
	// the other user's record.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument maps to 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidOperation maps to 400.
	ErrInvalidOperation = errors.New("invalid operation")
)
