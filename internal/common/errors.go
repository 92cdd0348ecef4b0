// Package common defines shared constants and sentinel errors used across
// the backoffice server, its HTTP layer and the maintenance CLI. Callers
// should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidClaim = errors.New("invalid claim")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Configuration errors.
	ErrInsecureSecret  = errors.New("signing secret is unset or uses the built-in placeholder")
	ErrInvalidValidity = errors.New("token validity must be positive")
)

// IsNotFound reports whether err wraps ErrorNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrorNotFound)
}
