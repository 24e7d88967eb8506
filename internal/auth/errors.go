package auth

import (
	"errors"
)

// Sentinel errors for use with errors.Is().
var (
	// Input validation errors
	ErrInvalidInput    = errors.New("name, email and password are required")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrWeakPassword    = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")

	// Credential errors. Unknown email and wrong password both surface
	// as ErrInvalidCredentials so a caller cannot probe which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token errors
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrTokenInvalidSig  = errors.New("token signature is invalid")
)

// IsTokenError returns true if the error is a token verification error.
// All of these mean "unauthenticated"; callers must not distinguish them
// in responses.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenNotYetValid) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenInvalidSig)
}

// IsInputError returns true if the error is an input validation error.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrPasswordTooLong)
}
