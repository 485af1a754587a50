package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrInvalidClaims indicates a well-signed token without a permissions claim
	ErrInvalidClaims = errors.New("permissions not included in token")

	// ErrPasswordMismatch indicates a password does not match its hash
	ErrPasswordMismatch = errors.New("password does not match")
)
