// Package common defines shared constants and sentinel errors used across
// client and server layers of GophAuth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound   = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Account-facing auth outcomes. The messages are returned to callers as is.
	ErrDuplicateCredential   = errors.New("Credentials taken")
	ErrInvalidCredential     = errors.New("Credentials incorrect")
	ErrInvalidOrExpiredToken = errors.New("Invalid refresh token")

	// Lower-level failures, re-classified by the auth service.
	ErrHashingFailure   = errors.New("hashing failure")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)
