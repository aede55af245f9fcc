package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Post errors
	ErrPostNotFound = errors.New("post not found")

	// Crosspost errors
	ErrCredentialUnavailable = errors.New("platform credential missing or inactive")
	ErrDecryptionFailure     = errors.New("credential decryption failed")
	ErrUnsupportedPlatform   = errors.New("unsupported platform")
	ErrPublishFailure        = errors.New("platform publish failed")
	ErrRetryLimitReached     = errors.New("retry limit reached")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
