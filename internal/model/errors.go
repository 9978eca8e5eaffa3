package model

import "errors"

// Common errors used across the application
var (
	// Validation errors are wrapped with the offending field
	ErrValidation = errors.New("invalid request")

	// Score errors
	ErrScoreNotFound      = errors.New("score record not found")
	ErrCredentialMismatch = errors.New("name is registered with a different password")

	// Store errors
	ErrStoreConflict = errors.New("score update conflicted too many times")

	// Client errors
	ErrUnavailable = errors.New("score server unreachable")
	ErrNotRunning  = errors.New("no game in progress")
	ErrNotAllowed  = errors.New("name is not cleared to play")
)
