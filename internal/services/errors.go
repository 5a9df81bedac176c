package services

import "errors"

// Outcomes other than success. Handlers map these onto HTTP statuses; any
// other error is an internal failure.
var (
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidScore       = errors.New("score must be >= 0")
	ErrInvalidInput       = errors.New("invalid input")
)
