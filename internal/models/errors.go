package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the stores, the auth layer and the HTTP
// handlers. Callers wrap them with fmt.Errorf("%w: ...") to add detail;
// respond.Error maps them to status codes.
var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateUsername = errors.New("user already registered with this username")
	ErrNotFound          = errors.New("not found")
	ErrUnknownUser       = errors.New("authentication failed")
	ErrInvalidPassword   = errors.New("wrong password")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrInvalidToken      = errors.New("invalid token")
	ErrMalformedToken    = errors.New("invalid token structure")
	ErrForbidden         = errors.New("forbidden")
	ErrRateLimited       = errors.New("too many requests")
	ErrPayloadTooLarge   = errors.New("request body too large")

	// ErrInvalidUserData is the registration flavour of ErrValidation.
	ErrInvalidUserData = fmt.Errorf("invalid user data: %w", ErrValidation)

	// ErrConfiguration is fatal at startup and never reaches a client.
	ErrConfiguration = errors.New("configuration error")
)
