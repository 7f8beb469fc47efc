package common

import "errors"

// Sentinel errors shared by stores, policies and the CLI. Callers should use
// errors.Is to match these values; producers wrap them with context.
var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Session errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidToken       = errors.New("invalid token")

	// Collaborator-side policy errors.
	ErrValidation       = errors.New("validation failed")
	ErrAttachmentPolicy = errors.New("attachment policy violation")
	ErrForbidden        = errors.New("forbidden")
)
