package service

import "errors"

// Failure taxonomy shared by the handlers. Handlers map these onto HTTP
// statuses; anything unrecognized becomes a 500 with a generic body.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrLockedConflict  = errors.New("resource is locked")
	ErrValidation      = errors.New("validation failed")
	ErrUpstream        = errors.New("upstream call failed")
)
