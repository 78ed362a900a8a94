package service

import "errors"

// Validation and permission sentinels. Storage-level sentinels
// (store.ErrNotFound, store.ErrConflict, store.ErrEmptyCart) pass through
// the services unchanged; the API layer maps all of them to HTTP statuses.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("invalid credentials")
)
