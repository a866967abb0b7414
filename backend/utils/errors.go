package utils

import "errors"

// Error taxonomy shared by controllers and services. Entity-absent and
// not-owned-by-caller are deliberately the same error so handlers never leak
// whether another user's record exists.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidState          = errors.New("invalid state")
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
