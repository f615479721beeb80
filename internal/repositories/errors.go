package repositories

import "errors"

// Sentinel errors shared by all repositories. Handlers match these with
// errors.Is to pick the HTTP status.
var (
	ErrNotFound    = errors.New("record not found")
	ErrEmailTaken  = errors.New("email is already in use")
	ErrInvalidID   = errors.New("invalid id format")
	ErrInvalidType = errors.New("invalid notification type")
)
