package session

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMissingOwner    = errors.New("session owner is required")
)
