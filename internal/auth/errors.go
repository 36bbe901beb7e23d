package auth

import "errors"

var (
	ErrMissingToken = errors.New("bearer token required")
	ErrInvalidToken = errors.New("invalid bearer token")
	ErrUpstream     = errors.New("identity provider unavailable")
)
