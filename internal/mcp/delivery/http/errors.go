package http

import (
	"errors"

	"context-gateway/internal/mcp"
	"context-gateway/internal/session"
)

var (
	errSessionIDRequired = errors.New("session id required")
	errSessionNotFound   = errors.New("session not found")
	errOwnerMismatch     = errors.New("session belongs to another owner")
)

// mapSessionError translates session lookup failures into protocol errors.
// Anything unexpected is an internal error; the cause is logged by the caller.
func mapSessionError(err error) *mcp.Error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, errSessionIDRequired),
		errors.Is(err, errOwnerMismatch):
		return mcp.ErrSessionRequired()
	default:
		return mcp.ErrInternal()
	}
}
