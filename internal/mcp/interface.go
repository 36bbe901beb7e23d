package mcp

import (
	"context"

	"context-gateway/internal/model"
)

// UseCase dispatches JSON-RPC envelopes. Session checks belong to the transport.
type UseCase interface {
	// Handle returns the result for req, or a protocol error.
	// Notifications return (nil, nil) on success.
	Handle(ctx context.Context, sc model.Scope, req Request) (any, *Error)

	ServerInfo() ServerInfo
}
