package session

import (
	"context"

	"context-gateway/internal/model"
)

// UseCase owns session identity for the transport layer.
type UseCase interface {
	// Create issues a new session for the owner in sc.
	Create(ctx context.Context, sc model.Scope) (Session, error)

	// Validate returns the live session and refreshes its last activity.
	// It returns ErrSessionNotFound for unknown, terminated or idle-expired ids.
	Validate(ctx context.Context, id string) (Session, error)

	// Lookup reads the session without refreshing it.
	Lookup(ctx context.Context, id string) (Session, error)

	// Terminate removes the session and reports whether it existed.
	Terminate(ctx context.Context, id string) (bool, error)

	// Watch returns a channel closed when id is terminated on this instance.
	Watch(id string) (<-chan struct{}, func())

	ValidateOrigin(origin string) bool
	SetAllowedOrigins(origins []string)
}
