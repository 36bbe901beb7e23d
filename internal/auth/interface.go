package auth

import (
	"context"

	"context-gateway/internal/model"
)

// Authenticator turns a bearer token into an owner identity.
type Authenticator interface {
	// Authenticate resolves a bearer token to an owner scope.
	Authenticate(ctx context.Context, token string) (model.Scope, error)
}
