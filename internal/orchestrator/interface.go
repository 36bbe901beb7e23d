package orchestrator

import (
	"context"

	"context-gateway/internal/model"
	"context-gateway/internal/worker"
)

// UseCase is the context decision engine behind the get_context tool.
type UseCase interface {
	// Handle always returns a non-empty string; failures degrade to fixed text.
	Handle(ctx context.Context, sc model.Scope, in HandleInput) string

	// SaveMemory queues content for storage without triage.
	SaveMemory(ctx context.Context, sc model.Scope, content string) bool

	// RefreshNarratives queues a narrative rebuild for every recently active owner.
	RefreshNarratives(ctx context.Context) int

	// RegisterHandlers binds the background task handlers.
	RegisterHandlers(r Registrar)
}

// Registrar is the handler side of the background coordinator.
type Registrar interface {
	Register(kind worker.Kind, h worker.HandlerFunc)
}
