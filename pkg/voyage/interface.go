package voyage

import (
	"context"
)

// Input types tell Voyage whether a text is stored or used to query.
const (
	InputDocument = "document"
	InputQuery    = "query"
)

// IVoyage defines the interface for Voyage AI embeddings.
// Implementations are safe for concurrent use.
type IVoyage interface {
	Embed(ctx context.Context, texts []string, inputType string) ([][]float32, error)
}
