package memory

import "context"

// Client is the add/search capability of the memory store.
type Client interface {
	// Add stores text for the owner and returns the new memory id.
	Add(ctx context.Context, in AddInput) (string, error)

	// Search returns the owner's memories ranked by relevance, best first.
	Search(ctx context.Context, in SearchInput) ([]Item, error)
}

// Exporter pages through every stored memory, oldest first.
type Exporter interface {
	// Export returns up to limit records with Seq greater than afterSeq.
	Export(ctx context.Context, afterSeq int64, limit int) ([]Record, error)
}
