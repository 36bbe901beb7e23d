package qdrant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"context-gateway/internal/memory"
	pkgLog "context-gateway/pkg/log"
	pkgQdrant "context-gateway/pkg/qdrant"
	"context-gateway/pkg/voyage"
)

const (
	payloadOwner     = "owner_id"
	payloadContent   = "content"
	payloadMetadata  = "metadata"
	payloadCreatedAt = "created_at"
)

// Qdrant is the subset of pkg/qdrant the repository needs.
type Qdrant interface {
	EnsureCollection(ctx context.Context, req pkgQdrant.CreateCollectionRequest) error
	UpsertPoints(ctx context.Context, collectionName string, req pkgQdrant.UpsertPointsRequest) error
	SearchPoints(ctx context.Context, collectionName string, req pkgQdrant.SearchRequest) (*pkgQdrant.SearchResponse, error)
}

type implRepository struct {
	l              pkgLog.Logger
	client         Qdrant
	embedder       voyage.IVoyage
	collectionName string
	vectorSize     int
}

// New creates a Qdrant-backed memory.Client. Vectors come from Voyage.
func New(l pkgLog.Logger, client Qdrant, embedder voyage.IVoyage, collectionName string, vectorSize int) *implRepository {
	return &implRepository{
		l:              l,
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     vectorSize,
	}
}

// EnsureCollection creates the collection on first start.
func (r *implRepository) EnsureCollection(ctx context.Context) error {
	return r.client.EnsureCollection(ctx, pkgQdrant.CreateCollectionRequest{
		Name:    r.collectionName,
		Vectors: pkgQdrant.VectorConfig{Size: r.vectorSize, Distance: "Cosine"},
	})
}

func (r *implRepository) Add(ctx context.Context, in memory.AddInput) (string, error) {
	if err := memory.ValidateAdd(in); err != nil {
		return "", err
	}

	vectors, err := r.embedder.Embed(ctx, []string{in.Text}, voyage.InputDocument)
	if err != nil || len(vectors) == 0 {
		return "", fmt.Errorf("failed to generate embedding: %w", err)
	}

	id := uuid.NewString()
	meta := make(map[string]any, len(in.Metadata))
	for k, v := range in.Metadata {
		meta[k] = v
	}

	point := pkgQdrant.Point{
		ID:     id,
		Vector: vectors[0],
		Payload: map[string]any{
			payloadOwner:     in.OwnerID,
			payloadContent:   in.Text,
			payloadMetadata:  meta,
			payloadCreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := r.client.UpsertPoints(ctx, r.collectionName, pkgQdrant.UpsertPointsRequest{Points: []pkgQdrant.Point{point}}); err != nil {
		return "", fmt.Errorf("failed to upsert point: %w", err)
	}

	r.l.Debugf(ctx, "internal.memory.repository.qdrant.Add: stored %s for owner=%s", id, in.OwnerID)
	return id, nil
}

func (r *implRepository) Search(ctx context.Context, in memory.SearchInput) ([]memory.Item, error) {
	if in.OwnerID == "" {
		return nil, memory.ErrMissingOwner
	}
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, nil
	}

	vectors, err := r.embedder.Embed(ctx, []string{query}, voyage.InputQuery)
	if err != nil || len(vectors) == 0 {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	req := pkgQdrant.SearchRequest{
		Vector:      vectors[0],
		Limit:       in.Limit,
		WithPayload: true,
		Filter:      pkgQdrant.MatchKey(payloadOwner, in.OwnerID),
	}
	if in.Threshold > 0 {
		threshold := in.Threshold
		req.ScoreThreshold = &threshold
	}

	resp, err := r.client.SearchPoints(ctx, r.collectionName, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	items := make([]memory.Item, 0, len(resp.Result))
	for _, scored := range resp.Result {
		content, ok := scored.Payload[payloadContent].(string)
		if !ok || content == "" {
			r.l.Warnf(ctx, "internal.memory.repository.qdrant.Search: point %v has no content", scored.ID)
			continue
		}
		items = append(items, memory.Item{
			ID:        fmt.Sprint(scored.ID),
			Content:   content,
			Score:     scored.Score,
			Metadata:  toStringMap(scored.Payload[payloadMetadata]),
			CreatedAt: parseTime(scored.Payload[payloadCreatedAt]),
		})
	}
	return items, nil
}

func toStringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = fmt.Sprint(val)
	}
	return out
}

func parseTime(v any) time.Time {
	s, _ := v.(string)
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
