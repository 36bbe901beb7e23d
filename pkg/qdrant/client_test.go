package qdrant_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"context-gateway/pkg/qdrant"
)

func TestSearchPoints(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/points/search") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["score_threshold"] != 0.3 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		filter := req["filter"].(map[string]any)
		must := filter["must"].([]any)[0].(map[string]any)
		if must["key"] != "owner_id" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"result":[{"id":"6c1f5d6e-2b43-4d0a-9f36-0a4d1f8f0a11","score":0.91,"payload":{"content":"likes tea"}}],"status":"ok"}`))
	}))
	defer ts.Close()

	client := qdrant.NewClient(ts.URL + "/")
	threshold := 0.3
	resp, err := client.SearchPoints(context.Background(), "memories", qdrant.SearchRequest{
		Vector:         []float32{0.1, 0.2},
		Limit:          5,
		WithPayload:    true,
		Filter:         qdrant.MatchKey("owner_id", "alice"),
		ScoreThreshold: &threshold,
	})
	if err != nil {
		t.Fatalf("SearchPoints error: %v", err)
	}
	if len(resp.Result) != 1 || resp.Result[0].Payload["content"] != "likes tea" {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
}

func TestEnsureCollection(t *testing.T) {
	created := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/existing":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/racy":
			w.WriteHeader(http.StatusConflict)
		case r.Method == http.MethodPut:
			created++
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer ts.Close()

	client := qdrant.NewClient(ts.URL)
	ctx := context.Background()
	vectors := qdrant.VectorConfig{Size: 4, Distance: "Cosine"}

	if err := client.EnsureCollection(ctx, qdrant.CreateCollectionRequest{Name: "existing", Vectors: vectors}); err != nil {
		t.Fatalf("existing: %v", err)
	}
	if err := client.EnsureCollection(ctx, qdrant.CreateCollectionRequest{Name: "fresh", Vectors: vectors}); err != nil {
		t.Fatalf("fresh: %v", err)
	}
	if err := client.EnsureCollection(ctx, qdrant.CreateCollectionRequest{Name: "racy", Vectors: vectors}); err != nil {
		t.Fatalf("racy: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected one create call, got %d", created)
	}
}

func TestUpsertPointsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer ts.Close()

	err := qdrant.NewClient(ts.URL).UpsertPoints(context.Background(), "memories", qdrant.UpsertPointsRequest{
		Points: []qdrant.Point{{ID: "x", Vector: []float32{1}}},
	})
	var apiErr *qdrant.APIError
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected 500 error, got %v", err)
	}
	if !errors.As(err, &apiErr) || apiErr.Body != "boom" {
		t.Fatalf("expected APIError with body, got %v", err)
	}
}

