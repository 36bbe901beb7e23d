package qdrant

// CreateCollectionRequest defines the schema for creating a collection.
type CreateCollectionRequest struct {
	Name    string       `json:"-"`
	Vectors VectorConfig `json:"vectors"`
}

// VectorConfig defines vector dimension and distance metric.
type VectorConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"` // "Cosine", "Euclid", "Dot"
}

// Point represents a vector with payload.
// Qdrant only accepts a UUID string or an unsigned integer as ID.
type Point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// UpsertPointsRequest is the request to insert/update points.
type UpsertPointsRequest struct {
	Points []Point `json:"points"`
}

// Filter is the boolean filter clause shared by search and delete.
type Filter struct {
	Must []Condition `json:"must,omitempty"`
}

// Condition matches a payload key against one value.
type Condition struct {
	Key   string `json:"key"`
	Match Match  `json:"match"`
}

type Match struct {
	Value any `json:"value"`
}

// MatchKey builds a filter requiring every key/value pair.
func MatchKey(key string, value any) *Filter {
	return &Filter{Must: []Condition{{Key: key, Match: Match{Value: value}}}}
}

// SearchRequest is the request for semantic search.
type SearchRequest struct {
	Vector         []float32 `json:"vector"`
	Limit          int       `json:"limit"`
	WithPayload    bool      `json:"with_payload"`
	Filter         *Filter   `json:"filter,omitempty"`
	ScoreThreshold *float64  `json:"score_threshold,omitempty"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Result []ScoredPoint `json:"result"`
}

// ScoredPoint is a search result with similarity score.
type ScoredPoint struct {
	ID      any            `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// DeletePointsRequest deletes by explicit IDs or by filter.
type DeletePointsRequest struct {
	Points []string `json:"points,omitempty"`
	Filter *Filter  `json:"filter,omitempty"`
}
