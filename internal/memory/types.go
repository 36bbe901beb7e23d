package memory

import "time"

type AddInput struct {
	Text     string
	OwnerID  string
	Metadata map[string]string
}

type SearchInput struct {
	Query     string
	OwnerID   string
	Limit     int
	Threshold float64
}

// Item is one stored memory.
type Item struct {
	ID        string
	Content   string
	Score     float64
	Metadata  map[string]string
	CreatedAt time.Time
}

// Metadata keys and values written by the service.
const (
	MetaKind       = "kind"
	MetaSource     = "source"
	KindMessage    = "message"
	KindInsight    = "insight"
	SourceTool     = "tool"
	SourceAnalysis = "analysis"
)

// Record is an exported memory with its owner, in store order.
type Record struct {
	Seq     int64
	OwnerID string
	Item
}

// BackfillResult counts what a backfill copied.
type BackfillResult struct {
	Read   int
	Copied int
	Failed int
}
