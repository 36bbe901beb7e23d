package analysis

import "context"

// Synthesizer turns a prompt into prose.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string) (string, error)
}

// Analyzer produces a multi-source analysis of what is known about an owner.
type Analyzer interface {
	DeepAnalyze(ctx context.Context, query, ownerID string) (string, error)
}
