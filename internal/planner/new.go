package planner

import (
	"context"

	"context-gateway/pkg/llmprovider"
	pkgLog "context-gateway/pkg/log"
)

// Planner produces a Context Plan for a turn. It never fails: every
// problem with the model call resolves to the local fallback plan.
type Planner interface {
	Plan(ctx context.Context, message string, isNew bool) Result
}

// LLMPlanner asks a language model for the plan.
type LLMPlanner struct {
	llm llmprovider.Generator
	l   pkgLog.Logger
	cfg Config
}

var _ Planner = (*LLMPlanner)(nil)

// New creates an LLMPlanner. A nil llm always yields the fallback plan.
func New(llm llmprovider.Generator, l pkgLog.Logger, cfg Config) *LLMPlanner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxQueryRunes <= 0 {
		cfg.MaxQueryRunes = DefaultMaxQueryRunes
	}
	return &LLMPlanner{llm: llm, l: l, cfg: cfg}
}
