package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"context-gateway/internal/analysis"
	"context-gateway/internal/memory"
	"context-gateway/internal/model"
	"context-gateway/internal/orchestrator"
)

// fast is a single bounded search with no model calls.
func (uc *implUseCase) fast(ctx context.Context, sc model.Scope, message string) string {
	items, err := callWithTimeout(ctx, uc.cfg.FastTimeout, func(ctx context.Context) ([]memory.Item, error) {
		return uc.mem.Search(ctx, memory.SearchInput{
			Query:     message,
			OwnerID:   sc.UserID,
			Limit:     uc.cfg.FastLimit,
			Threshold: uc.cfg.SearchThreshold,
		})
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.orchestrator.usecase.fast: search owner=%s: %v", sc.UserID, err)
		return orchestrator.NoMemoriesMessage
	}
	if len(items) > uc.cfg.FastLimit {
		items = items[:uc.cfg.FastLimit]
	}
	return wrap(contents(items))
}

// balanced searches three angles concurrently and asks for a short synthesis.
func (uc *implUseCase) balanced(ctx context.Context, sc model.Scope, message string) string {
	queries := []string{message, orchestrator.QueryIdentity, orchestrator.QueryRecent}
	results := uc.searchAll(ctx, sc, queries, orchestrator.LimitBalanced)

	items := analysis.Dedupe(results...)
	if len(items) == 0 {
		return orchestrator.NoMemoriesMessage
	}

	var list strings.Builder
	for i, it := range items {
		fmt.Fprintf(&list, "%d. %s\n", i+1, it.Content)
	}

	text, err := callWithTimeout(ctx, uc.cfg.SynthesisTimeout, func(ctx context.Context) (string, error) {
		return uc.synthesizer.Synthesize(ctx, fmt.Sprintf(orchestrator.PromptBalanced, message, list.String()))
	})
	if err != nil || strings.TrimSpace(text) == "" {
		uc.l.Warnf(ctx, "internal.orchestrator.usecase.balanced: synthesis owner=%s, using raw results: %v", sc.UserID, err)
		return wrap(contents(items))
	}
	return wrap([]string{text})
}

// comprehensive delegates to deep analysis and degrades to fast.
func (uc *implUseCase) comprehensive(ctx context.Context, sc model.Scope, message string) (string, string) {
	text, err := callWithTimeout(ctx, uc.cfg.ComprehensiveTimeout, func(ctx context.Context) (string, error) {
		return uc.analyzer.DeepAnalyze(ctx, message, sc.UserID)
	})
	if err != nil || strings.TrimSpace(text) == "" {
		uc.l.Warnf(ctx, "internal.orchestrator.usecase.comprehensive: owner=%s, falling back to fast: %v", sc.UserID, err)
		return uc.fast(ctx, sc, message), orchestrator.BranchFast
	}
	return wrap([]string{text}), orchestrator.BranchComprehensive
}

// searchAll runs one search per query concurrently. A failed query yields
// an empty slot instead of failing the join.
func (uc *implUseCase) searchAll(ctx context.Context, sc model.Scope, queries []string, limit int) [][]memory.Item {
	results := make([][]memory.Item, len(queries))

	var g errgroup.Group
	for i, q := range queries {
		if strings.TrimSpace(q) == "" {
			continue
		}
		g.Go(func() error {
			items, err := callWithTimeout(ctx, uc.cfg.SearchTimeout, func(ctx context.Context) ([]memory.Item, error) {
				return uc.mem.Search(ctx, memory.SearchInput{
					Query:     q,
					OwnerID:   sc.UserID,
					Limit:     limit,
					Threshold: uc.cfg.SearchThreshold,
				})
			})
			if err != nil {
				uc.l.Warnf(ctx, "internal.orchestrator.usecase.searchAll: query %q owner=%s: %v", q, sc.UserID, err)
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()
	return results
}
