package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"context-gateway/internal/memory"
)

// DeepAnalyze searches memory from several angles and asks the model for a
// structured analysis. Individual search failures only shrink the material.
func (s *Service) DeepAnalyze(ctx context.Context, query, ownerID string) (string, error) {
	if s.llm == nil {
		return "", ErrUnavailable
	}

	queries := append([]string{query}, analysisQueries...)
	results := make([][]memory.Item, len(queries))

	var mu sync.Mutex
	var failures int
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		if strings.TrimSpace(q) == "" {
			continue
		}
		g.Go(func() error {
			items, err := s.mem.Search(gctx, memory.SearchInput{Query: q, OwnerID: ownerID, Limit: MaxItemsPerQuery})
			if err != nil {
				mu.Lock()
				failures++
				mu.Unlock()
				s.l.Warnf(ctx, "internal.analysis.DeepAnalyze: search %q: %v", q, err)
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	items := Dedupe(results...)
	if len(items) == 0 {
		return "", ErrNoMaterial
	}
	if len(items) > MaxItemsInContext {
		items = items[:MaxItemsInContext]
	}
	if failures > 0 {
		s.l.Infof(ctx, "internal.analysis.DeepAnalyze: %d of %d searches failed", failures, len(queries))
	}

	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, Truncate(it.Content, MaxRunesPerItem))
	}

	task := strings.TrimSpace(query)
	if task == "" {
		task = "Summarise what is known about the user."
	}
	return s.generate(ctx, fmt.Sprintf(PromptAnalysis, b.String(), task), AnalysisTemperature, AnalysisMaxTokens)
}

// Dedupe merges result lists keeping the first occurrence of each id.
func Dedupe(lists ...[]memory.Item) []memory.Item {
	seen := make(map[string]struct{})
	var out []memory.Item
	for _, list := range lists {
		for _, it := range list {
			key := it.ID
			if key == "" {
				key = "content:" + it.Content
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}

// Truncate cuts s to n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
