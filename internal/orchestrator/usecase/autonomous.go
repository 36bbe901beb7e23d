package usecase

import (
	"context"
	"strings"

	"context-gateway/internal/memory"
	"context-gateway/internal/model"
	"context-gateway/internal/orchestrator"
	"context-gateway/internal/planner"
	"context-gateway/internal/worker"
)

// autonomous runs the planning pipeline. A new conversation is checked
// before needs_context, so it gets the narrative even when no context was asked for.
func (uc *implUseCase) autonomous(ctx context.Context, sc model.Scope, in orchestrator.HandleInput) (string, string) {
	if in.NeedsContext {
		uc.enqueue(ctx, sc, worker.KindDeepAnalysis, in.Message, worker.SourceTurn)
	}

	if in.IsNewConversation {
		if entry, ok := uc.narratives.Get(ctx, sc.UserID); ok {
			return wrap([]string{entry.Text}) + "\n" + orchestrator.NarrativeDirective, orchestrator.BranchNarrative
		}
		uc.enqueue(ctx, sc, worker.KindRegenerateNarrative, "", worker.SourceTurn)
		return orchestrator.BuildingContextMessage, orchestrator.BranchWelcome
	}

	if !in.NeedsContext {
		return orchestrator.ContextNotRequiredMessage, orchestrator.BranchNoContext
	}

	res := uc.planner.Plan(ctx, in.Message, false)
	if res.IsFallback() {
		uc.l.Infof(ctx, "internal.orchestrator.usecase.autonomous: heuristic plan (%s) strategy=%s", res.FallbackReason, res.Plan.Strategy)
	}
	if res.Plan.MemorableContent != "" {
		// persistence was already queued for the raw message
		uc.l.Debugf(ctx, "internal.orchestrator.usecase.autonomous: planner flagged memorable content %q", res.Plan.MemorableContent)
	}

	return uc.standard(ctx, sc, res.Plan), orchestrator.BranchStandard
}

// standard searches every plan query concurrently and lays out one fragment per query.
func (uc *implUseCase) standard(ctx context.Context, sc model.Scope, plan planner.Plan) string {
	results := uc.searchAll(ctx, sc, plan.SearchQueries, strategyLimit(plan.Strategy))

	seen := make(map[string]struct{})
	fragments := make([]string, 0, len(results))
	for _, items := range results {
		var parts []string
		for _, it := range items {
			key := it.ID
			if key == "" {
				key = "content:" + it.Content
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if c := strings.TrimSpace(it.Content); c != "" {
				parts = append(parts, c)
			}
		}
		if len(parts) > 0 {
			fragments = append(fragments, strings.Join(parts, orchestrator.FragmentJoiner))
		}
	}
	return wrap(fragments)
}

func strategyLimit(s planner.Strategy) int {
	switch s {
	case planner.StrategyBroadUnderstanding:
		return orchestrator.LimitBroad
	case planner.StrategyComprehensiveAnalysis:
		return orchestrator.LimitComprehensive
	default:
		return orchestrator.LimitTargeted
	}
}

func contents(items []memory.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Content)
	}
	return out
}
