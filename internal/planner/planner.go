package planner

import (
	"context"
	"fmt"
	"strings"

	"context-gateway/pkg/llmprovider"
	"context-gateway/pkg/metrics"
)

type llmResult struct {
	text string
	err  error
}

// Plan calls the model bounded by the configured timeout.
func (p *LLMPlanner) Plan(ctx context.Context, message string, isNew bool) Result {
	if p.llm == nil {
		return p.fallback(ctx, message, isNew, ReasonUnavailable, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	req := llmprovider.UserPrompt(PromptPlannerSystem, fmt.Sprintf(PromptPlannerUser, isNew, message))
	req.Temperature = PlannerTemperature
	req.MaxTokens = PlannerMaxTokens
	req.JSONOutput = true

	// Buffered so the goroutine never leaks when the deadline wins.
	done := make(chan llmResult, 1)
	go func() {
		resp, err := p.llm.GenerateContent(ctx, req)
		if err != nil {
			done <- llmResult{err: err}
			return
		}
		done <- llmResult{text: resp.Text}
	}()

	var res llmResult
	select {
	case <-ctx.Done():
		return p.fallback(ctx, message, isNew, ReasonTimeout, ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		if ctx.Err() != nil {
			return p.fallback(ctx, message, isNew, ReasonTimeout, res.err)
		}
		return p.fallback(ctx, message, isNew, ReasonLLMError, res.err)
	}
	if strings.TrimSpace(res.text) == "" {
		return p.fallback(ctx, message, isNew, ReasonEmptyResponse, nil)
	}

	plan, reason, err := parsePlan(res.text)
	if err != nil {
		return p.fallback(ctx, message, isNew, reason, err)
	}

	p.l.Debugf(ctx, "%s: strategy=%s queries=%d", LogPrefixPlan, plan.Strategy, len(plan.SearchQueries))
	return Result{Plan: plan}
}

func (p *LLMPlanner) fallback(ctx context.Context, message string, isNew bool, reason FallbackReason, err error) Result {
	metrics.RecordPlannerFallback(string(reason))
	if reason != ReasonUnavailable {
		p.l.Warnf(ctx, "%s: falling back (%s): %v", LogPrefixPlan, reason, err)
	}
	return Result{
		Plan:           Fallback(message, isNew, p.cfg.MaxQueryRunes),
		FallbackReason: reason,
	}
}
