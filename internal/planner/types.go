package planner

import "time"

// Strategy is how broadly a turn searches memory.
type Strategy string

const (
	StrategyTargeted              Strategy = "targeted"
	StrategyBroadUnderstanding    Strategy = "broad_understanding"
	StrategyComprehensiveAnalysis Strategy = "comprehensive_analysis"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyTargeted, StrategyBroadUnderstanding, StrategyComprehensiveAnalysis:
		return true
	}
	return false
}

// Plan is the per-turn context decision.
type Plan struct {
	Strategy         Strategy `json:"strategy"`
	SearchQueries    []string `json:"search_queries"`
	ShouldPersist    bool     `json:"should_persist"`
	MemorableContent string   `json:"memorable_content,omitempty"`
}

// FallbackReason says why the local heuristic produced the plan.
type FallbackReason string

const (
	ReasonNone          FallbackReason = ""
	ReasonTimeout       FallbackReason = "timeout"
	ReasonLLMError      FallbackReason = "llm_error"
	ReasonEmptyResponse FallbackReason = "empty_response"
	ReasonUnparseable   FallbackReason = "unparseable"
	ReasonInvalidPlan   FallbackReason = "invalid_plan"
	ReasonUnavailable   FallbackReason = "unavailable"
)

// Result is a plan plus, when the heuristic was used, the reason.
type Result struct {
	Plan           Plan
	FallbackReason FallbackReason
}

func (r Result) IsFallback() bool {
	return r.FallbackReason != ReasonNone
}

// Config for the planner.
type Config struct {
	Timeout       time.Duration
	MaxQueryRunes int
}
