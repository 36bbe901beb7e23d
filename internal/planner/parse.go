package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNoJSON = errors.New("no JSON object in response")

// parsePlan extracts and validates a plan from model output.
func parsePlan(text string) (Plan, FallbackReason, error) {
	raw := extractJSON(text)
	if raw == "" {
		return Plan{}, ReasonUnparseable, errNoJSON
	}

	var plan Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return Plan{}, ReasonUnparseable, err
	}

	plan.Strategy = Strategy(strings.ToLower(strings.TrimSpace(string(plan.Strategy))))
	if !plan.Strategy.Valid() {
		return Plan{}, ReasonInvalidPlan, fmt.Errorf("unknown strategy %q", plan.Strategy)
	}

	queries := make([]string, 0, MaxSearchQueries)
	for _, q := range plan.SearchQueries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		queries = append(queries, q)
		if len(queries) == MaxSearchQueries {
			break
		}
	}
	if len(queries) == 0 {
		return Plan{}, ReasonInvalidPlan, errors.New("no search queries")
	}
	plan.SearchQueries = queries
	plan.MemorableContent = strings.TrimSpace(plan.MemorableContent)

	return plan, ReasonNone, nil
}

// extractJSON strips a markdown fence, else takes the outermost braces.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
