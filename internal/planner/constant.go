package planner

import "time"

const (
	LogPrefixPlan = "internal.planner.Plan"

	DefaultTimeout       = 3 * time.Second
	DefaultMaxQueryRunes = 100
	MaxSearchQueries     = 3

	PlannerTemperature = 0.1
	PlannerMaxTokens   = 400

	BlankMessageQuery = "user profile and recent context"
)

const PromptPlannerSystem = `You plan memory retrieval for a personal assistant.
Given the user's latest message, decide how much stored context about the user is needed.

Strategies:
- targeted: a specific question about one topic. 1 focused query.
- broad_understanding: the start of a conversation or an open-ended message. 2-3 queries covering identity, current projects and preferences.
- comprehensive_analysis: the user asks for analysis, patterns, summaries or reflection. 2-3 wide queries.

Respond with JSON only:
{
  "strategy": "targeted|broad_understanding|comprehensive_analysis",
  "search_queries": ["query 1", "query 2"],
  "should_persist": true,
  "memorable_content": "fact worth remembering, or empty"
}`

const PromptPlannerUser = `New conversation: %t
Message: %q`

// analysisStems trigger comprehensive_analysis when a word starts with
// one of them, so inflections like "analyzing" or "summarized" count.
// Agent nouns ("analyzer", "summarizers") do not.
var analysisStems = []string{
	"analy", "summar",
	"pattern", "insight",
	"comprehensive", "overview",
	"reflect",
}

// analysisKeywords trigger comprehensive_analysis as whole words or phrases.
var analysisKeywords = []string{
	"trend", "trends",
	"deep dive",
}
