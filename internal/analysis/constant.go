package analysis

const (
	SynthesisTemperature = 0.2
	SynthesisMaxTokens   = 800
	AnalysisTemperature  = 0.3
	AnalysisMaxTokens    = 1024

	MaxItemsPerQuery  = 10
	MaxItemsInContext = 30
	MaxRunesPerItem   = 800
)

// Broad angles searched in addition to the caller's query.
var analysisQueries = []string{
	"who the user is: identity, background, preferences",
	"goals, plans and ongoing projects",
	"relationships with people, teams and organisations",
	"recent events and activities",
}

const PromptAnalysis = `You are analysing everything a personal assistant remembers about its user.

Memories:
%s
Task: %s

Write a structured analysis with these sections: Profile, Current focus, Patterns, Open threads.
Only use facts present in the memories. If something is unknown, say so instead of guessing.`
