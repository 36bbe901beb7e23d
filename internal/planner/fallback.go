package planner

import (
	"strings"
	"unicode"
)

// Fallback computes a plan locally. It is pure and cannot fail.
// Analysis intent outranks conversation novelty.
func Fallback(message string, isNew bool, maxQueryRunes int) Plan {
	if maxQueryRunes <= 0 {
		maxQueryRunes = DefaultMaxQueryRunes
	}

	strategy := StrategyTargeted
	switch {
	case hasAnalysisIntent(message):
		strategy = StrategyComprehensiveAnalysis
	case isNew:
		strategy = StrategyBroadUnderstanding
	}

	query := strings.TrimSpace(message)
	if query == "" {
		query = BlankMessageQuery
	} else if r := []rune(query); len(r) > maxQueryRunes {
		query = strings.TrimSpace(string(r[:maxQueryRunes]))
	}

	return Plan{
		Strategy:      strategy,
		SearchQueries: []string{query},
		ShouldPersist: true,
	}
}

func hasAnalysisIntent(message string) bool {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if isAgentNoun(w) {
			continue
		}
		for _, stem := range analysisStems {
			if strings.HasPrefix(w, stem) {
				return true
			}
		}
	}
	normalized := " " + strings.Join(words, " ") + " "
	for _, kw := range analysisKeywords {
		if strings.Contains(normalized, " "+kw+" ") {
			return true
		}
	}
	return false
}

func isAgentNoun(w string) bool {
	return strings.HasSuffix(w, "er") || strings.HasSuffix(w, "ers")
}
