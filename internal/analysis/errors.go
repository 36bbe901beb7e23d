package analysis

import "errors"

var (
	ErrNoMaterial  = errors.New("no memories to analyze")
	ErrUnavailable = errors.New("language model not configured")
	ErrEmptyOutput = errors.New("empty LLM response")
)
