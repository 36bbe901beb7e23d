package analysis

import (
	"context"
	"fmt"
	"strings"

	"context-gateway/pkg/llmprovider"
)

func (s *Service) Synthesize(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, prompt, SynthesisTemperature, SynthesisMaxTokens)
}

func (s *Service) generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if s.llm == nil {
		return "", ErrUnavailable
	}

	req := llmprovider.UserPrompt("", prompt)
	req.Temperature = temperature
	req.MaxTokens = maxTokens

	resp, err := s.llm.GenerateContent(ctx, req)
	if err != nil {
		return "", fmt.Errorf("LLM failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}
