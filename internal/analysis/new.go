// Package analysis wraps the language model calls used for synthesis and deep analysis.
package analysis

import (
	"context-gateway/internal/memory"
	"context-gateway/pkg/llmprovider"
	pkgLog "context-gateway/pkg/log"
)

// Service implements Synthesizer and Analyzer.
type Service struct {
	l   pkgLog.Logger
	llm llmprovider.Generator
	mem memory.Client
}

var (
	_ Synthesizer = (*Service)(nil)
	_ Analyzer    = (*Service)(nil)
)

// New creates a Service. With a nil llm every call returns ErrUnavailable.
func New(l pkgLog.Logger, llm llmprovider.Generator, mem memory.Client) *Service {
	return &Service{l: l, llm: llm, mem: mem}
}
