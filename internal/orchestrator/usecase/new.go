package usecase

import (
	"context"
	"time"

	"context-gateway/internal/analysis"
	"context-gateway/internal/memory"
	"context-gateway/internal/narrative"
	"context-gateway/internal/orchestrator"
	"context-gateway/internal/planner"
	"context-gateway/internal/worker"
	pkgLog "context-gateway/pkg/log"
)

// NarrativeStore is the narrative cache as seen by the engine.
type NarrativeStore interface {
	Get(ctx context.Context, owner string) (narrative.Entry, bool)
	Put(ctx context.Context, owner, text string) error
}

type implUseCase struct {
	l           pkgLog.Logger
	cfg         orchestrator.Config
	mem         memory.Client
	planner     planner.Planner
	synthesizer analysis.Synthesizer
	analyzer    analysis.Analyzer
	narratives  NarrativeStore
	tasks       worker.Enqueuer
	activity    *activityTracker
}

// Deps groups the collaborators of the engine.
type Deps struct {
	Memory      memory.Client
	Planner     planner.Planner
	Synthesizer analysis.Synthesizer
	Analyzer    analysis.Analyzer
	Narratives  NarrativeStore
	Tasks       worker.Enqueuer
}

// New creates the orchestrator UseCase.
func New(l pkgLog.Logger, cfg orchestrator.Config, deps Deps) orchestrator.UseCase {
	if cfg.FastLimit <= 0 {
		cfg.FastLimit = 5
	}
	if cfg.FastTimeout <= 0 {
		cfg.FastTimeout = time.Second
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 2 * time.Second
	}
	if cfg.SynthesisTimeout <= 0 {
		cfg.SynthesisTimeout = 4 * time.Second
	}
	if cfg.ComprehensiveTimeout <= 0 {
		cfg.ComprehensiveTimeout = 20 * time.Second
	}
	if cfg.ActiveOwnerTTL <= 0 {
		cfg.ActiveOwnerTTL = 24 * time.Hour
	}

	return &implUseCase{
		l:           l,
		cfg:         cfg,
		mem:         deps.Memory,
		planner:     deps.Planner,
		synthesizer: deps.Synthesizer,
		analyzer:    deps.Analyzer,
		narratives:  deps.Narratives,
		tasks:       deps.Tasks,
		activity:    newActivityTracker(cfg.MaxActiveOwners, cfg.ActiveOwnerTTL),
	}
}
