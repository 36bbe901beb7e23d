package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"context-gateway/internal/analysis"
	"context-gateway/internal/memory"
	"context-gateway/internal/orchestrator"
	"context-gateway/internal/worker"
)

func (uc *implUseCase) RegisterHandlers(r orchestrator.Registrar) {
	r.Register(worker.KindPersistMemory, uc.persistMemory)
	r.Register(worker.KindDeepAnalysis, uc.deepAnalysis)
	r.Register(worker.KindRegenerateNarrative, uc.regenerateNarrative)
}

func (uc *implUseCase) RefreshNarratives(ctx context.Context) int {
	n := 0
	for _, sc := range uc.activity.owners() {
		if uc.enqueue(ctx, sc, worker.KindRegenerateNarrative, "", worker.SourceScheduler) {
			n++
		}
	}
	return n
}

// persistMemory stores a message unless triage finds nothing worth keeping.
// Explicit saves skip triage.
func (uc *implUseCase) persistMemory(ctx context.Context, t worker.Task) error {
	text := strings.TrimSpace(t.Payload)
	if text == "" {
		return nil
	}
	if t.Source != worker.SourceExplicit && !uc.memorable(text) {
		uc.l.Debugf(ctx, "internal.orchestrator.usecase.persistMemory: skipped trivial message")
		return nil
	}

	source := worker.SourceTurn
	if t.Source != "" {
		source = t.Source
	}
	id, err := uc.mem.Add(ctx, memory.AddInput{
		Text:    text,
		OwnerID: t.Scope.UserID,
		Metadata: map[string]string{
			memory.MetaKind:   memory.KindMessage,
			memory.MetaSource: source,
		},
	})
	if err != nil {
		return fmt.Errorf("memory.Add: %w", err)
	}
	uc.l.Debugf(ctx, "internal.orchestrator.usecase.persistMemory: stored %s", id)

	if uc.activity.recordWrite(t.Scope, uc.cfg.RegenerateEvery) {
		uc.enqueue(ctx, t.Scope, worker.KindRegenerateNarrative, "", worker.SourceTurn)
	}
	return nil
}

// deepAnalysis stores the analysis of a turn as an insight memory.
func (uc *implUseCase) deepAnalysis(ctx context.Context, t worker.Task) error {
	text, err := uc.analyzer.DeepAnalyze(ctx, t.Payload, t.Scope.UserID)
	if errors.Is(err, analysis.ErrNoMaterial) || errors.Is(err, analysis.ErrUnavailable) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("DeepAnalyze: %w", err)
	}

	_, err = uc.mem.Add(ctx, memory.AddInput{
		Text:    text,
		OwnerID: t.Scope.UserID,
		Metadata: map[string]string{
			memory.MetaKind:   memory.KindInsight,
			memory.MetaSource: memory.SourceAnalysis,
		},
	})
	if err != nil {
		return fmt.Errorf("memory.Add insight: %w", err)
	}
	return nil
}

// regenerateNarrative rebuilds the owner's narrative from a broad search.
func (uc *implUseCase) regenerateNarrative(ctx context.Context, t worker.Task) error {
	results := uc.searchAll(ctx, t.Scope, orchestrator.NarrativeQueries, orchestrator.LimitNarrative)
	items := analysis.Dedupe(results...)
	if len(items) == 0 {
		return nil
	}

	var list strings.Builder
	for _, it := range items {
		if it.Metadata[memory.MetaKind] == memory.KindInsight {
			continue
		}
		fmt.Fprintf(&list, "- %s\n", analysis.Truncate(it.Content, analysis.MaxRunesPerItem))
	}
	if list.Len() == 0 {
		return nil
	}

	text, err := uc.synthesizer.Synthesize(ctx, fmt.Sprintf(orchestrator.PromptNarrative, list.String()))
	if errors.Is(err, analysis.ErrUnavailable) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("Synthesize: %w", err)
	}
	if err := uc.narratives.Put(ctx, t.Scope.UserID, text); err != nil {
		return fmt.Errorf("narrative.Put: %w", err)
	}
	uc.l.Infof(ctx, "internal.orchestrator.usecase.regenerateNarrative: refreshed from %d memories", len(items))
	return nil
}

// memorable is the triage heuristic for turn messages.
func (uc *implUseCase) memorable(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	if len(words) < uc.cfg.MinMemorableWords {
		return false
	}
	for _, w := range words {
		if _, trivial := orchestrator.TrivialWords[w]; !trivial {
			return true
		}
	}
	return false
}
