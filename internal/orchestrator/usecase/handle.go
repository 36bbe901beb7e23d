package usecase

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"context-gateway/internal/model"
	"context-gateway/internal/orchestrator"
	"context-gateway/internal/worker"
	"context-gateway/pkg/metrics"
)

const logPrefixHandle = "internal.orchestrator.usecase.Handle"

func (uc *implUseCase) Handle(ctx context.Context, sc model.Scope, in orchestrator.HandleInput) (out string) {
	start := time.Now()
	mode := orchestrator.ParseSpeedMode(string(in.SpeedMode))
	branch := string(mode)

	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "%s: recovered panic owner=%s mode=%s: %v\n%s", logPrefixHandle, sc.UserID, mode, r, debug.Stack())
			out = orchestrator.FallbackMessage
			branch = orchestrator.BranchPanic
		}
		if strings.TrimSpace(out) == "" {
			out = orchestrator.NoMemoriesMessage
		}
		metrics.RecordTurn(string(mode), branch, time.Since(start))
	}()

	uc.activity.touch(sc)
	uc.enqueue(ctx, sc, worker.KindPersistMemory, in.Message, worker.SourceTurn)

	switch mode {
	case orchestrator.SpeedFast:
		out, branch = uc.fast(ctx, sc, in.Message), orchestrator.BranchFast
	case orchestrator.SpeedBalanced:
		out, branch = uc.balanced(ctx, sc, in.Message), orchestrator.BranchBalanced
	case orchestrator.SpeedComprehensive:
		out, branch = uc.comprehensive(ctx, sc, in.Message)
	default:
		out, branch = uc.autonomous(ctx, sc, in)
	}
	return out
}

func (uc *implUseCase) SaveMemory(ctx context.Context, sc model.Scope, content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	uc.activity.touch(sc)
	return uc.enqueue(ctx, sc, worker.KindPersistMemory, content, worker.SourceExplicit)
}

func (uc *implUseCase) enqueue(ctx context.Context, sc model.Scope, kind worker.Kind, payload, source string) bool {
	ok := uc.tasks.Enqueue(worker.Task{
		Kind:    kind,
		Payload: payload,
		Source:  source,
		Scope:   sc,
	})
	if !ok {
		uc.l.Debugf(ctx, "%s: %s task not queued for owner=%s", logPrefixHandle, kind, sc.UserID)
	}
	return ok
}
