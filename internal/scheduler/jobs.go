package scheduler

import (
	"context"

	"context-gateway/internal/orchestrator"
	pkgLog "context-gateway/pkg/log"
	"context-gateway/pkg/metrics"
)

const (
	JobNarrativeRefresh = "narrative_refresh"
	JobGaugeSampling    = "gauge_sampling"
)

// NarrativeRefreshJob queues narrative regeneration for recently active owners.
func NarrativeRefreshJob(spec string, uc orchestrator.UseCase, l pkgLog.Logger) Job {
	return Job{
		Name: JobNarrativeRefresh,
		Spec: spec,
		Run: func(ctx context.Context) {
			n := uc.RefreshNarratives(ctx)
			l.Infof(ctx, "internal.scheduler.NarrativeRefreshJob: queued %d narrative refreshes", n)
		},
	}
}

// GaugeSamplingJob publishes the background queue depth.
func GaugeSamplingJob(spec string, depth func() int) Job {
	return Job{
		Name: JobGaugeSampling,
		Spec: spec,
		Run: func(ctx context.Context) {
			metrics.SetQueueDepth(depth())
		},
	}
}
