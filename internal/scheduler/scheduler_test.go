package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-gateway/internal/model"
	"context-gateway/internal/orchestrator"
	pkgLog "context-gateway/pkg/log"
)

type refreshCounter struct {
	calls int32
}

func (r *refreshCounter) Handle(ctx context.Context, sc model.Scope, in orchestrator.HandleInput) string {
	return ""
}
func (r *refreshCounter) SaveMemory(ctx context.Context, sc model.Scope, content string) bool {
	return true
}
func (r *refreshCounter) RefreshNarratives(ctx context.Context) int {
	atomic.AddInt32(&r.calls, 1)
	return 3
}
func (r *refreshCounter) RegisterHandlers(reg orchestrator.Registrar) {}

func TestAddValidation(t *testing.T) {
	s := New(pkgLog.NewNop())

	assert.NoError(t, s.Add(Job{Name: "off", Spec: ""}))
	assert.Error(t, s.Add(Job{Name: "bad", Spec: "not a spec", Run: func(context.Context) {}}))
	assert.Error(t, s.Add(Job{Name: "norun", Spec: "@every 1h"}))
	assert.NoError(t, s.Add(Job{Name: "ok", Spec: "@every 1h", Run: func(context.Context) {}}))
}

func TestJobsRun(t *testing.T) {
	uc := &refreshCounter{}
	NarrativeRefreshJob("@every 1h", uc, pkgLog.NewNop()).Run(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&uc.calls))

	var sampled int32
	GaugeSamplingJob("@every 1h", func() int {
		atomic.AddInt32(&sampled, 1)
		return 7
	}).Run(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&sampled))
}

func TestSchedulerRunsAndStops(t *testing.T) {
	s := New(pkgLog.NewNop())

	var runs, panics int32
	require.NoError(t, s.Add(Job{Name: "tick", Spec: "@every 1s", Run: func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	}}))
	require.NoError(t, s.Add(Job{Name: "boom", Spec: "@every 1s", Run: func(ctx context.Context) {
		atomic.AddInt32(&panics, 1)
		panic("job failure")
	}}))

	s.Start()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) > 0 && atomic.LoadInt32(&panics) > 0
	}, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
