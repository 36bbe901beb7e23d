package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-gateway/internal/analysis"
	"context-gateway/internal/memory"
	"context-gateway/internal/model"
	"context-gateway/internal/orchestrator"
	"context-gateway/internal/worker"
)

type registry map[worker.Kind]worker.HandlerFunc

func (r registry) Register(kind worker.Kind, h worker.HandlerFunc) { r[kind] = h }

func TestRegisterHandlers(t *testing.T) {
	f := newFixture()
	r := registry{}
	f.uc.RegisterHandlers(r)
	assert.Len(t, r, 3)
}

func TestPersistMemoryTriage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, msg := range []string{"hi", "thanks, got it", "ok ok ok ok", "  "} {
		require.NoError(t, f.uc.persistMemory(ctx, worker.Task{Payload: msg, Scope: alice, Source: worker.SourceTurn}))
	}
	assert.Empty(t, f.mem.added)

	require.NoError(t, f.uc.persistMemory(ctx, worker.Task{Payload: "I adopted a dog named Rex", Scope: alice, Source: worker.SourceTurn}))
	require.NoError(t, f.uc.persistMemory(ctx, worker.Task{Payload: "vegan", Scope: alice, Source: worker.SourceExplicit}))
	require.Len(t, f.mem.added, 2)
	assert.Equal(t, memory.KindMessage, f.mem.added[0].Metadata[memory.MetaKind])
	assert.Equal(t, worker.SourceExplicit, f.mem.added[1].Metadata[memory.MetaSource])
	assert.Equal(t, "alice", f.mem.added[0].OwnerID)

	// RegenerateEvery is 2
	assert.Equal(t, 1, f.queue.count(worker.KindRegenerateNarrative))
}

func TestPersistMemoryError(t *testing.T) {
	f := newFixture()
	f.mem.err = errors.New("store down")
	err := f.uc.persistMemory(context.Background(), worker.Task{Payload: "I adopted a dog named Rex", Scope: alice})
	assert.Error(t, err)
}

func TestDeepAnalysisStoresInsight(t *testing.T) {
	f := newFixture()
	f.an.text = "Profile: engineer"

	require.NoError(t, f.uc.deepAnalysis(context.Background(), worker.Task{Payload: "career", Scope: alice}))
	require.Len(t, f.mem.added, 1)
	assert.Equal(t, memory.KindInsight, f.mem.added[0].Metadata[memory.MetaKind])

	f.an.err = analysis.ErrNoMaterial
	require.NoError(t, f.uc.deepAnalysis(context.Background(), worker.Task{Payload: "career", Scope: alice}))
	assert.Len(t, f.mem.added, 1)
}

func TestRegenerateNarrative(t *testing.T) {
	f := newFixture()
	f.mem.fallback = []memory.Item{
		{ID: "1", Content: "engineer at Acme"},
		{ID: "2", Content: "Profile: ...", Metadata: map[string]string{memory.MetaKind: memory.KindInsight}},
	}
	f.synth.text = "Alice is an engineer at Acme."

	require.NoError(t, f.uc.regenerateNarrative(context.Background(), worker.Task{Scope: alice}))
	assert.Equal(t, "Alice is an engineer at Acme.", f.narr.entries["alice"])
	assert.Contains(t, f.synth.prompt, "engineer at Acme")
	assert.NotContains(t, f.synth.prompt, "Profile: ...")
}

func TestRegenerateNarrativeNoMemories(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.uc.regenerateNarrative(context.Background(), worker.Task{Scope: alice}))
	assert.Empty(t, f.narr.entries)
	assert.Empty(t, f.synth.prompt)
}

func TestRefreshNarratives(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.uc.Handle(ctx, alice, orchestratorInput("hi"))
	f.uc.Handle(ctx, model.Scope{UserID: "bob"}, orchestratorInput("hi"))
	f.uc.Handle(ctx, alice, orchestratorInput("hi again"))

	f.queue.tasks = nil
	assert.Equal(t, 2, f.uc.RefreshNarratives(ctx))
	assert.Equal(t, 2, f.queue.count(worker.KindRegenerateNarrative))
	for _, task := range f.queue.tasks {
		assert.Equal(t, worker.SourceScheduler, task.Source)
	}
}

func TestSaveMemory(t *testing.T) {
	f := newFixture()
	assert.True(t, f.uc.SaveMemory(context.Background(), alice, "my birthday is May 2"))
	assert.False(t, f.uc.SaveMemory(context.Background(), alice, "   "))
	require.Len(t, f.queue.tasks, 1)
	assert.Equal(t, worker.SourceExplicit, f.queue.tasks[0].Source)
}

func orchestratorInput(msg string) orchestrator.HandleInput {
	return orchestrator.HandleInput{Message: msg, SpeedMode: orchestrator.SpeedFast}
}
