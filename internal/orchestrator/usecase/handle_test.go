package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-gateway/internal/memory"
	"context-gateway/internal/model"
	"context-gateway/internal/orchestrator"
	"context-gateway/internal/planner"
	"context-gateway/internal/worker"
	"context-gateway/pkg/llmprovider"
	pkgLog "context-gateway/pkg/log"
)

var alice = model.Scope{UserID: "alice"}

func items(contents ...string) []memory.Item {
	out := make([]memory.Item, len(contents))
	for i, c := range contents {
		out[i] = memory.Item{ID: c, Content: c}
	}
	return out
}

func TestFastMode(t *testing.T) {
	f := newFixture()
	f.mem.fallback = items("likes tea", "lives in Lisbon", "has a cat")

	out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "ping", SpeedMode: orchestrator.SpeedFast})

	assert.Equal(t, "---\n[Memory Context]\nlikes tea\nlives in Lisbon\n---", out)
	assert.Equal(t, 0, f.plan.calls)
	require.Equal(t, 1, f.mem.searchCount())
	assert.Equal(t, 2, f.mem.searches[0].Limit)
	assert.Equal(t, 1, f.queue.count(worker.KindPersistMemory))
}

func TestFastModeSearchFailure(t *testing.T) {
	f := newFixture()
	f.mem.err = errors.New("store down")

	out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "ping", SpeedMode: orchestrator.SpeedFast})
	assert.Equal(t, orchestrator.NoMemoriesMessage, out)
}

func TestBalancedMode(t *testing.T) {
	f := newFixture()
	f.mem.byQuery = map[string][]memory.Item{
		"what should I cook":       items("vegetarian", "likes pasta"),
		orchestrator.QueryIdentity: items("vegetarian", "engineer"),
		orchestrator.QueryRecent:   items("training for a marathon"),
	}
	f.synth.text = "The user is a vegetarian engineer who likes pasta."

	out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "what should I cook", SpeedMode: orchestrator.SpeedBalanced})

	assert.Equal(t, "---\n[Memory Context]\nThe user is a vegetarian engineer who likes pasta.\n---", out)
	assert.Equal(t, 3, f.mem.searchCount())
	assert.Equal(t, 1, strings.Count(f.synth.prompt, "vegetarian"))
	assert.Contains(t, f.synth.prompt, "training for a marathon")
}

func TestBalancedSurvivesPartialSearchFailure(t *testing.T) {
	tests := map[string]func(m *fakeMemory){
		"error": func(m *fakeMemory) {
			m.failOn = map[string]error{orchestrator.QueryIdentity: errors.New("qdrant down")}
		},
		"timeout": func(m *fakeMemory) {
			m.slowOn = map[string]time.Duration{orchestrator.QueryIdentity: time.Second}
		},
	}
	for name, breakOne := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.mem.byQuery = map[string][]memory.Item{
				"what should I cook":       items("likes pasta"),
				orchestrator.QueryIdentity: items("engineer"),
				orchestrator.QueryRecent:   items("training for a marathon"),
			}
			breakOne(f.mem)
			f.synth.err = errors.New("quota")

			start := time.Now()
			out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "what should I cook", SpeedMode: orchestrator.SpeedBalanced})

			assert.Less(t, time.Since(start), 800*time.Millisecond)
			assert.Equal(t, "---\n[Memory Context]\nlikes pasta\ntraining for a marathon\n---", out)
			assert.Equal(t, 3, f.mem.searchCount())
		})
	}
}

func TestBalancedSynthesisFallsBackToRawList(t *testing.T) {
	for name, synth := range map[string]*fakeSynth{
		"error":   {err: errors.New("quota")},
		"timeout": {text: "late", delay: time.Second},
		"empty":   {text: "  "},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.synth = synth
			f.uc.synthesizer = synth
			f.mem.fallback = items("a", "b")

			start := time.Now()
			out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "m", SpeedMode: orchestrator.SpeedBalanced})
			assert.Less(t, time.Since(start), 800*time.Millisecond)
			assert.Equal(t, "---\n[Memory Context]\na\nb\n---", out)
		})
	}
}

func TestComprehensiveMode(t *testing.T) {
	f := newFixture()
	f.an.text = "Profile: engineer"

	out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "analyze me", SpeedMode: orchestrator.SpeedComprehensive})
	assert.Equal(t, "---\n[Memory Context]\nProfile: engineer\n---", out)

	f.an.err = errors.New("timeout")
	f.mem.fallback = items("fact")
	out = f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "analyze me", SpeedMode: orchestrator.SpeedComprehensive})
	assert.Equal(t, "---\n[Memory Context]\nfact\n---", out)
}

func TestNewConversationWithNarrative(t *testing.T) {
	f := newFixture()
	f.narr.entries = map[string]string{"alice": "User is an engineer..."}

	for _, needs := range []bool{true, false} {
		f.queue.tasks = nil
		out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{
			Message: "hey", IsNewConversation: true, NeedsContext: needs,
		})

		assert.Equal(t, "---\n[Memory Context]\nUser is an engineer...\n---\n"+orchestrator.NarrativeDirective, out)
		assert.Equal(t, 1, f.queue.count(worker.KindPersistMemory))
		if needs {
			assert.Equal(t, 1, f.queue.count(worker.KindDeepAnalysis))
		} else {
			assert.Equal(t, 0, f.queue.count(worker.KindDeepAnalysis))
		}
	}
	assert.Equal(t, 0, f.plan.calls)
}

func TestNewConversationWithoutNarrative(t *testing.T) {
	f := newFixture()

	out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "hey", IsNewConversation: true})

	assert.Equal(t, orchestrator.BuildingContextMessage, out)
	assert.Equal(t, 1, f.queue.count(worker.KindPersistMemory))
	assert.Equal(t, 1, f.queue.count(worker.KindRegenerateNarrative))
}

func TestContextNotRequired(t *testing.T) {
	f := newFixture()

	out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "thanks!", NeedsContext: false})

	assert.Equal(t, orchestrator.ContextNotRequiredMessage, out)
	assert.Equal(t, 0, f.plan.calls)
	assert.Equal(t, 0, f.mem.searchCount())
	assert.Len(t, f.queue.tasks, 1)
	assert.Equal(t, worker.KindPersistMemory, f.queue.tasks[0].Kind)
}

func TestStandardOrchestration(t *testing.T) {
	f := newFixture()
	f.plan.res = planner.Result{Plan: planner.Plan{
		Strategy:      planner.StrategyBroadUnderstanding,
		SearchQueries: []string{"work", "family", "empty"},
	}}
	f.mem.byQuery = map[string][]memory.Item{
		"work":   items("engineer at Acme", "uses Go"),
		"family": items("uses Go", "sister in Porto"),
	}

	out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "what do I do", NeedsContext: true})

	assert.Equal(t, "---\n[Memory Context]\nengineer at Acme; uses Go\nsister in Porto\n---", out)
	assert.Equal(t, 1, f.plan.calls)
	for _, s := range f.mem.searches {
		assert.Equal(t, orchestrator.LimitBroad, s.Limit)
	}
	assert.Equal(t, 1, f.queue.count(worker.KindDeepAnalysis))
}

func TestStandardOrchestrationSurvivesPartialSearchFailure(t *testing.T) {
	tests := map[string]func(m *fakeMemory){
		"error": func(m *fakeMemory) {
			m.failOn = map[string]error{"family": errors.New("embedding quota")}
		},
		"timeout": func(m *fakeMemory) {
			m.slowOn = map[string]time.Duration{"family": time.Second}
		},
	}
	for name, breakOne := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.plan.res = planner.Result{Plan: planner.Plan{
				Strategy:      planner.StrategyBroadUnderstanding,
				SearchQueries: []string{"work", "family", "hobbies"},
			}}
			f.mem.byQuery = map[string][]memory.Item{
				"work":    items("engineer at Acme"),
				"family":  items("sister in Porto"),
				"hobbies": items("climbs on weekends"),
			}
			breakOne(f.mem)

			start := time.Now()
			out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "what do I do", NeedsContext: true})

			assert.Less(t, time.Since(start), 800*time.Millisecond)
			assert.Equal(t, "---\n[Memory Context]\nengineer at Acme\nclimbs on weekends\n---", out)
		})
	}
}

type slowLLM struct{}

func (slowLLM) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	time.Sleep(time.Second)
	return &llmprovider.Response{Text: `{"strategy":"targeted","search_queries":["x"]}`}, nil
}

func TestPlannerTimeoutStillAnswers(t *testing.T) {
	f := newFixture()
	f.uc.planner = planner.New(slowLLM{}, pkgLog.NewNop(), planner.Config{Timeout: 30 * time.Millisecond})
	f.mem.fallback = items("weekly review notes")

	start := time.Now()
	out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "analyze my week", NeedsContext: true})

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Contains(t, out, "weekly review notes")
	require.NotEmpty(t, f.mem.searches)
	assert.Equal(t, orchestrator.LimitComprehensive, f.mem.searches[0].Limit)
	assert.Equal(t, "analyze my week", f.mem.searches[0].Query)
}

func TestPanicIsRecovered(t *testing.T) {
	f := newFixture()
	f.narr.panicky = true

	out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{Message: "hey", IsNewConversation: true})
	assert.Equal(t, orchestrator.FallbackMessage, out)
}

func TestNeverEmpty(t *testing.T) {
	modes := []orchestrator.SpeedMode{"", orchestrator.SpeedFast, orchestrator.SpeedBalanced, orchestrator.SpeedComprehensive, "bogus"}
	for _, mode := range modes {
		for _, isNew := range []bool{true, false} {
			for _, needs := range []bool{true, false} {
				f := newFixture()
				f.mem.fallback = items(" ", "")
				f.an.err = errors.New("x")
				f.plan.res.Plan.SearchQueries = []string{"q"}

				out := f.uc.Handle(context.Background(), alice, orchestrator.HandleInput{
					Message: "  ", IsNewConversation: isNew, NeedsContext: needs, SpeedMode: mode,
				})
				assert.NotEmpty(t, strings.TrimSpace(out), "mode=%s new=%v needs=%v", mode, isNew, needs)
				assert.Equal(t, 1, f.queue.count(worker.KindPersistMemory))
			}
		}
	}
}

func TestParseSpeedMode(t *testing.T) {
	assert.Equal(t, orchestrator.SpeedFast, orchestrator.ParseSpeedMode(" FAST "))
	assert.Equal(t, orchestrator.SpeedAutonomous, orchestrator.ParseSpeedMode(""))
	assert.Equal(t, orchestrator.SpeedAutonomous, orchestrator.ParseSpeedMode("turbo"))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, orchestrator.NoMemoriesMessage, wrap(nil))
	assert.Equal(t, orchestrator.NoMemoriesMessage, wrap([]string{" ", "\n"}))
	assert.Equal(t, "---\n[Memory Context]\na\nb\n---", wrap([]string{"a", "", " b "}))
}

func TestCallWithTimeoutRecoversPanic(t *testing.T) {
	_, err := callWithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
		panic("boom")
	})
	assert.Error(t, err)
}
