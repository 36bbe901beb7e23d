package usecase

import (
	"context"
	"sync"
	"time"

	"context-gateway/internal/memory"
	"context-gateway/internal/narrative"
	"context-gateway/internal/orchestrator"
	"context-gateway/internal/planner"
	"context-gateway/internal/worker"
	pkgLog "context-gateway/pkg/log"
)

type fakeMemory struct {
	mu       sync.Mutex
	byQuery  map[string][]memory.Item
	fallback []memory.Item
	err      error
	delay    time.Duration
	failOn   map[string]error
	slowOn   map[string]time.Duration
	searches []memory.SearchInput
	added    []memory.AddInput
}

func (m *fakeMemory) Add(ctx context.Context, in memory.AddInput) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, in)
	return "mem-id", m.err
}

func (m *fakeMemory) Search(ctx context.Context, in memory.SearchInput) ([]memory.Item, error) {
	m.mu.Lock()
	m.searches = append(m.searches, in)
	m.mu.Unlock()
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if d, ok := m.slowOn[in.Query]; ok {
		time.Sleep(d)
	}
	if err, ok := m.failOn[in.Query]; ok {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if items, ok := m.byQuery[in.Query]; ok {
		return items, nil
	}
	return m.fallback, nil
}

func (m *fakeMemory) searchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.searches)
}

type fakePlanner struct {
	res   planner.Result
	calls int
}

func (p *fakePlanner) Plan(ctx context.Context, message string, isNew bool) planner.Result {
	p.calls++
	return p.res
}

type fakeSynth struct {
	text   string
	err    error
	delay  time.Duration
	prompt string
}

func (s *fakeSynth) Synthesize(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.text, s.err
}

type fakeAnalyzer struct {
	text  string
	err   error
	calls int
}

func (a *fakeAnalyzer) DeepAnalyze(ctx context.Context, query, owner string) (string, error) {
	a.calls++
	return a.text, a.err
}

type fakeNarratives struct {
	mu      sync.Mutex
	entries map[string]string
	panicky bool
}

func (n *fakeNarratives) Get(ctx context.Context, owner string) (narrative.Entry, bool) {
	if n.panicky {
		panic("narrative backend exploded")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	text, ok := n.entries[owner]
	return narrative.Entry{OwnerID: owner, Text: text}, ok
}

func (n *fakeNarratives) Put(ctx context.Context, owner, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.entries == nil {
		n.entries = make(map[string]string)
	}
	n.entries[owner] = text
	return nil
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []worker.Task
}

func (q *fakeQueue) Enqueue(t worker.Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return true
}

func (q *fakeQueue) count(kind worker.Kind) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, t := range q.tasks {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

type fixture struct {
	uc    *implUseCase
	mem   *fakeMemory
	plan  *fakePlanner
	synth *fakeSynth
	an    *fakeAnalyzer
	narr  *fakeNarratives
	queue *fakeQueue
}

func newFixture() *fixture {
	f := &fixture{
		mem: &fakeMemory{},
		plan: &fakePlanner{res: planner.Result{Plan: planner.Plan{
			Strategy:      planner.StrategyTargeted,
			SearchQueries: []string{"q1"},
		}}},
		synth: &fakeSynth{},
		an:    &fakeAnalyzer{},
		narr:  &fakeNarratives{},
		queue: &fakeQueue{},
	}
	f.uc = New(pkgLog.NewNop(), orchestrator.Config{
		FastLimit:            2,
		FastTimeout:          200 * time.Millisecond,
		SearchTimeout:        200 * time.Millisecond,
		SynthesisTimeout:     100 * time.Millisecond,
		ComprehensiveTimeout: 200 * time.Millisecond,
		MinMemorableWords:    3,
		RegenerateEvery:      2,
	}, Deps{
		Memory:      f.mem,
		Planner:     f.plan,
		Synthesizer: f.synth,
		Analyzer:    f.an,
		Narratives:  f.narr,
		Tasks:       f.queue,
	}).(*implUseCase)
	return f
}
