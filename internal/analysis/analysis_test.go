package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-gateway/internal/memory"
	"context-gateway/pkg/llmprovider"
	pkgLog "context-gateway/pkg/log"
)

type stubLLM struct {
	text   string
	err    error
	prompt string
}

func (s *stubLLM) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	s.prompt = req.Messages[0].Text
	if s.err != nil {
		return nil, s.err
	}
	return &llmprovider.Response{Text: s.text}, nil
}

type stubMemory struct {
	mu      sync.Mutex
	queries []string
	byQuery map[string][]memory.Item
	failOn  string
}

func (m *stubMemory) Add(ctx context.Context, in memory.AddInput) (string, error) { return "", nil }

func (m *stubMemory) Search(ctx context.Context, in memory.SearchInput) ([]memory.Item, error) {
	m.mu.Lock()
	m.queries = append(m.queries, in.Query)
	m.mu.Unlock()
	if in.Query == m.failOn {
		return nil, errors.New("store down")
	}
	return m.byQuery[in.Query], nil
}

func TestSynthesize(t *testing.T) {
	llm := &stubLLM{text: "  You are an engineer.  "}
	s := New(pkgLog.NewNop(), llm, &stubMemory{})

	out, err := s.Synthesize(context.Background(), "compose")
	require.NoError(t, err)
	assert.Equal(t, "You are an engineer.", out)
	assert.Equal(t, "compose", llm.prompt)

	_, err = New(pkgLog.NewNop(), &stubLLM{text: " "}, nil).Synthesize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyOutput)

	_, err = New(pkgLog.NewNop(), nil, nil).Synthesize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDeepAnalyze(t *testing.T) {
	mem := &stubMemory{
		byQuery: map[string][]memory.Item{
			"my career": {{ID: "1", Content: "works at Acme"}, {ID: "2", Content: "studied physics"}},
			analysisQueries[0]: {{ID: "1", Content: "works at Acme"}},
			analysisQueries[3]: {{ID: "3", Content: "ran a marathon"}},
		},
		failOn: analysisQueries[1],
	}
	llm := &stubLLM{text: "Profile: ..."}
	s := New(pkgLog.NewNop(), llm, mem)

	out, err := s.DeepAnalyze(context.Background(), "my career", "alice")
	require.NoError(t, err)
	assert.Equal(t, "Profile: ...", out)
	assert.Len(t, mem.queries, 1+len(analysisQueries))
	assert.Equal(t, 1, strings.Count(llm.prompt, "works at Acme"))
	assert.Contains(t, llm.prompt, "ran a marathon")
	assert.Contains(t, llm.prompt, "Task: my career")
}

func TestDeepAnalyzeNoMaterial(t *testing.T) {
	llm := &stubLLM{text: "unused"}
	_, err := New(pkgLog.NewNop(), llm, &stubMemory{}).DeepAnalyze(context.Background(), "x", "alice")
	assert.ErrorIs(t, err, ErrNoMaterial)
	assert.Empty(t, llm.prompt)
}

func TestDedupe(t *testing.T) {
	out := Dedupe(
		[]memory.Item{{ID: "a", Content: "1"}, {ID: "b", Content: "2"}},
		[]memory.Item{{ID: "b", Content: "2"}, {ID: "c", Content: "3"}},
		[]memory.Item{{Content: "x"}, {Content: "x"}},
	)
	ids := make([]string, 0, len(out))
	for _, it := range out {
		ids = append(ids, it.ID+it.Content)
	}
	assert.Equal(t, []string{"a1", "b2", "c3", "x"}, ids)
}
