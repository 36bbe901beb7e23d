package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"context-gateway/config"
	"context-gateway/pkg/log"
)

// mockProvider is a test implementation of the Provider interface
type mockProvider struct {
	name       string
	model      string
	shouldFail bool
	delay      time.Duration
	response   *Response
	mu         sync.Mutex
	callCount  int
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.shouldFail {
		return nil, errors.New("mock provider error")
	}
	return m.response, nil
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Model() string { return m.model }

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// mockLogger records formatted warnings.
type mockLogger struct {
	mu           sync.Mutex
	warnMessages []string
}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnMessages = append(m.warnMessages, fmt.Sprintf(template, arg...))
}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

var _ log.Logger = (*mockLogger)(nil)

func okResponse(provider string) *Response {
	return &Response{Text: "hello from " + provider, ProviderName: provider, ModelName: provider + "-model"}
}

func TestGenerateContent_SuccessWithPrimaryProvider(t *testing.T) {
	primary := &mockProvider{name: "primary", model: "primary-model", response: okResponse("primary")}
	secondary := &mockProvider{name: "secondary", model: "secondary-model", response: okResponse("secondary")}

	manager := NewManager([]Provider{primary, secondary}, &Config{
		FallbackEnabled: true,
		RetryAttempts:   3,
		RetryDelay:      10 * time.Millisecond,
	}, &mockLogger{})

	resp, err := manager.GenerateContent(context.Background(), UserPrompt("sys", "Hello"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Text != "hello from primary" {
		t.Errorf("Expected primary response, got %q", resp.Text)
	}
	if primary.calls() != 1 {
		t.Errorf("Expected primary to be called once, got %d", primary.calls())
	}
	if secondary.calls() != 0 {
		t.Errorf("Expected secondary not to be called, got %d", secondary.calls())
	}
}

func TestGenerateContent_FallbackToSecondary(t *testing.T) {
	primary := &mockProvider{name: "primary", model: "primary-model", shouldFail: true}
	secondary := &mockProvider{name: "secondary", model: "secondary-model", response: okResponse("secondary")}
	logger := &mockLogger{}

	manager := NewManager([]Provider{primary, secondary}, &Config{
		FallbackEnabled: true,
		RetryAttempts:   2,
		RetryDelay:      time.Millisecond,
	}, logger)

	resp, err := manager.GenerateContent(context.Background(), UserPrompt("", "Hello"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.ProviderName != "secondary" {
		t.Errorf("Expected secondary provider, got %s", resp.ProviderName)
	}
	if primary.calls() != 2 {
		t.Errorf("Expected primary to be retried twice, got %d", primary.calls())
	}
	if len(logger.warnMessages) != 1 {
		t.Errorf("Expected one failure warning, got %d", len(logger.warnMessages))
	}
}

func TestGenerateContent_AllProvidersFail(t *testing.T) {
	primary := &mockProvider{name: "primary", shouldFail: true}
	secondary := &mockProvider{name: "secondary", shouldFail: true}

	manager := NewManager([]Provider{primary, secondary}, &Config{FallbackEnabled: true, RetryAttempts: 1}, &mockLogger{})

	_, err := manager.GenerateContent(context.Background(), UserPrompt("", "Hello"))
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("Expected ErrAllProvidersFailed, got: %v", err)
	}
}

func TestGenerateContent_FallbackDisabled(t *testing.T) {
	primary := &mockProvider{name: "primary", shouldFail: true}
	secondary := &mockProvider{name: "secondary", response: okResponse("secondary")}

	manager := NewManager([]Provider{primary, secondary}, &Config{FallbackEnabled: false, RetryAttempts: 1}, &mockLogger{})

	if _, err := manager.GenerateContent(context.Background(), UserPrompt("", "Hello")); err == nil {
		t.Fatal("Expected error when fallback is disabled")
	}
	if secondary.calls() != 0 {
		t.Errorf("Expected secondary not to be called, got %d", secondary.calls())
	}
}

func TestGenerateContent_NoProviders(t *testing.T) {
	manager := NewManager(nil, &Config{}, &mockLogger{})

	_, err := manager.GenerateContent(context.Background(), UserPrompt("", "Hello"))
	if !errors.Is(err, ErrNoProvidersConfigured) {
		t.Fatalf("Expected ErrNoProvidersConfigured, got: %v", err)
	}
}

func TestGenerateContent_RespectsTotalTimeout(t *testing.T) {
	slow := &mockProvider{name: "slow", delay: time.Second, response: okResponse("slow")}

	manager := NewManager([]Provider{slow}, &Config{
		FallbackEnabled: true,
		RetryAttempts:   1,
		MaxTotalTimeout: 20 * time.Millisecond,
	}, &mockLogger{})

	start := time.Now()
	_, err := manager.GenerateContent(context.Background(), UserPrompt("", "Hello"))
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Expected call to be bounded by MaxTotalTimeout, took %v", elapsed)
	}
}

func TestGenerateContent_NilUsage(t *testing.T) {
	p := &mockProvider{name: "p", response: &Response{Text: "ok"}}
	manager := NewManager([]Provider{p}, &Config{}, &mockLogger{})

	resp, err := manager.GenerateContent(context.Background(), UserPrompt("", "Hello"))
	if err != nil || resp.Text != "ok" {
		t.Fatalf("Expected ok response, got %v, %v", resp, err)
	}
}

func TestInitializeProviders(t *testing.T) {
	cfg := &config.LLMConfig{
		Providers: []config.ProviderConfig{
			{Name: "gemini", Enabled: true, Priority: 2, APIKey: "g-key", Model: "gemini-2.5-flash"},
			{Name: "deepseek", Enabled: true, Priority: 1, APIKey: "d-key", Model: "deepseek-chat"},
			{Name: "qwen", Enabled: false, Priority: 0, APIKey: "q-key", Model: "qwen-plus"},
			{Name: "mystery", Enabled: true, Priority: 3, APIKey: "m-key", Model: "m"},
		},
	}
	logger := &mockLogger{}

	providers, err := InitializeProviders(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("Expected 2 providers, got %d", len(providers))
	}
	if providers[0].Name() != "deepseek" || providers[1].Name() != "gemini" {
		t.Errorf("Expected priority order [deepseek gemini], got [%s %s]", providers[0].Name(), providers[1].Name())
	}
	if len(logger.warnMessages) != 1 {
		t.Errorf("Expected one skip warning for the unknown provider, got %d", len(logger.warnMessages))
	}
}

func TestInitializeProviders_NoneEnabled(t *testing.T) {
	cfg := &config.LLMConfig{Providers: []config.ProviderConfig{{Name: "gemini", APIKey: "k", Model: "m"}}}

	_, err := InitializeProviders(context.Background(), cfg, &mockLogger{})
	if !errors.Is(err, ErrNoProvidersConfigured) {
		t.Fatalf("Expected ErrNoProvidersConfigured, got: %v", err)
	}
}

func TestManagerConfig(t *testing.T) {
	cfg := ManagerConfig(&config.LLMConfig{FallbackEnabled: true, RetryAttempts: 2, RetryDelay: "250ms", MaxTotalTimeout: "bogus"})
	if cfg.RetryDelay != 250*time.Millisecond {
		t.Errorf("Expected 250ms retry delay, got %v", cfg.RetryDelay)
	}
	if cfg.MaxTotalTimeout != 30*time.Second {
		t.Errorf("Expected default total timeout, got %v", cfg.MaxTotalTimeout)
	}

	cfg = ManagerConfig(&config.LLMConfig{RetryDelay: "", MaxTotalTimeout: "-1s"})
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("Expected default retry delay, got %v", cfg.RetryDelay)
	}
	if cfg.MaxTotalTimeout != 30*time.Second {
		t.Errorf("Expected default total timeout for a negative value, got %v", cfg.MaxTotalTimeout)
	}
}
