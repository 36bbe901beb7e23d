package llmprovider

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"context-gateway/config"
	"context-gateway/pkg/gemini"
	"context-gateway/pkg/log"
	"context-gateway/pkg/openai"
)

// InitializeProviders creates Provider instances from config.LLMConfig.
// Providers come back sorted by priority (ascending) with disabled ones filtered out.
// A provider that fails to build is skipped rather than failing the service.
func InitializeProviders(ctx context.Context, cfg *config.LLMConfig, l log.Logger) ([]Provider, error) {
	if cfg == nil || len(cfg.Providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	var enabled []config.ProviderConfig
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	var providers []Provider
	var initErrors []string
	for _, p := range enabled {
		provider, err := createProvider(p)
		if err != nil {
			errMsg := fmt.Sprintf("provider %s (priority %d): %v", p.Name, p.Priority, err)
			initErrors = append(initErrors, errMsg)
			l.Warnf(ctx, "%s: skipping %s", logPrefix, errMsg)
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers successfully initialized: %s", strings.Join(initErrors, "; "))
	}

	return providers, nil
}

// ManagerConfig converts the string durations of config.LLMConfig.
func ManagerConfig(cfg *config.LLMConfig) *Config {
	retryDelay, err := time.ParseDuration(cfg.RetryDelay)
	if err != nil || retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}
	maxTotal, err := time.ParseDuration(cfg.MaxTotalTimeout)
	if err != nil || maxTotal <= 0 {
		maxTotal = 30 * time.Second
	}
	return &Config{
		FallbackEnabled: cfg.FallbackEnabled,
		RetryAttempts:   cfg.RetryAttempts,
		RetryDelay:      retryDelay,
		MaxTotalTimeout: maxTotal,
	}
}

func createProvider(cfg config.ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	switch cfg.Name {
	case "gemini":
		client, err := gemini.New(gemini.Config{APIKey: cfg.APIKey, Model: cfg.Model, APIURL: cfg.BaseURL})
		if err != nil {
			return nil, err
		}
		return NewGeminiAdapter(client), nil

	case "openai", "deepseek", "qwen", "alibaba":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			switch cfg.Name {
			case "deepseek":
				baseURL = openai.DeepSeekBaseURL
			case "qwen", "alibaba":
				baseURL = openai.QwenBaseURL
			}
		}
		client, err := openai.New(openai.Config{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: baseURL})
		if err != nil {
			return nil, err
		}
		return NewOpenAIAdapter(cfg.Name, client), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Name)
	}
}
