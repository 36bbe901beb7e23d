package config

import (
	"errors"
	"fmt"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendQdrant = "qdrant"
	BackendSQLite = "sqlite"

	AuthModeNone   = "none"
	AuthModeBearer = "bearer"
)

func (c *Config) validate() error {
	if c.HTTPServer.Port <= 0 {
		return errors.New("http_server.port must be positive")
	}
	if c.MCP.Endpoint == "" || c.MCP.Endpoint[0] != '/' {
		return fmt.Errorf("mcp.endpoint must start with '/', got %q", c.MCP.Endpoint)
	}
	if c.MCP.HeartbeatInterval <= 0 {
		return errors.New("mcp.heartbeat_interval must be positive")
	}

	switch c.Session.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("session.backend: unknown backend %q", c.Session.Backend)
	}
	if c.Session.IdleTTL <= 0 {
		return errors.New("session.idle_ttl must be positive")
	}

	switch c.Narrative.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("narrative.backend: unknown backend %q", c.Narrative.Backend)
	}
	if c.Narrative.TTL <= 0 {
		return errors.New("narrative.ttl must be positive")
	}

	switch c.Memory.Backend {
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite.path is required for the sqlite memory backend")
		}
	case BackendQdrant:
		if c.Qdrant.URL == "" || c.Voyage.APIKey == "" {
			return errors.New("qdrant.url and voyage.api_key are required for the qdrant memory backend")
		}
	default:
		return fmt.Errorf("memory.backend: unknown backend %q", c.Memory.Backend)
	}

	switch c.Auth.Mode {
	case AuthModeNone:
		if c.Auth.DefaultOwner == "" {
			return errors.New("auth.default_owner is required when auth.mode is none")
		}
	case AuthModeBearer:
		if len(c.Auth.Tokens) == 0 && (!c.Auth.OAuth.Enabled || c.Auth.OAuth.UserInfoURL == "") {
			return errors.New("auth.mode bearer needs auth.tokens or auth.oauth.userinfo_url")
		}
	default:
		return fmt.Errorf("auth.mode: unknown mode %q", c.Auth.Mode)
	}

	if c.Worker.Workers <= 0 || c.Worker.QueueSize <= 0 {
		return errors.New("worker.workers and worker.queue_size must be positive")
	}
	if c.Planner.Timeout <= 0 {
		return errors.New("planner.timeout must be positive")
	}

	if len(c.LLM.Providers) > 0 {
		if err := validateLLMConfig(&c.LLM); err != nil {
			return err
		}
	}
	return nil
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if provider.Model == "" {
			return fmt.Errorf("provider %s: model is required", provider.Name)
		}

		if provider.Enabled {
			enabledCount++

			if provider.Priority <= 0 {
				return fmt.Errorf("provider %s: priority must be positive", provider.Name)
			}
			if priorityMap[provider.Priority] {
				return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
			}
			priorityMap[provider.Priority] = true
		}
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}
