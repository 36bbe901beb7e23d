package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Transport & sessions
	MCP       MCPConfig
	Session   SessionConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig

	// Orchestration
	Orchestrator OrchestratorConfig
	Planner      PlannerConfig
	Narrative    NarrativeConfig
	Worker       WorkerConfig
	Scheduler    SchedulerConfig

	// Memory store
	Memory MemoryConfig
	Qdrant QdrantConfig
	Voyage VoyageConfig
	SQLite SQLiteConfig

	// LLM Provider Abstraction
	LLM LLMConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// MCPConfig configures the streamable HTTP endpoint.
type MCPConfig struct {
	Endpoint          string
	ServerName        string
	ServerVersion     string
	Instructions      string
	PublicURL         string
	HeartbeatInterval time.Duration
	MaxBodyBytes      int64
	AllowedOrigins    []string
	AllowLocalhost    bool
}

type SessionConfig struct {
	Backend      string // memory | redis
	IdleTTL      time.Duration
	Shards       int
	SizePerShard int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	PoolSize int
}

type AuthConfig struct {
	Mode         string // none | bearer
	DefaultOwner string
	Tokens       map[string]string // token -> owner id
	OAuth        OAuthConfig
}

// OAuthConfig points at the upstream authorization server.
type OAuthConfig struct {
	Enabled      bool
	Issuer       string
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
	Scopes       []string
	CacheTTL     time.Duration
}

type RateLimitConfig struct {
	Enabled bool
	PerMin  int
	Burst   int
}

type OrchestratorConfig struct {
	FastLimit            int
	FastTimeout          time.Duration
	SearchTimeout        time.Duration
	SynthesisTimeout     time.Duration
	ComprehensiveTimeout time.Duration
	SearchThreshold      float64
	MinMemorableWords    int
	ActiveOwnerTTL       time.Duration
}

type PlannerConfig struct {
	Timeout       time.Duration
	MaxQueryRunes int
}

type NarrativeConfig struct {
	Backend         string // memory | redis
	TTL             time.Duration
	Shards          int
	MaxEntries      int
	RegenerateEvery int
}

type WorkerConfig struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

type SchedulerConfig struct {
	NarrativeRefresh string
	GaugeSampling    string
}

type MemoryConfig struct {
	Backend string // qdrant | sqlite
}

type QdrantConfig struct {
	URL            string
	CollectionName string
	VectorSize     int
}

type VoyageConfig struct {
	APIKey string
	Model  string
}

type SQLiteConfig struct {
	Path string
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"`
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
// unless path points at an explicit file.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/app/")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := build()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build() *Config {
	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.ShutdownTimeout = viper.GetDuration("http_server.shutdown_timeout")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Transport
	cfg.MCP.Endpoint = viper.GetString("mcp.endpoint")
	cfg.MCP.ServerName = viper.GetString("mcp.server_name")
	cfg.MCP.ServerVersion = viper.GetString("mcp.server_version")
	cfg.MCP.Instructions = viper.GetString("mcp.instructions")
	cfg.MCP.PublicURL = strings.TrimRight(viper.GetString("mcp.public_url"), "/")
	cfg.MCP.HeartbeatInterval = viper.GetDuration("mcp.heartbeat_interval")
	cfg.MCP.MaxBodyBytes = viper.GetInt64("mcp.max_body_bytes")
	cfg.MCP.AllowedOrigins = getList("mcp.allowed_origins")
	cfg.MCP.AllowLocalhost = viper.GetBool("mcp.allow_localhost")

	cfg.Session.Backend = viper.GetString("session.backend")
	cfg.Session.IdleTTL = viper.GetDuration("session.idle_ttl")
	cfg.Session.Shards = viper.GetInt("session.shards")
	cfg.Session.SizePerShard = viper.GetInt("session.size_per_shard")

	cfg.Redis.Addr = viper.GetString("redis.addr")
	cfg.Redis.Password = expandEnvVar(viper.GetString("redis.password"))
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.Redis.Prefix = viper.GetString("redis.prefix")
	cfg.Redis.PoolSize = viper.GetInt("redis.pool_size")

	// Auth
	cfg.Auth.Mode = viper.GetString("auth.mode")
	cfg.Auth.DefaultOwner = viper.GetString("auth.default_owner")
	cfg.Auth.Tokens = make(map[string]string)
	if tokensList, ok := viper.Get("auth.tokens").([]interface{}); ok {
		// list of {token, owner}; map keys would be lowercased by viper
		for _, t := range tokensList {
			if tokenMap, ok := t.(map[string]interface{}); ok {
				token := expandEnvVar(getStringFromMap(tokenMap, "token"))
				owner := getStringFromMap(tokenMap, "owner")
				if token != "" && owner != "" {
					cfg.Auth.Tokens[token] = owner
				}
			}
		}
	}
	cfg.Auth.OAuth.Enabled = viper.GetBool("auth.oauth.enabled")
	cfg.Auth.OAuth.Issuer = viper.GetString("auth.oauth.issuer")
	cfg.Auth.OAuth.ClientID = viper.GetString("auth.oauth.client_id")
	cfg.Auth.OAuth.ClientSecret = expandEnvVar(viper.GetString("auth.oauth.client_secret"))
	cfg.Auth.OAuth.AuthURL = viper.GetString("auth.oauth.auth_url")
	cfg.Auth.OAuth.TokenURL = viper.GetString("auth.oauth.token_url")
	cfg.Auth.OAuth.UserInfoURL = viper.GetString("auth.oauth.userinfo_url")
	cfg.Auth.OAuth.RedirectURL = viper.GetString("auth.oauth.redirect_url")
	cfg.Auth.OAuth.Scopes = getList("auth.oauth.scopes")
	cfg.Auth.OAuth.CacheTTL = viper.GetDuration("auth.oauth.cache_ttl")

	cfg.RateLimit.Enabled = viper.GetBool("rate_limit.enabled")
	cfg.RateLimit.PerMin = viper.GetInt("rate_limit.per_min")
	cfg.RateLimit.Burst = viper.GetInt("rate_limit.burst")

	// Orchestration
	cfg.Orchestrator.FastLimit = viper.GetInt("orchestrator.fast_limit")
	cfg.Orchestrator.FastTimeout = viper.GetDuration("orchestrator.fast_timeout")
	cfg.Orchestrator.SearchTimeout = viper.GetDuration("orchestrator.search_timeout")
	cfg.Orchestrator.SynthesisTimeout = viper.GetDuration("orchestrator.synthesis_timeout")
	cfg.Orchestrator.ComprehensiveTimeout = viper.GetDuration("orchestrator.comprehensive_timeout")
	cfg.Orchestrator.SearchThreshold = viper.GetFloat64("orchestrator.search_threshold")
	cfg.Orchestrator.MinMemorableWords = viper.GetInt("orchestrator.min_memorable_words")
	cfg.Orchestrator.ActiveOwnerTTL = viper.GetDuration("orchestrator.active_owner_ttl")

	cfg.Planner.Timeout = viper.GetDuration("planner.timeout")
	cfg.Planner.MaxQueryRunes = viper.GetInt("planner.max_query_runes")

	cfg.Narrative.Backend = viper.GetString("narrative.backend")
	cfg.Narrative.TTL = viper.GetDuration("narrative.ttl")
	cfg.Narrative.Shards = viper.GetInt("narrative.shards")
	cfg.Narrative.MaxEntries = viper.GetInt("narrative.max_entries")
	cfg.Narrative.RegenerateEvery = viper.GetInt("narrative.regenerate_every")

	cfg.Worker.Workers = viper.GetInt("worker.workers")
	cfg.Worker.QueueSize = viper.GetInt("worker.queue_size")
	cfg.Worker.TaskTimeout = viper.GetDuration("worker.task_timeout")

	cfg.Scheduler.NarrativeRefresh = viper.GetString("scheduler.narrative_refresh")
	cfg.Scheduler.GaugeSampling = viper.GetString("scheduler.gauge_sampling")

	// Memory store
	cfg.Memory.Backend = viper.GetString("memory.backend")
	cfg.Qdrant.URL = viper.GetString("qdrant.url")
	cfg.Qdrant.CollectionName = viper.GetString("qdrant.collection_name")
	cfg.Qdrant.VectorSize = viper.GetInt("qdrant.vector_size")
	cfg.Voyage.APIKey = expandEnvVar(viper.GetString("voyage.api_key"))
	cfg.Voyage.Model = viper.GetString("voyage.model")
	cfg.SQLite.Path = viper.GetString("sqlite.path")

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")

	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:     getStringFromMap(providerMap, "name"),
						Enabled:  getBoolFromMap(providerMap, "enabled"),
						Priority: getIntFromMap(providerMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:  getStringFromMap(providerMap, "base_url"),
						Model:    getStringFromMap(providerMap, "model"),
						Timeout:  getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	return cfg
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("http_server.shutdown_timeout", "15s")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "development")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("mcp.endpoint", "/mcp")
	viper.SetDefault("mcp.server_name", "context-gateway")
	viper.SetDefault("mcp.server_version", "1.0.0")
	viper.SetDefault("mcp.instructions", "Call get_context at the start of every turn with the user's latest message.")
	viper.SetDefault("mcp.heartbeat_interval", "30s")
	viper.SetDefault("mcp.max_body_bytes", 1<<20)
	viper.SetDefault("mcp.allow_localhost", true)

	viper.SetDefault("session.backend", "memory")
	viper.SetDefault("session.idle_ttl", "1h")
	viper.SetDefault("session.shards", 16)
	viper.SetDefault("session.size_per_shard", 4096)

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.prefix", "ctxgw:")
	viper.SetDefault("redis.pool_size", 10)

	viper.SetDefault("auth.mode", "none")
	viper.SetDefault("auth.default_owner", "default_user")
	viper.SetDefault("auth.oauth.cache_ttl", "5m")

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.per_min", 120)
	viper.SetDefault("rate_limit.burst", 20)

	viper.SetDefault("orchestrator.fast_limit", 5)
	viper.SetDefault("orchestrator.fast_timeout", "1s")
	viper.SetDefault("orchestrator.search_timeout", "2s")
	viper.SetDefault("orchestrator.synthesis_timeout", "4s")
	viper.SetDefault("orchestrator.comprehensive_timeout", "20s")
	viper.SetDefault("orchestrator.search_threshold", 0.3)
	viper.SetDefault("orchestrator.min_memorable_words", 3)
	viper.SetDefault("orchestrator.active_owner_ttl", "24h")

	viper.SetDefault("planner.timeout", "3s")
	viper.SetDefault("planner.max_query_runes", 100)

	viper.SetDefault("narrative.backend", "memory")
	viper.SetDefault("narrative.ttl", "168h")
	viper.SetDefault("narrative.shards", 16)
	viper.SetDefault("narrative.max_entries", 10000)
	viper.SetDefault("narrative.regenerate_every", 10)

	viper.SetDefault("worker.workers", 4)
	viper.SetDefault("worker.queue_size", 256)
	viper.SetDefault("worker.task_timeout", "2m")

	viper.SetDefault("scheduler.narrative_refresh", "@every 6h")
	viper.SetDefault("scheduler.gauge_sampling", "@every 15s")

	viper.SetDefault("memory.backend", "sqlite")
	viper.SetDefault("qdrant.collection_name", "memories")
	viper.SetDefault("qdrant.vector_size", 1024)
	viper.SetDefault("voyage.model", "voyage-3")
	viper.SetDefault("sqlite.path", "data/memory.db")

	// LLM defaults
	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 2)
	viper.SetDefault("llm.retry_delay", "500ms")
	viper.SetDefault("llm.max_total_timeout", "30s")
}

// getList reads a list that may come from YAML (sequence) or env (comma separated).
func getList(key string) []string {
	var out []string
	for _, raw := range viper.GetStringSlice(key) {
		for _, item := range strings.Split(raw, ",") {
			item = strings.TrimSpace(item)
			if item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
