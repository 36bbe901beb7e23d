package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"context-gateway/config"
	"context-gateway/internal/analysis"
	"context-gateway/internal/auth"
	authHTTP "context-gateway/internal/auth/delivery/http"
	"context-gateway/internal/httpserver"
	"context-gateway/internal/mcp"
	mcpHTTP "context-gateway/internal/mcp/delivery/http"
	mcpUC "context-gateway/internal/mcp/usecase"
	"context-gateway/internal/memory"
	qdrantRepo "context-gateway/internal/memory/repository/qdrant"
	sqliteRepo "context-gateway/internal/memory/repository/sqlite"
	"context-gateway/internal/middleware"
	"context-gateway/internal/narrative"
	"context-gateway/internal/orchestrator"
	orchUC "context-gateway/internal/orchestrator/usecase"
	"context-gateway/internal/planner"
	"context-gateway/internal/scheduler"
	"context-gateway/internal/session"
	sessionUC "context-gateway/internal/session/usecase"
	"context-gateway/internal/tool"
	"context-gateway/internal/tool/tools"
	"context-gateway/internal/worker"
	"context-gateway/pkg/kvstore"
	memoryStore "context-gateway/pkg/kvstore/memory"
	redisStore "context-gateway/pkg/kvstore/redis"
	"context-gateway/pkg/llmprovider"
	"context-gateway/pkg/log"
	"context-gateway/pkg/metrics"
	pkgQdrant "context-gateway/pkg/qdrant"
	"context-gateway/pkg/voyage"
)

const (
	backendRedis  = "redis"
	backendQdrant = "qdrant"
	backendSQLite = "sqlite"

	sessionKeyPrefix   = "session:"
	narrativeKeyPrefix = "narrative:"
)

func serve(parent context.Context, configPath string) error {
	// 1. Configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config: ", err)
		return err
	}

	// 2. Logger and metrics
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
	metrics.InitMetrics()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting context gateway...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Key-value stores for sessions and narratives
	var redisClient *goredis.Client
	if cfg.Session.Backend == backendRedis || cfg.Narrative.Backend == backendRedis {
		redisClient, err = redisStore.Connect(ctx, redisStore.ConnConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			logger.Error(ctx, "Failed to connect to redis: ", err)
			return err
		}
		defer redisClient.Close()
		logger.Infof(ctx, "Redis connected at %s", cfg.Redis.Addr)
	}

	sessionStore := newStore(cfg.Session.Backend, redisClient, cfg.Redis.Prefix+sessionKeyPrefix, memoryStore.Config{
		Shards:       cfg.Session.Shards,
		SizePerShard: cfg.Session.SizePerShard,
		TTL:          cfg.Session.IdleTTL,
	})
	defer sessionStore.Close()

	narrativeStore := newStore(cfg.Narrative.Backend, redisClient, cfg.Redis.Prefix+narrativeKeyPrefix, memoryStore.Config{
		Shards:     cfg.Narrative.Shards,
		MaxEntries: cfg.Narrative.MaxEntries,
		TTL:        cfg.Narrative.TTL,
	})
	defer narrativeStore.Close()

	// 4. Memory store
	mem, closeMem, err := newMemoryClient(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize memory store: ", err)
		return err
	}
	defer closeMem()

	// 5. LLM providers (optional)
	var llm llmprovider.Generator
	providers, err := llmprovider.InitializeProviders(ctx, &cfg.LLM, logger)
	if err != nil {
		logger.Warnf(ctx, "LLM providers unavailable, planner and synthesis will fall back: %v", err)
	} else {
		manager := llmprovider.NewManager(providers, llmprovider.ManagerConfig(&cfg.LLM), logger)
		logger.Infof(ctx, "LLM providers: %v", manager.Providers())
		llm = manager
	}

	// 6. Orchestration
	coordinator := worker.New(logger, worker.Config{
		Workers:     cfg.Worker.Workers,
		QueueSize:   cfg.Worker.QueueSize,
		TaskTimeout: cfg.Worker.TaskTimeout,
	})

	analysisSvc := analysis.New(logger, llm, mem)
	orchestratorUC := orchUC.New(logger, orchestrator.Config{
		FastLimit:            cfg.Orchestrator.FastLimit,
		FastTimeout:          cfg.Orchestrator.FastTimeout,
		SearchTimeout:        cfg.Orchestrator.SearchTimeout,
		SynthesisTimeout:     cfg.Orchestrator.SynthesisTimeout,
		ComprehensiveTimeout: cfg.Orchestrator.ComprehensiveTimeout,
		SearchThreshold:      cfg.Orchestrator.SearchThreshold,
		MinMemorableWords:    cfg.Orchestrator.MinMemorableWords,
		RegenerateEvery:      cfg.Narrative.RegenerateEvery,
		ActiveOwnerTTL:       cfg.Orchestrator.ActiveOwnerTTL,
	}, orchUC.Deps{
		Memory: mem,
		Planner: planner.New(llm, logger, planner.Config{
			Timeout:       cfg.Planner.Timeout,
			MaxQueryRunes: cfg.Planner.MaxQueryRunes,
		}),
		Synthesizer: analysisSvc,
		Analyzer:    analysisSvc,
		Narratives:  narrative.New(logger, narrativeStore, cfg.Narrative.TTL),
		Tasks:       coordinator,
	})
	orchestratorUC.RegisterHandlers(coordinator)

	if err := coordinator.Start(ctx); err != nil {
		logger.Error(ctx, "Failed to start worker pool: ", err)
		return err
	}

	// 7. MCP tools and protocol
	registry := tool.NewRegistry()
	registry.Register(tools.NewGetContextTool(orchestratorUC))
	registry.Register(tools.NewSaveMemoryTool(orchestratorUC))

	protocolUC := mcpUC.New(logger, registry, mcp.ServerInfo{
		Name:         cfg.MCP.ServerName,
		Version:      cfg.MCP.ServerVersion,
		Instructions: cfg.MCP.Instructions,
	})

	sessions := sessionUC.New(logger, sessionStore, session.Config{
		IdleTTL:        cfg.Session.IdleTTL,
		AllowedOrigins: cfg.MCP.AllowedOrigins,
		AllowLocalhost: cfg.MCP.AllowLocalhost,
	})

	// 8. Authentication
	authenticator, err := newAuthenticator(cfg)
	if err != nil {
		logger.Error(ctx, "Failed to initialize authentication: ", err)
		return err
	}
	logger.Infof(ctx, "Auth mode: %s", cfg.Auth.Mode)

	mw := middleware.New(logger, middleware.Config{
		AuthMode:         cfg.Auth.Mode,
		DefaultOwner:     cfg.Auth.DefaultOwner,
		Authenticator:    authenticator,
		PublicURL:        cfg.MCP.PublicURL,
		Origins:          sessions,
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimitPerMin:  cfg.RateLimit.PerMin,
		RateLimitBurst:   cfg.RateLimit.Burst,
	})

	// 9. Scheduled jobs
	sched := scheduler.New(logger)
	jobs := []scheduler.Job{
		scheduler.NarrativeRefreshJob(cfg.Scheduler.NarrativeRefresh, orchestratorUC, logger),
		scheduler.GaugeSamplingJob(cfg.Scheduler.GaugeSampling, coordinator.QueueDepth),
	}
	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			logger.Error(ctx, "Failed to schedule job: ", err)
			return err
		}
	}
	sched.Start()

	// 10. Hot reload of the origin allow list
	watching := config.Watch(func(next *config.Config) {
		sessions.SetAllowedOrigins(next.MCP.AllowedOrigins)
		logger.Infof(ctx, "Allowed origins reloaded: %v", next.MCP.AllowedOrigins)
	}, func(err error) {
		logger.Warnf(ctx, "Config reload rejected: %v", err)
	})
	if !watching {
		logger.Info(ctx, "No config file loaded, hot reload disabled")
	}

	// 11. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		ShutdownTimeout: cfg.HTTPServer.ShutdownTimeout,
		Middleware:      mw,
		MCPEndpoint:     cfg.MCP.Endpoint,
		MCPHandler: mcpHTTP.New(logger, protocolUC, sessions, mcpHTTP.Config{
			Endpoint:          cfg.MCP.Endpoint,
			HeartbeatInterval: cfg.MCP.HeartbeatInterval,
			MaxBodyBytes:      cfg.MCP.MaxBodyBytes,
		}),
		AuthHandler: authHTTP.New(logger, authHTTP.Config{
			PublicURL:       cfg.MCP.PublicURL,
			Endpoint:        cfg.MCP.Endpoint,
			ProtocolVersion: mcp.LatestProtocolVersion,
			ServerName:      cfg.MCP.ServerName,
			ServerVersion:   cfg.MCP.ServerVersion,
			OAuth: authHTTP.OAuthConfig{
				Enabled:      cfg.Auth.OAuth.Enabled,
				ClientID:     cfg.Auth.OAuth.ClientID,
				ClientSecret: cfg.Auth.OAuth.ClientSecret,
				AuthURL:      cfg.Auth.OAuth.AuthURL,
				TokenURL:     cfg.Auth.OAuth.TokenURL,
				RedirectURL:  cfg.Auth.OAuth.RedirectURL,
				Scopes:       cfg.Auth.OAuth.Scopes,
			},
		}),
		Scheduler: sched,
		Worker:    coordinator,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		_ = sched.Stop(context.Background())
		_ = coordinator.Stop(context.Background())
		return err
	}

	// 12. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Server stopped with error: ", err)
		return err
	}

	logger.Info(ctx, "Server stopped gracefully")
	return nil
}

func newStore(backend string, client *goredis.Client, prefix string, mem memoryStore.Config) kvstore.Store {
	if backend == backendRedis {
		return redisStore.New(client, redisStore.Config{Prefix: prefix, TTL: mem.TTL})
	}
	return memoryStore.New(mem)
}

func newMemoryClient(ctx context.Context, cfg *config.Config, logger log.Logger) (memory.Client, func(), error) {
	switch cfg.Memory.Backend {
	case backendQdrant:
		repo, err := newQdrantMemory(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof(ctx, "Memory backend: qdrant collection %s", cfg.Qdrant.CollectionName)
		return repo, func() {}, nil

	default:
		repo, err := sqliteRepo.New(logger, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		logger.Infof(ctx, "Memory backend: sqlite at %s", cfg.SQLite.Path)
		return repo, func() { _ = repo.Close() }, nil
	}
}

func newQdrantMemory(ctx context.Context, cfg *config.Config, logger log.Logger) (memory.Client, error) {
	embedder, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		return nil, fmt.Errorf("voyage: %w", err)
	}
	if cfg.Voyage.Model != "" {
		embedder = embedder.WithModel(cfg.Voyage.Model)
	}
	repo := qdrantRepo.New(logger, pkgQdrant.NewClient(cfg.Qdrant.URL), embedder,
		cfg.Qdrant.CollectionName, cfg.Qdrant.VectorSize)
	if err := repo.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("qdrant: %w", err)
	}
	return repo, nil
}

func newAuthenticator(cfg *config.Config) (auth.Authenticator, error) {
	if cfg.Auth.Mode != auth.ModeBearer {
		return nil, nil
	}

	var static, userInfo auth.Authenticator
	if len(cfg.Auth.Tokens) > 0 {
		static = auth.NewStatic(cfg.Auth.Tokens)
	}
	if cfg.Auth.OAuth.UserInfoURL != "" {
		ui, err := auth.NewUserInfo(auth.UserInfoConfig{
			URL:      cfg.Auth.OAuth.UserInfoURL,
			CacheTTL: cfg.Auth.OAuth.CacheTTL,
		})
		if err != nil {
			return nil, err
		}
		userInfo = ui
	}

	chain := auth.NewChain(static, userInfo)
	if chain.Len() == 0 {
		return nil, fmt.Errorf("auth mode %s needs tokens or an oauth userinfo url", auth.ModeBearer)
	}
	return chain, nil
}
