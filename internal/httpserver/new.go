package httpserver

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	authHTTP "context-gateway/internal/auth/delivery/http"
	mcpHTTP "context-gateway/internal/mcp/delivery/http"
	"context-gateway/internal/middleware"
	"context-gateway/pkg/log"
)

// Stopper is a background component drained after the listener closes.
type Stopper interface {
	Stop(ctx context.Context) error
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin             *gin.Engine
	l               log.Logger
	port            int
	mode            string
	environment     string
	shutdownTimeout time.Duration
	draining        *atomic.Bool

	// Transport
	middleware  middleware.Middleware
	mcpHandler  mcpHTTP.Handler
	mcpEndpoint string
	authHandler authHTTP.Handler

	// Background, stopped in order
	background []namedStopper
}

type namedStopper struct {
	name string
	s    Stopper
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	ShutdownTimeout time.Duration

	Middleware  middleware.Middleware
	MCPHandler  mcpHTTP.Handler
	MCPEndpoint string
	AuthHandler authHTTP.Handler

	// Scheduler is stopped before Worker so that no job enqueues into a
	// stopped coordinator.
	Scheduler Stopper
	Worker    Stopper
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		shutdownTimeout: cfg.ShutdownTimeout,
		draining:        &atomic.Bool{},
		middleware:      cfg.Middleware,
		mcpHandler:      cfg.MCPHandler,
		mcpEndpoint:     cfg.MCPEndpoint,
		authHandler:     cfg.AuthHandler,
	}
	if cfg.Scheduler != nil {
		srv.background = append(srv.background, namedStopper{"scheduler", cfg.Scheduler})
	}
	if cfg.Worker != nil {
		srv.background = append(srv.background, namedStopper{"worker", cfg.Worker})
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.mcpHandler == nil {
		return errors.New("mcp handler is required")
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (srv HTTPServer) Handler() *gin.Engine {
	return srv.gin
}
