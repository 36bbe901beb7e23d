package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"context-gateway/internal/mcp"
	"context-gateway/internal/session"
	pkgLog "context-gateway/pkg/log"
)

// Handler is the Streamable HTTP transport for one endpoint.
type Handler interface {
	Post(c *gin.Context)
	Get(c *gin.Context)
	Delete(c *gin.Context)
	Options(c *gin.Context)
}

// Config for the transport.
type Config struct {
	Endpoint          string
	HeartbeatInterval time.Duration
	MaxBodyBytes      int64
}

type handler struct {
	l        pkgLog.Logger
	uc       mcp.UseCase
	sessions session.UseCase
	cfg      Config
}

// New creates the transport handler.
func New(l pkgLog.Logger, uc mcp.UseCase, sessions session.UseCase, cfg Config) Handler {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	return &handler{
		l:        l,
		uc:       uc,
		sessions: sessions,
		cfg:      cfg,
	}
}
