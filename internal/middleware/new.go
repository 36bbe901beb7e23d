package middleware

import (
	"context-gateway/internal/auth"
	pkgLog "context-gateway/pkg/log"
)

// OriginValidator decides whether a browser Origin may reach the transport.
type OriginValidator interface {
	ValidateOrigin(origin string) bool
}

// Config is the dependency bag passed to New().
type Config struct {
	AuthMode      string
	DefaultOwner  string
	Authenticator auth.Authenticator
	PublicURL     string
	Origins       OriginValidator

	RateLimitEnabled bool
	RateLimitPerMin  int
	RateLimitBurst   int
}

type Middleware struct {
	l       pkgLog.Logger
	cfg     Config
	limiter *rateLimiter
}

func New(l pkgLog.Logger, cfg Config) Middleware {
	mw := Middleware{
		l:   l,
		cfg: cfg,
	}
	if cfg.RateLimitEnabled && cfg.RateLimitPerMin > 0 {
		mw.limiter = newRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitBurst)
	}
	return mw
}
