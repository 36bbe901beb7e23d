package httpserver

import "time"

const (
	defaultShutdownTimeout = 15 * time.Second
	readHeaderTimeout      = 10 * time.Second

	PathHealth  = "/health"
	PathReady   = "/ready"
	PathLive    = "/live"
	PathMetrics = "/metrics"
	PathSwagger = "/swagger/*any"
)
