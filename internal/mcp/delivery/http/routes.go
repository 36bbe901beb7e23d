package http

import (
	"github.com/gin-gonic/gin"

	"context-gateway/internal/middleware"
)

// RegisterRoutes maps the MCP endpoint. Origin and CORS checks apply to every
// verb; authentication applies to everything but the preflight.
func RegisterRoutes(r gin.IRouter, h Handler, mw middleware.Middleware, endpoint string) {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	g := r.Group(endpoint, mw.OriginGuard(), mw.CORS())
	{
		g.OPTIONS("", h.Options)
		g.POST("", mw.Auth(), mw.RateLimit(), h.Post)
		g.GET("", mw.Auth(), h.Get)
		g.DELETE("", mw.Auth(), h.Delete)
	}
}
