package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"context-gateway/pkg/response"
)

// OriginGuard rejects browser requests from origins outside the allow list.
func (m Middleware) OriginGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if m.cfg.Origins != nil && !m.cfg.Origins.ValidateOrigin(origin) {
			m.l.Warnf(c.Request.Context(), "internal.middleware.OriginGuard: rejected origin %q", origin)
			response.Forbidden(c, "origin not allowed")
			return
		}
		c.Next()
	}
}

// CORS adds CORS headers and answers preflight requests. It runs after
// OriginGuard, so any Origin it sees has been accepted.
func (m Middleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		} else {
			c.Header("Access-Control-Allow-Origin", "*")
		}
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
		c.Header("Access-Control-Max-Age", corsMaxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
