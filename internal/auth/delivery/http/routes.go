package http

import (
	"github.com/gin-gonic/gin"

	"context-gateway/internal/auth"
)

// RegisterRoutes maps discovery and OAuth routes. They are public.
func RegisterRoutes(r gin.IRoutes, h Handler) {
	r.GET(auth.PathProtectedResource, h.ProtectedResource)
	r.GET(auth.PathAuthorizationServer, h.AuthorizationServer)
	r.GET(auth.PathMCPDiscovery, h.MCPDiscovery)
	r.GET(auth.PathAuthorize, h.Authorize)
	r.POST(auth.PathToken, h.Token)
}
