package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	authHTTP "context-gateway/internal/auth/delivery/http"
	mcpHTTP "context-gateway/internal/mcp/delivery/http"
	"context-gateway/internal/model"
	"context-gateway/pkg/metrics"
)

func (srv HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(); err != nil {
		return err
	}

	return nil
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(srv.middleware.RequestID())
	srv.gin.Use(srv.middleware.Metrics())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "CORS mode: production")
	} else {
		srv.l.Infof(ctx, "CORS mode: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET(PathHealth, srv.healthCheck)
	srv.gin.GET(PathReady, srv.readyCheck)
	srv.gin.GET(PathLive, srv.liveCheck)
	srv.gin.GET(PathMetrics, gin.WrapH(metrics.Handler()))

	srv.gin.GET(PathSwagger, ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers discovery and MCP routes.
func (srv HTTPServer) registerDomainRoutes() error {
	ctx := context.Background()

	if srv.authHandler != nil {
		authHTTP.RegisterRoutes(srv.gin, srv.authHandler)
		srv.l.Infof(ctx, "Discovery and OAuth routes registered")
	} else {
		srv.l.Infof(ctx, "Auth handler not configured, skipping discovery routes")
	}

	mcpHTTP.RegisterRoutes(srv.gin, srv.mcpHandler, srv.middleware, srv.mcpEndpoint)
	srv.l.Infof(ctx, "MCP endpoint registered at %s", srv.mcpEndpoint)

	return nil
}
