package usecase

import (
	"context-gateway/internal/mcp"
	"context-gateway/internal/tool"
	pkgLog "context-gateway/pkg/log"
)

type implUseCase struct {
	l     pkgLog.Logger
	tools *tool.Registry
	info  mcp.ServerInfo
}

// New creates the JSON-RPC dispatcher.
func New(l pkgLog.Logger, tools *tool.Registry, info mcp.ServerInfo) mcp.UseCase {
	return &implUseCase{
		l:     l,
		tools: tools,
		info:  info,
	}
}

func (uc *implUseCase) ServerInfo() mcp.ServerInfo {
	return uc.info
}
