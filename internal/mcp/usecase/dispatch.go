package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"runtime/debug"
	"slices"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"context-gateway/internal/mcp"
	"context-gateway/internal/model"
	"context-gateway/internal/tool"
	"context-gateway/pkg/metrics"
)

const logPrefix = "internal.mcp.usecase.Handle"

func (uc *implUseCase) Handle(ctx context.Context, sc model.Scope, req mcp.Request) (result any, rpcErr *mcp.Error) {
	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "%s: recovered panic method=%s: %v\n%s", logPrefix, req.Method, r, debug.Stack())
			result, rpcErr = nil, mcp.ErrInternal()
		}
		outcome := "ok"
		if rpcErr != nil {
			outcome = "error"
		}
		metrics.RecordRPC(metricMethod(req.Method), outcome)
	}()

	switch req.Method {
	case mcp.MethodInitialize:
		return uc.initialize(req.Params)
	case mcp.MethodPing:
		return struct{}{}, nil
	case mcp.MethodToolsList:
		return mcpgo.ListToolsResult{Tools: uc.tools.Definitions()}, nil
	case mcp.MethodToolsCall:
		return uc.callTool(ctx, sc, req.Params)
	case mcp.NotificationInitialized, mcp.NotificationCancelled:
		return nil, nil
	default:
		if strings.HasPrefix(req.Method, mcp.NotificationPrefix) {
			return nil, nil
		}
		return nil, mcp.ErrMethodNotFound(req.Method)
	}
}

func (uc *implUseCase) initialize(params json.RawMessage) (any, *mcp.Error) {
	var p mcp.InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, mcp.ErrInvalidParams(err.Error())
		}
	}

	version := mcp.LatestProtocolVersion
	if slices.Contains(mcp.SupportedProtocolVersions, p.ProtocolVersion) {
		version = p.ProtocolVersion
	}

	return mcp.InitializeResult{
		ProtocolVersion: version,
		Capabilities:    mcp.Capabilities(),
		ServerInfo:      uc.info,
		Instructions:    uc.info.Instructions,
	}, nil
}

func (uc *implUseCase) callTool(ctx context.Context, sc model.Scope, params json.RawMessage) (any, *mcp.Error) {
	var req mcpgo.CallToolRequest
	if len(params) == 0 {
		return nil, mcp.ErrInvalidParams("name is required")
	}
	if err := json.Unmarshal(params, &req.Params); err != nil {
		return nil, mcp.ErrInvalidParams(err.Error())
	}
	if req.Params.Name == "" {
		return nil, mcp.ErrInvalidParams("name is required")
	}

	ctx = model.SetScopeToContext(ctx, sc)
	res, err := uc.tools.Call(ctx, req)
	if errors.Is(err, tool.ErrUnknownTool) {
		return nil, mcp.ErrInvalidParams("unknown tool: " + req.Params.Name)
	}
	if err != nil {
		uc.l.Warnf(ctx, "%s: tool %s: %v", logPrefix, req.Params.Name, err)
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	return res, nil
}

// metricMethod keeps label cardinality bounded.
func metricMethod(method string) string {
	switch method {
	case mcp.MethodInitialize, mcp.MethodPing, mcp.MethodToolsList, mcp.MethodToolsCall,
		mcp.NotificationInitialized, mcp.NotificationCancelled:
		return method
	default:
		if strings.HasPrefix(method, mcp.NotificationPrefix) {
			return "notifications/other"
		}
		return "other"
	}
}
