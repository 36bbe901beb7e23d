package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-gateway/internal/mcp"
	"context-gateway/internal/model"
	"context-gateway/internal/tool"
	pkgLog "context-gateway/pkg/log"
)

type echoTool struct {
	name  string
	err   error
	panic bool
}

func (e *echoTool) Definition() mcpgo.Tool {
	return mcpgo.NewTool(e.name, mcpgo.WithString("text"))
}

func (e *echoTool) Execute(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if e.panic {
		panic("tool exploded")
	}
	if e.err != nil {
		return nil, e.err
	}
	sc, _ := model.GetScopeFromContext(ctx)
	text, _ := req.GetArguments()["text"].(string)
	return mcpgo.NewToolResultText(sc.UserID + ":" + text), nil
}

func newDispatcher() mcp.UseCase {
	reg := tool.NewRegistry()
	reg.Register(&echoTool{name: "echo"})
	reg.Register(&echoTool{name: "fail", err: errors.New("backend down")})
	reg.Register(&echoTool{name: "boom", panic: true})
	return New(pkgLog.NewNop(), reg, mcp.ServerInfo{Name: "context-gateway", Version: "1.0.0", Instructions: "call get_context"})
}

func request(method, params string) mcp.Request {
	req := mcp.Request{JSONRPC: "2.0", ID: json.RawMessage("1"), Method: method}
	if params != "" {
		req.Params = json.RawMessage(params)
	}
	return req
}

var bob = model.Scope{UserID: "bob"}

func TestInitialize(t *testing.T) {
	uc := newDispatcher()

	res, rpcErr := uc.Handle(context.Background(), bob, request(mcp.MethodInitialize, `{"protocolVersion":"2024-11-05","clientInfo":{"name":"desktop"}}`))
	require.Nil(t, rpcErr)
	initRes := res.(mcp.InitializeResult)
	assert.Equal(t, "2024-11-05", initRes.ProtocolVersion)
	assert.Equal(t, "context-gateway", initRes.ServerInfo.Name)
	assert.Equal(t, "call get_context", initRes.Instructions)
	assert.Contains(t, initRes.Capabilities, "tools")

	res, rpcErr = uc.Handle(context.Background(), bob, request(mcp.MethodInitialize, `{"protocolVersion":"1999-01-01"}`))
	require.Nil(t, rpcErr)
	assert.Equal(t, mcp.LatestProtocolVersion, res.(mcp.InitializeResult).ProtocolVersion)

	_, rpcErr = uc.Handle(context.Background(), bob, request(mcp.MethodInitialize, `[1,2]`))
	require.NotNil(t, rpcErr)
	assert.Equal(t, mcpgo.INVALID_PARAMS, rpcErr.Code)
}

func TestToolsList(t *testing.T) {
	res, rpcErr := newDispatcher().Handle(context.Background(), bob, request(mcp.MethodToolsList, ""))
	require.Nil(t, rpcErr)
	list := res.(mcpgo.ListToolsResult)
	require.Len(t, list.Tools, 3)
	assert.Equal(t, "echo", list.Tools[0].Name)
}

func TestToolsCall(t *testing.T) {
	uc := newDispatcher()
	ctx := context.Background()

	res, rpcErr := uc.Handle(ctx, bob, request(mcp.MethodToolsCall, `{"name":"echo","arguments":{"text":"hi"}}`))
	require.Nil(t, rpcErr)
	result := res.(*mcpgo.CallToolResult)
	assert.False(t, result.IsError)
	assert.Equal(t, "bob:hi", result.Content[0].(mcpgo.TextContent).Text)

	res, rpcErr = uc.Handle(ctx, bob, request(mcp.MethodToolsCall, `{"name":"fail"}`))
	require.Nil(t, rpcErr)
	assert.True(t, res.(*mcpgo.CallToolResult).IsError)

	_, rpcErr = uc.Handle(ctx, bob, request(mcp.MethodToolsCall, `{"name":"nope"}`))
	require.NotNil(t, rpcErr)
	assert.Equal(t, mcpgo.INVALID_PARAMS, rpcErr.Code)

	_, rpcErr = uc.Handle(ctx, bob, request(mcp.MethodToolsCall, ""))
	require.NotNil(t, rpcErr)
	assert.Equal(t, mcpgo.INVALID_PARAMS, rpcErr.Code)

	_, rpcErr = uc.Handle(ctx, bob, request(mcp.MethodToolsCall, `{"name":"boom"}`))
	require.NotNil(t, rpcErr)
	assert.Equal(t, mcpgo.INTERNAL_ERROR, rpcErr.Code)
}

func TestPingNotificationsAndUnknown(t *testing.T) {
	uc := newDispatcher()
	ctx := context.Background()

	res, rpcErr := uc.Handle(ctx, bob, request(mcp.MethodPing, ""))
	assert.Nil(t, rpcErr)
	assert.NotNil(t, res)

	res, rpcErr = uc.Handle(ctx, bob, mcp.Request{JSONRPC: "2.0", Method: mcp.NotificationInitialized})
	assert.Nil(t, rpcErr)
	assert.Nil(t, res)

	for _, method := range []string{"notifications/roots/list_changed", "notifications/progress"} {
		res, rpcErr = uc.Handle(ctx, bob, mcp.Request{JSONRPC: "2.0", Method: method})
		assert.Nil(t, rpcErr, method)
		assert.Nil(t, res, method)
	}

	_, rpcErr = uc.Handle(ctx, bob, request("resources/list", ""))
	require.NotNil(t, rpcErr)
	assert.Equal(t, mcpgo.METHOD_NOT_FOUND, rpcErr.Code)
}

func TestResponseEncoding(t *testing.T) {
	raw, err := json.Marshal(mcp.NewResult(nil, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":null,"result":{}}`, string(raw))

	raw, err = json.Marshal(mcp.NewErrorResponse(json.RawMessage(`"a"`), mcp.ErrSessionRequired()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"a","error":{"code":-32602,"message":"session required"}}`, string(raw))
}
