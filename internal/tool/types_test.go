package tool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"context-gateway/internal/tool"
)

type mockTool struct {
	name string
	text string
}

func (m *mockTool) Definition() mcp.Tool {
	return mcp.NewTool(m.name, mcp.WithDescription("mock "+m.name))
}

func (m *mockTool) Execute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(m.text), nil
}

func TestRegistry(t *testing.T) {
	registry := tool.NewRegistry()
	registry.Register(&mockTool{name: "b_tool", text: "b"})
	registry.Register(&mockTool{name: "a_tool", text: "a"})
	registry.Register(&mockTool{name: "b_tool", text: "b2"})

	t.Run("Get existing tool", func(t *testing.T) {
		got, ok := registry.Get("a_tool")
		if !ok || got.Definition().Name != "a_tool" {
			t.Errorf("expected a_tool to be found")
		}
	})

	t.Run("Get non-existing tool", func(t *testing.T) {
		if _, ok := registry.Get("missing"); ok {
			t.Errorf("expected 'missing' tool to not be found")
		}
	})

	t.Run("Definitions keep registration order", func(t *testing.T) {
		defs := registry.Definitions()
		if len(defs) != 2 {
			t.Fatalf("expected 2 tools, got %d", len(defs))
		}
		if defs[0].Name != "b_tool" || defs[1].Name != "a_tool" {
			t.Errorf("unexpected order: %s, %s", defs[0].Name, defs[1].Name)
		}
	})

	t.Run("Call replaced tool", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "b_tool"
		res, err := registry.Call(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tc, ok := res.Content[0].(mcp.TextContent); !ok || tc.Text != "b2" {
			t.Errorf("expected replaced tool to answer, got %#v", res.Content[0])
		}
	})

	t.Run("Call unknown tool", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "nope"
		if _, err := registry.Call(context.Background(), req); !errors.Is(err, tool.ErrUnknownTool) {
			t.Errorf("expected ErrUnknownTool, got %v", err)
		}
	})
}
