package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"context-gateway/internal/model"
	"context-gateway/internal/orchestrator"
)

const SaveMemoryName = "save_memory"

// SaveMemoryTool stores a fact the client explicitly wants remembered.
type SaveMemoryTool struct {
	uc orchestrator.UseCase
}

// NewSaveMemoryTool creates the save_memory tool.
func NewSaveMemoryTool(uc orchestrator.UseCase) *SaveMemoryTool {
	return &SaveMemoryTool{uc: uc}
}

func (t *SaveMemoryTool) Definition() mcp.Tool {
	return mcp.NewTool(SaveMemoryName,
		mcp.WithDescription("Remember a fact about the user. Storage happens in the background."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The fact to remember, as a self-contained sentence"),
		),
	)
}

func (t *SaveMemoryTool) Execute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := strings.TrimSpace(stringArg(req, "content"))
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	sc, _ := model.GetScopeFromContext(ctx)
	if !t.uc.SaveMemory(ctx, sc, content) {
		return mcp.NewToolResultError("memory queue is full, try again shortly"), nil
	}
	return mcp.NewToolResultText("Saved. It will be available in future context."), nil
}
