package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"context-gateway/internal/model"
	"context-gateway/internal/orchestrator"
)

const GetContextName = "get_context"

// GetContextTool asks the orchestrator for memory context about the caller.
type GetContextTool struct {
	uc orchestrator.UseCase
}

// NewGetContextTool creates the get_context tool.
func NewGetContextTool(uc orchestrator.UseCase) *GetContextTool {
	return &GetContextTool{uc: uc}
}

func (t *GetContextTool) Definition() mcp.Tool {
	return mcp.NewTool(GetContextName,
		mcp.WithDescription(
			"Retrieve what is known about the user that is relevant to their latest message. "+
				"Call it at the start of every turn. The message is remembered in the background.",
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The user's latest message, verbatim"),
		),
		mcp.WithBoolean("is_new_conversation",
			mcp.Description("True on the first turn of a conversation (default: false)"),
		),
		mcp.WithBoolean("needs_context",
			mcp.Description("False when the message can be answered without knowing the user (default: true)"),
		),
		mcp.WithString("speed_mode",
			mcp.Description("Latency versus completeness trade-off (default: autonomous)"),
			mcp.Enum(orchestrator.SpeedModes...),
			mcp.DefaultString(string(orchestrator.SpeedAutonomous)),
		),
	)
}

func (t *GetContextTool) Execute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := stringArg(req, "message")
	if strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("'message' is required"), nil
	}

	sc, _ := model.GetScopeFromContext(ctx)
	out := t.uc.Handle(ctx, sc, orchestrator.HandleInput{
		Message:           message,
		IsNewConversation: boolArg(req, "is_new_conversation", false),
		NeedsContext:      boolArg(req, "needs_context", true),
		SpeedMode:         orchestrator.ParseSpeedMode(stringArg(req, "speed_mode")),
	})
	return mcp.NewToolResultText(out), nil
}
