package tool

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrUnknownTool is returned by Call for a name that was never registered.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is a capability exposed through tools/list and tools/call.
type Tool interface {
	// Definition returns the MCP schema, including the tool name.
	Definition() mcp.Tool

	// Execute runs the tool. The caller's scope is on ctx. Failures the
	// client should see are returned as isError results, not errors.
	Execute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Registry manages available tools. Registration happens at startup;
// lookups are read-only afterwards.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool, replacing any tool with the same name.
func (r *Registry) Register(t Tool) {
	name := t.Definition().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions lists tool schemas in registration order.
func (r *Registry) Definitions() []mcp.Tool {
	defs := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Call looks the tool up and executes it.
func (r *Registry) Call(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, ok := r.Get(req.Params.Name)
	if !ok {
		return nil, ErrUnknownTool
	}
	return t.Execute(ctx, req)
}
