// Package tools holds the MCP tools served by the gateway.
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// boolArg extracts a boolean argument, returning defaultVal when it is
// missing or not a boolean.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

func stringArg(req mcp.CallToolRequest, key string) string {
	v, _ := req.GetArguments()[key].(string)
	return v
}
