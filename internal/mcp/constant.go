package mcp

import mcpgo "github.com/mark3labs/mcp-go/mcp"

const JSONRPCVersion = "2.0"

const (
	MethodInitialize = "initialize"
	MethodPing       = "ping"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"

	NotificationInitialized = "notifications/initialized"
	NotificationCancelled   = "notifications/cancelled"

	// NotificationPrefix marks client notifications. Unknown ones are accepted and ignored.
	NotificationPrefix = "notifications/"
)

// LatestProtocolVersion is answered when the client asks for a version we do not know.
const LatestProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION

// SupportedProtocolVersions are echoed back when requested.
var SupportedProtocolVersions = []string{
	LatestProtocolVersion,
	"2025-03-26",
	"2024-11-05",
}

// Capabilities advertised by initialize and discovery.
func Capabilities() map[string]any {
	return map[string]any{"tools": map[string]any{}}
}
