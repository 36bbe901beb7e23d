package http

import "time"

const (
	defaultEndpoint          = "/mcp"
	defaultHeartbeatInterval = 30 * time.Second
	defaultMaxBodyBytes      = 1 << 20

	headerSessionID = "Mcp-Session-Id"
	mimeEventStream = "text/event-stream"

	eventConnected = "connected"
	eventHeartbeat = "heartbeat"

	transportName = "streamable-http"
)
