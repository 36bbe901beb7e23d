package middleware

const (
	HeaderRequestID       = "X-Request-Id"
	HeaderSessionID       = "Mcp-Session-Id"
	HeaderProtocolVersion = "Mcp-Protocol-Version"
	HeaderAuthenticate    = "WWW-Authenticate"

	// ScopeKey holds the resolved model.Scope in the gin context.
	ScopeKey = "scope"

	corsAllowMethods  = "GET, POST, DELETE, OPTIONS"
	corsAllowHeaders  = "Content-Type, Authorization, Accept, Mcp-Session-Id, Mcp-Protocol-Version, Last-Event-ID"
	corsExposeHeaders = "Mcp-Session-Id, WWW-Authenticate"
	corsMaxAge        = "86400"
)
