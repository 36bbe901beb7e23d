package auth

const (
	ModeNone   = "none"
	ModeBearer = "bearer"
)

// Well-known discovery paths.
const (
	PathProtectedResource   = "/.well-known/oauth-protected-resource"
	PathAuthorizationServer = "/.well-known/oauth-authorization-server"
	PathMCPDiscovery        = "/.well-known/mcp"
	PathAuthorize           = "/oauth/authorize"
	PathToken               = "/oauth/token"
)

const defaultUserInfoCacheSize = 4096
