package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	pkgLog "context-gateway/pkg/log"
)

// Handler serves discovery metadata and the OAuth proxy endpoints.
type Handler interface {
	ProtectedResource(c *gin.Context)
	AuthorizationServer(c *gin.Context)
	MCPDiscovery(c *gin.Context)
	Authorize(c *gin.Context)
	Token(c *gin.Context)
}

// Config is the static metadata advertised by discovery.
type Config struct {
	PublicURL       string
	Endpoint        string
	ProtocolVersion string
	ServerName      string
	ServerVersion   string
	OAuth           OAuthConfig
}

type OAuthConfig struct {
	Enabled      bool
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURL  string
	Scopes       []string
}

type handler struct {
	l     pkgLog.Logger
	cfg   Config
	oauth *oauth2.Config
}

// New creates the discovery handler. The OAuth proxy is active only when
// cfg.OAuth.Enabled is set.
func New(l pkgLog.Logger, cfg Config) Handler {
	h := &handler{l: l, cfg: cfg}
	if cfg.OAuth.Enabled {
		h.oauth = &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       cfg.OAuth.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuth.AuthURL,
				TokenURL: cfg.OAuth.TokenURL,
			},
		}
	}
	return h
}
