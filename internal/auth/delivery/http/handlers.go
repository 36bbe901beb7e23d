package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"context-gateway/internal/auth"
)

// ProtectedResource godoc
// @Summary     OAuth protected resource metadata
// @Tags        Discovery
// @Produce     json
// @Success     200 {object} protectedResourceResp
// @Router      /.well-known/oauth-protected-resource [GET]
func (h *handler) ProtectedResource(c *gin.Context) {
	base := h.baseURL(c.Request)
	servers := []string{}
	if h.oauth != nil {
		servers = append(servers, base)
	}
	c.JSON(http.StatusOK, protectedResourceResp{
		Resource:               base + h.cfg.Endpoint,
		AuthorizationServers:   servers,
		BearerMethodsSupported: []string{"header"},
		ScopesSupported:        scopesOrEmpty(h.cfg.OAuth.Scopes),
	})
}

// AuthorizationServer godoc
// @Summary     OAuth authorization server metadata
// @Tags        Discovery
// @Produce     json
// @Success     200 {object} authorizationServerResp
// @Failure     404 {object} oauthErrorResp
// @Router      /.well-known/oauth-authorization-server [GET]
func (h *handler) AuthorizationServer(c *gin.Context) {
	if h.oauth == nil {
		c.JSON(http.StatusNotFound, oauthErrorResp{Error: "not_found", ErrorDescription: "authorization is not enabled"})
		return
	}
	base := h.baseURL(c.Request)
	c.JSON(http.StatusOK, authorizationServerResp{
		Issuer:                            base,
		AuthorizationEndpoint:             base + auth.PathAuthorize,
		TokenEndpoint:                     base + auth.PathToken,
		ResponseTypesSupported:            []string{"code"},
		GrantTypesSupported:               []string{"authorization_code", "refresh_token"},
		CodeChallengeMethodsSupported:     []string{"S256"},
		TokenEndpointAuthMethodsSupported: []string{"none"},
		ScopesSupported:                   scopesOrEmpty(h.cfg.OAuth.Scopes),
	})
}

// MCPDiscovery godoc
// @Summary     MCP server discovery
// @Tags        Discovery
// @Produce     json
// @Success     200 {object} mcpDiscoveryResp
// @Router      /.well-known/mcp [GET]
func (h *handler) MCPDiscovery(c *gin.Context) {
	c.JSON(http.StatusOK, mcpDiscoveryResp{
		Name:            h.cfg.ServerName,
		Version:         h.cfg.ServerVersion,
		ProtocolVersion: h.cfg.ProtocolVersion,
		Transport:       "streamable-http",
		Endpoint:        h.baseURL(c.Request) + h.cfg.Endpoint,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		Authorization:   h.oauth != nil,
	})
}

// Authorize godoc
// @Summary     Start the authorization code flow
// @Description Redirects to the upstream provider, passing state and the PKCE challenge through.
// @Tags        OAuth
// @Param       state                 query string true  "Opaque client state"
// @Param       code_challenge        query string false "PKCE challenge"
// @Param       code_challenge_method query string false "PKCE method (S256)"
// @Param       redirect_uri          query string false "Client redirect URI"
// @Success     302
// @Failure     400 {object} oauthErrorResp
// @Router      /oauth/authorize [GET]
func (h *handler) Authorize(c *gin.Context) {
	if h.oauth == nil {
		c.JSON(http.StatusNotFound, oauthErrorResp{Error: "not_found", ErrorDescription: "authorization is not enabled"})
		return
	}

	req, err := h.processAuthorizeReq(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, oauthErrorResp{Error: "invalid_request", ErrorDescription: err.Error()})
		return
	}

	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(req.State, req.options()...))
}

// Token godoc
// @Summary     Exchange an authorization code or refresh token
// @Tags        OAuth
// @Accept      x-www-form-urlencoded
// @Produce     json
// @Param       grant_type    formData string true  "authorization_code or refresh_token"
// @Param       code          formData string false "Authorization code"
// @Param       code_verifier formData string false "PKCE verifier"
// @Param       redirect_uri  formData string false "Redirect URI used in the authorize step"
// @Param       refresh_token formData string false "Refresh token"
// @Success     200 {object} tokenResp
// @Failure     400 {object} oauthErrorResp
// @Router      /oauth/token [POST]
func (h *handler) Token(c *gin.Context) {
	if h.oauth == nil {
		c.JSON(http.StatusNotFound, oauthErrorResp{Error: "not_found", ErrorDescription: "authorization is not enabled"})
		return
	}
	ctx := c.Request.Context()

	req, err := h.processTokenReq(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, oauthErrorResp{Error: err.Error()})
		return
	}

	var tok *oauth2.Token
	switch req.GrantType {
	case grantAuthorizationCode:
		tok, err = h.oauth.Exchange(ctx, req.Code, req.exchangeOptions()...)
	case grantRefreshToken:
		tok, err = h.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: req.RefreshToken}).Token()
	}
	if err != nil {
		h.l.Warnf(ctx, "internal.auth.delivery.http.Token: upstream %s: %v", req.GrantType, err)
		resp := oauthErrorResp{Error: "invalid_grant"}
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && rErr.ErrorCode != "" {
			resp.Error = rErr.ErrorCode
			resp.ErrorDescription = rErr.ErrorDescription
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, newTokenResp(tok))
}

func scopesOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
