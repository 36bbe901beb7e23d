package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"context-gateway/internal/auth"
	"context-gateway/internal/model"
	pkgLog "context-gateway/pkg/log"
	"context-gateway/pkg/response"
)

// Auth resolves the caller's owner identity. In none mode every caller is
// the default owner; in bearer mode a valid token is required.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sc model.Scope
		if m.cfg.AuthMode != auth.ModeBearer || m.cfg.Authenticator == nil {
			sc = model.Scope{UserID: m.cfg.DefaultOwner, Username: m.cfg.DefaultOwner}
		} else {
			var err error
			sc, err = m.cfg.Authenticator.Authenticate(ctx, bearerToken(c.GetHeader("Authorization")))
			if err != nil {
				m.challenge(c, err)
				return
			}
		}

		ctx = model.SetScopeToContext(ctx, sc)
		ctx = pkgLog.WithFields(ctx, "owner", sc.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ScopeKey, sc)
		c.Next()
	}
}

func (m Middleware) challenge(c *gin.Context, err error) {
	ctx := c.Request.Context()

	value := fmt.Sprintf(`Bearer resource_metadata="%s"`, auth.ResourceMetadataURL(m.cfg.PublicURL, c.Request))
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		m.l.Debugf(ctx, "internal.middleware.Auth: no bearer token")
	case errors.Is(err, auth.ErrInvalidToken):
		value += `, error="invalid_token"`
		m.l.Warnf(ctx, "internal.middleware.Auth: invalid bearer token")
	default:
		m.l.Errorf(ctx, "internal.middleware.Auth: authenticator: %v", err)
	}

	c.Header(HeaderAuthenticate, value)
	response.Unauthorized(c)
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// GetScope returns the scope set by Auth.
func GetScope(c *gin.Context) model.Scope {
	if v, ok := c.Get(ScopeKey); ok {
		if sc, ok := v.(model.Scope); ok {
			return sc
		}
	}
	sc, _ := model.GetScopeFromContext(c.Request.Context())
	return sc
}
