package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/oauth2"

	"context-gateway/internal/model"
)

// UserInfoConfig configures a UserInfoAuthenticator.
type UserInfoConfig struct {
	URL        string
	CacheTTL   time.Duration
	CacheSize  int
	HTTPClient *http.Client
}

// UserInfoAuthenticator validates opaque access tokens by calling the
// provider's userinfo endpoint. Resolved identities are cached by token hash.
type UserInfoAuthenticator struct {
	url   string
	base  *http.Client
	cache *expirable.LRU[string, model.Scope]
}

type userInfo struct {
	Sub               string `json:"sub"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

// NewUserInfo creates a UserInfoAuthenticator.
func NewUserInfo(cfg UserInfoConfig) (*UserInfoAuthenticator, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("userinfo url is required")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultUserInfoCacheSize
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &UserInfoAuthenticator{
		url:   cfg.URL,
		base:  cfg.HTTPClient,
		cache: expirable.NewLRU[string, model.Scope](cfg.CacheSize, nil, cfg.CacheTTL),
	}, nil
}

func (a *UserInfoAuthenticator) Authenticate(ctx context.Context, token string) (model.Scope, error) {
	if token == "" {
		return model.Scope{}, ErrMissingToken
	}

	sum := sha256.Sum256([]byte(token))
	key := hex.EncodeToString(sum[:])
	if sc, ok := a.cache.Get(key); ok {
		return sc, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return model.Scope{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return model.Scope{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return model.Scope{}, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.Scope{}, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, body)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.Scope{}, fmt.Errorf("%w: decode userinfo: %v", ErrUpstream, err)
	}

	owner := info.Sub
	if owner == "" {
		owner = info.Email
	}
	if owner == "" {
		return model.Scope{}, ErrInvalidToken
	}

	username := info.PreferredUsername
	if username == "" {
		username = info.Name
	}
	if username == "" {
		username = info.Email
	}

	sc := model.Scope{UserID: owner, Username: username}
	a.cache.Add(key, sc)
	return sc, nil
}
