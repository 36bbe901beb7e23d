package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"context-gateway/internal/model"
)

type staticEntry struct {
	token []byte
	owner string
}

// StaticAuthenticator maps configured tokens to owners.
type StaticAuthenticator struct {
	entries []staticEntry
}

// NewStatic creates a StaticAuthenticator from a token -> owner map.
func NewStatic(tokens map[string]string) *StaticAuthenticator {
	a := &StaticAuthenticator{}
	for token, owner := range tokens {
		if token == "" || owner == "" {
			continue
		}
		a.entries = append(a.entries, staticEntry{token: []byte(token), owner: owner})
	}
	return a
}

// Authenticate compares against every entry in constant time.
func (a *StaticAuthenticator) Authenticate(ctx context.Context, token string) (model.Scope, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Scope{}, ErrMissingToken
	}

	owner := ""
	for _, e := range a.entries {
		if subtle.ConstantTimeCompare(e.token, []byte(token)) == 1 {
			owner = e.owner
		}
	}
	if owner == "" {
		return model.Scope{}, ErrInvalidToken
	}
	return model.Scope{UserID: owner, Username: owner}, nil
}

// Len reports how many tokens are configured.
func (a *StaticAuthenticator) Len() int {
	return len(a.entries)
}
