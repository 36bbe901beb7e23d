package auth

import (
	"context"
	"errors"

	"context-gateway/internal/model"
)

// ChainAuthenticator tries each authenticator in order. An invalid token
// moves on to the next one; any other failure is reported if nobody accepts.
type ChainAuthenticator struct {
	chain []Authenticator
}

// NewChain creates a ChainAuthenticator, skipping nil entries.
func NewChain(auths ...Authenticator) *ChainAuthenticator {
	c := &ChainAuthenticator{}
	for _, a := range auths {
		if a != nil {
			c.chain = append(c.chain, a)
		}
	}
	return c
}

func (c *ChainAuthenticator) Authenticate(ctx context.Context, token string) (model.Scope, error) {
	if token == "" {
		return model.Scope{}, ErrMissingToken
	}

	var lastErr error
	for _, a := range c.chain {
		sc, err := a.Authenticate(ctx, token)
		if err == nil {
			return sc, nil
		}
		if !errors.Is(err, ErrInvalidToken) {
			lastErr = err
		}
	}
	if lastErr != nil {
		return model.Scope{}, lastErr
	}
	return model.Scope{}, ErrInvalidToken
}

// Len reports the number of authenticators in the chain.
func (c *ChainAuthenticator) Len() int {
	return len(c.chain)
}
