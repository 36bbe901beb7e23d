package model

import "context"

// Scope is the per-request identity threaded explicitly through every call.
type Scope struct {
	UserID     string
	Username   string
	ClientName string
}

// IsZero reports whether no owner has been resolved.
func (s Scope) IsZero() bool {
	return s.UserID == ""
}

type scopeKey struct{}

// SetScopeToContext attaches sc to ctx.
func SetScopeToContext(ctx context.Context, sc Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, sc)
}

// GetScopeFromContext returns the scope attached by the auth middleware.
func GetScopeFromContext(ctx context.Context) (Scope, bool) {
	sc, ok := ctx.Value(scopeKey{}).(Scope)
	return sc, ok
}
