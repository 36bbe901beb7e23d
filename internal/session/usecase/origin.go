package usecase

import (
	"net"
	"net/url"
	"strings"
)

type originPolicy struct {
	allowAll       bool
	allowLocalhost bool
	allowed        map[string]struct{}
}

func newOriginPolicy(origins []string, allowLocalhost bool) *originPolicy {
	p := &originPolicy{
		allowLocalhost: allowLocalhost,
		allowed:        make(map[string]struct{}, len(origins)),
	}
	for _, o := range origins {
		o = normalizeOrigin(o)
		if o == "" {
			continue
		}
		if o == "*" {
			p.allowAll = true
			continue
		}
		p.allowed[o] = struct{}{}
	}
	return p
}

// ValidateOrigin accepts requests without an Origin header (non-browser clients).
func (uc *implUseCase) ValidateOrigin(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return true
	}

	p := uc.origins.Load()
	if p.allowAll {
		return true
	}
	if _, ok := p.allowed[origin]; ok {
		return true
	}
	return p.allowLocalhost && isLoopback(origin)
}

func (uc *implUseCase) SetAllowedOrigins(origins []string) {
	old := uc.origins.Load()
	uc.origins.Store(newOriginPolicy(origins, old.allowLocalhost))
}

func normalizeOrigin(o string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")
}

func isLoopback(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
