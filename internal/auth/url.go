package auth

import (
	"net/http"
	"strings"
)

// RequestBaseURL rebuilds scheme://host for r, honouring X-Forwarded-Proto.
func RequestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host
}

// ResourceMetadataURL is the protected-resource document URL advertised in
// bearer challenges.
func ResourceMetadataURL(publicURL string, r *http.Request) string {
	base := strings.TrimRight(publicURL, "/")
	if base == "" {
		base = RequestBaseURL(r)
	}
	return base + PathProtectedResource
}
