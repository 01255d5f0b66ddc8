// Package clientid extracts the developer client id bound to a rewrite
// exchange. The id travels inside the outbound cookie string the caller
// supplies (the "cookie" query parameter), not the caller's own Cookie
// header on the call to the rewrite endpoint itself. The cookie name is
// fixed by convention, as an external helper would be.
package clientid

import (
	"net/http"
	"strings"
)

// CookieName is the cookie carrying the client id within the forwarded
// cookie string.
const CookieName = "__pmid"

// Extract parses cookieHeader — the value of the rewrite endpoint's "cookie"
// query parameter, in standard Cookie-header syntax ("k=v; k=v") — and
// returns the client id, if present.
func Extract(cookieHeader string) (clientID string, ok bool) {
	if cookieHeader == "" {
		return "", false
	}
	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return "", false
	}
	for _, c := range cookies {
		if c.Name == CookieName && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// StripSelf returns cookieHeader with the client-id cookie removed, so the
// proxy's own bookkeeping cookie is never leaked to the upstream target —
// only the cookies the impersonated site actually set are forwarded.
func StripSelf(cookieHeader string) string {
	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return cookieHeader
	}
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == CookieName {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}
