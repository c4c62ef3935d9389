package httpx

import (
	"net/http"
	"strings"
)

// TokenFromRequest returns the caller's bearer token: the "token" query
// parameter first, then an "Authorization: Bearer" header. The value is
// opaque and returned as-is apart from surrounding whitespace.
func TokenFromRequest(r *http.Request) string {
	if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
		return t
	}

	authz := r.Header.Get("Authorization")
	if len(authz) > len("Bearer ") && strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(authz[len("Bearer "):])
	}
	return ""
}
