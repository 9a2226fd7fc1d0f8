package auth

import (
	"net/http"
	"strings"
)

// ExtractToken pulls the raw (still base64-encoded) proof token from an
// incoming request: the Authorization header takes precedence over the
// `?auth=` query parameter (spec §4.2).
func ExtractToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token), true
		}

		return "", false
	}

	if token := r.URL.Query().Get("auth"); token != "" {
		return token, true
	}

	return "", false
}
