package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"blog-backend/internal/platform/httpx"
	"blog-backend/internal/security"
)

// AuthCookieName is the cookie slot checked for a session token.
const AuthCookieName = "auth_token"

const bearerPrefix = "bearer "

// TokenExtractor pulls a candidate session token out of a request.
// Extractors are tried in order; the first hit wins.
type TokenExtractor func(*http.Request) (string, bool)

// CookieTokenExtractor returns an extractor reading the named cookie.
func CookieTokenExtractor(name string) TokenExtractor {
	return func(r *http.Request) (string, bool) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", false
		}
		return c.Value, true
	}
}

// BearerTokenExtractor reads a Bearer token from the Authorization header.
func BearerTokenExtractor(r *http.Request) (string, bool) {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return "", false
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(v[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// DefaultExtractors is the ordered extractor chain: cookie first, then bearer.
func DefaultExtractors() []TokenExtractor {
	return []TokenExtractor{CookieTokenExtractor(AuthCookieName), BearerTokenExtractor}
}

// RequireAuth returns middleware that authenticates every request it wraps.
// The token is looked up via the extractor chain; absence is rejected with a
// distinct "authentication required" message, and any validation failure with
// a uniform "invalid or expired token" message regardless of the failing
// check. On success the user ID and role are attached to the request context.
func RequireAuth(tokens *security.TokenProvider, extractors ...TokenExtractor) mux.MiddlewareFunc {
	if len(extractors) == 0 {
		extractors = DefaultExtractors()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			var found bool
			for _, extract := range extractors {
				if token, found = extract(r); found {
					break
				}
			}
			if !found {
				httpx.WriteUnauthorized(w, "authentication required")
				return
			}

			userID, err := tokens.ExtractUserID(token)
			if err != nil {
				httpx.WriteUnauthorized(w, "invalid or expired token")
				return
			}
			role, err := tokens.ExtractRole(token)
			if err != nil {
				httpx.WriteUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), userID, role)))
		})
	}
}

// ClientIPMiddleware records the client IP in the request context for audit
// logging. X-Forwarded-For wins over RemoteAddr when present (single proxy hop).
func ClientIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0])
		if ip == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(WithClientIP(r.Context(), ip)))
	})
}
