package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"blog-backend/internal/platform/httpx"
)

// Recovery converts handler panics into 500 responses so a single bad
// request cannot take the process down.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				httpx.WriteInternal(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
