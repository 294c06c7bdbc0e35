package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"blog-backend/internal/telemetry"
	"blog-backend/internal/telemetry/domain"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Telemetry wraps each request in a span and emits an http_request
// event after the handler returns. Event emission is asynchronous and
// never delays the response.
func Telemetry(emitter telemetry.EventEmitter) mux.MiddlewareFunc {
	tracer := otel.Tracer("blog-backend/server")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, holder := withIdentityHolder(r.Context())
			ctx, span := tracer.Start(ctx, r.Method+" "+routePattern(r),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
				),
			)
			defer span.End()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))
			elapsed := time.Since(start)

			span.SetAttributes(attribute.Int("http.status_code", rec.status))
			if rec.status >= 500 {
				span.SetStatus(codes.Error, http.StatusText(rec.status))
			}

			meta, err := json.Marshal(map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": elapsed.Milliseconds(),
				"client_ip":   ClientIP(ctx),
			})
			if err != nil {
				return
			}

			event := &domain.Event{
				EventType: "http_request",
				Source:    "server",
				Metadata:  meta,
				CreatedAt: start.UTC(),
			}
			if holder.set {
				event.UserID = holder.userID.String()
			}
			telemetry.EmitAsync(emitter, ctx, event)
		})
	}
}

// routePattern returns the mux route template when available, falling
// back to the raw path so spans stay readable for unmatched requests.
func routePattern(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}
