// Package middleware holds the HTTP middleware of the questionnaire API.
package middleware

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/constitution-api/internal/api/shared"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that assigns a trace ID to every
// request and stores a request-scoped logger, carrying the trace ID and the
// chi request ID, in the context. Apply it after chi's RequestID middleware.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())

			attrs := []any{slog.String("trace_id", shared.GetTraceID(ctx))}
			if requestID := chimiddleware.GetReqID(ctx); requestID != "" {
				attrs = append(attrs, slog.String("request_id", requestID))
			}
			log := base.With(attrs...)
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
