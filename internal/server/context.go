package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const contextKeyLogger contextKey = "logger"

// LoggerToContext stores a request-scoped logger in ctx
func LoggerToContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, l)
}

// LoggerFromContext returns the request-scoped logger, or fallback when none is set
func LoggerFromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(contextKeyLogger).(*slog.Logger); ok {
		return l
	}
	return fallback
}

// requestLogger attaches a logger carrying the chi request id and remote address
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base.With(
				"req_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
			next.ServeHTTP(w, r.WithContext(LoggerToContext(r.Context(), l)))
		})
	}
}
