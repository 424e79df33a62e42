package http

import (
	"log/slog"
	"net/http"
	"time"
)

// NewServer builds the router and wraps it with logging middleware.
func NewServer(log *slog.Logger, h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/news", h.getNews)
	mux.HandleFunc("GET /api/status", h.getStatus)
	mux.HandleFunc("POST /api/refresh", h.postRefresh)
	mux.HandleFunc("GET /api/sources", h.getSources)
	mux.HandleFunc("POST /api/sources", h.postSource)
	mux.HandleFunc("DELETE /api/sources/{id}", h.deleteSource)
	mux.HandleFunc("GET /api/models", h.getModels)
	mux.HandleFunc("GET /api/model", h.getSelectedModel)
	mux.HandleFunc("POST /api/model", h.postSelectedModel)
	mux.HandleFunc("POST /api/token", h.postToken)
	mux.HandleFunc("GET /api/health", h.healthCheck)

	return loggingMiddleware(log)(mux)
}

// loggingMiddleware logs method, path and duration of every request.
func loggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry := log.With(
				slog.String("component", "http"),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			start := time.Now()

			next.ServeHTTP(w, r)

			entry.Info("request completed",
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
