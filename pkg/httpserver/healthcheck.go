package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/webtailor/contactkit/pkg/logger"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// Liveness always answers 200 "ALIVE".
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	}
}

// Readiness runs every named check and answers 503 "NOT_READY" on the first
// failure, else 200 "READY".
func Readiness(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					slog.String("check", name), logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
