package session

import (
	"net/http"

	"github.com/webtailor/contactkit/pkg/logger"
)

// Middleware ensures every request carries a session in its context.
// Requests on the same session run one at a time; handlers persist changes
// with Save before returning.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		unlock, err := m.lock(ctx, r)
		if err != nil {
			m.log.WarnContext(ctx, "session busy",
				logger.Component("session"), logger.Error(err))
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		defer unlock()

		s, err := m.Ensure(ctx, w, r)
		if err != nil {
			m.log.ErrorContext(ctx, "session unavailable",
				logger.Component("session"), logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(ctx, s)))
	})
}
