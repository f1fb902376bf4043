package session

import (
	"log/slog"
	"time"

	"github.com/webtailor/contactkit/pkg/cookie"
)

type Option func(*Manager)

func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

func WithTransport(t Transport) Option {
	return func(m *Manager) { m.transport = t }
}

// WithLocker replaces the in-process per-session lock, e.g. with a
// RedisLocker when several instances share a store.
func WithLocker(l Locker) Option {
	return func(m *Manager) { m.locker = l }
}

func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.config = cfg }
}

// WithCookieManager enables the default encrypted cookie transport.
func WithCookieManager(cookies *cookie.Manager, opts ...cookie.Option) Option {
	return func(m *Manager) {
		m.cookies = cookies
		m.cookieOpts = opts
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}
