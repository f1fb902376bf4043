package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/webtailor/contactkit/pkg/cookie"
	"github.com/webtailor/contactkit/pkg/logger"
)

// Manager loads, creates and persists sessions.
type Manager struct {
	store      Store
	transport  Transport
	config     Config
	cookies    *cookie.Manager
	cookieOpts []cookie.Option
	locker     Locker
	log        *slog.Logger
	now        func() time.Time
}

// New creates a Manager. Without WithStore an in-memory store without a
// cleanup goroutine is used.
// Without WithTransport a cookie manager is required and New panics when it
// is missing.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		log:    logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(0)
	}
	if m.locker == nil {
		m.locker = NewLocalLocker()
	}
	if m.transport == nil {
		if m.cookies == nil {
			panic("session: cookie manager is required when using default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookies, m.config.CookieName, m.cookieOpts...)
	}
	return m
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// lock takes the per-session lock for the token the request carries. Requests
// without a token get a fresh session nobody else can see and are not locked.
func (m *Manager) lock(ctx context.Context, r *http.Request) (func(), error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return func() {}, nil
	}
	if m.config.LockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.LockTimeout)
		defer cancel()
	}
	unlock, err := m.locker.Lock(ctx, token)
	if err != nil {
		return nil, errors.Join(ErrLocked, err)
	}
	return unlock, nil
}

// Get loads the session referenced by the request, if any.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}
	s, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.IsExpired(m.now()) {
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Ensure returns the request's session, creating one when it is missing,
// expired or unreadable.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	s, err := m.Get(ctx, r)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
		m.log.WarnContext(ctx, "session lookup failed, starting a new one",
			logger.Component("session"), logger.Error(err))
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := m.now()
	s = newSession(token, now, m.config.expiry(now, now))
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}
	if err := m.transport.SetToken(w, s.Token, m.config.IdleTimeout); err != nil {
		_ = m.store.Delete(ctx, s.Token)
		return nil, err
	}
	return s, nil
}

// Save persists s and slides its idle deadline.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrInvalidSession
	}
	now := m.now()
	s.LastActivityAt = now
	s.ExpiresAt = m.config.expiry(s.CreatedAt, now)
	return m.store.Update(ctx, s)
}

// Destroy removes the session from the store and clears the token.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.transport.GetToken(r); err == nil {
		if err := m.store.Delete(ctx, token); err != nil {
			return err
		}
	}
	m.transport.ClearToken(w)
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
