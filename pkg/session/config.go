package session

import "time"

// Config holds session lifetimes and the cookie name.
type Config struct {
	CookieName      string        `env:"SESSION_COOKIE_NAME" envDefault:"contact_sid"`
	IdleTimeout     time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	MaxLifetime     time.Duration `env:"SESSION_MAX_LIFETIME" envDefault:"24h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
	// LockTimeout bounds how long a request waits for another request on the
	// same session to finish.
	LockTimeout time.Duration `env:"SESSION_LOCK_TIMEOUT" envDefault:"10s"`
}

func DefaultConfig() Config {
	return Config{
		CookieName:      "contact_sid",
		IdleTimeout:     30 * time.Minute,
		MaxLifetime:     24 * time.Hour,
		CleanupInterval: 5 * time.Minute,
		LockTimeout:     10 * time.Second,
	}
}

// expiry returns the earlier of the idle deadline and the absolute lifetime.
func (c Config) expiry(createdAt, now time.Time) time.Time {
	idle := now.Add(c.IdleTimeout)
	hard := createdAt.Add(c.MaxLifetime)
	if hard.Before(idle) {
		return hard
	}
	return idle
}

// NewFromConfig creates a Manager using cfg; opts are applied afterwards.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}
