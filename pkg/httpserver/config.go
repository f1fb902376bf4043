package httpserver

import "time"

type Config struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// MaxBodyBytes caps request bodies; zero disables the cap.
	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"65536"`
}

// NewFromConfig applies the non-zero fields of cfg, then opts.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	base := make([]Option, 0, 8)
	if cfg.Addr != "" {
		base = append(base, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 {
		base = append(base, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.ReadHeaderTimeout > 0 {
		base = append(base, WithReadHeaderTimeout(cfg.ReadHeaderTimeout))
	}
	if cfg.WriteTimeout > 0 {
		base = append(base, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		base = append(base, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		base = append(base, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	if cfg.MaxBodyBytes > 0 {
		base = append(base, WithMaxBodyBytes(cfg.MaxBodyBytes))
	}
	return New(append(base, opts...)...)
}
