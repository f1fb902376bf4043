package httpserver

import (
	"context"
	"log/slog"
	"time"
)

type Option func(*Server)

func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.srv.ReadTimeout = d }
}

func WithReadHeaderTimeout(d time.Duration) Option {
	return func(s *Server) { s.srv.ReadHeaderTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.srv.WriteTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.srv.IdleTimeout = d }
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// WithMaxBodyBytes wraps the handler with http.MaxBytesHandler.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStopHook registers fn to run after shutdown completes, in order.
func WithStopHook(fn func(context.Context) error) Option {
	return func(s *Server) { s.stopHooks = append(s.stopHooks, fn) }
}
