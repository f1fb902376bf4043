package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/webtailor/contactkit/pkg/logger"
)

var (
	ErrStart          = errors.New("httpserver: failed to start")
	ErrShutdown       = errors.New("httpserver: graceful shutdown failed")
	ErrAlreadyRunning = errors.New("httpserver: already running")
)

type Server struct {
	addr            string
	shutdownTimeout time.Duration
	maxBodyBytes    int64
	log             *slog.Logger
	stopHooks       []func(context.Context) error

	srv *http.Server

	mu       sync.Mutex
	listener net.Listener
	running  bool
	ready    chan struct{}
}

func New(opts ...Option) *Server {
	s := &Server{
		addr:            ":8080",
		shutdownTimeout: 10 * time.Second,
		log:             logger.Discard(),
		srv:             &http.Server{ReadHeaderTimeout: 5 * time.Second},
		ready:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the bound address once Run is listening, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Run serves handler until ctx is done, then shuts down within the shutdown
// timeout and runs the stop hooks.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}
	s.running = true
	s.listener = ln
	s.mu.Unlock()

	if handler == nil {
		handler = http.NotFoundHandler()
	}
	if s.maxBodyBytes > 0 {
		handler = http.MaxBytesHandler(handler, s.maxBodyBytes)
	}
	s.srv.Handler = handler
	s.srv.BaseContext = func(net.Listener) context.Context { return context.WithoutCancel(ctx) }

	s.log.InfoContext(ctx, "http server listening", slog.String("addr", ln.Addr().String()))
	close(s.ready)

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(ErrStart, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, errors.Join(ErrShutdown, err))
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, err)
	}
	for _, hook := range s.stopHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	s.log.InfoContext(shutdownCtx, "http server stopped")
	return errors.Join(errs...)
}
