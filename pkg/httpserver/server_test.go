package httpserver_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtailor/contactkit/pkg/httpserver"
)

func TestRunAndShutdown(t *testing.T) {
	t.Parallel()

	hookCalled := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithStopHook(func(context.Context) error {
			close(hookCalled)
			return nil
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
	}()

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	<-hookCalled
}

func TestRunTwice(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, nil) }()
	<-srv.Ready()

	assert.ErrorIs(t, srv.Run(ctx, nil), httpserver.ErrAlreadyRunning)
	cancel()
	require.NoError(t, <-done)
}

func TestRunBadAddr(t *testing.T) {
	t.Parallel()

	err := httpserver.New(httpserver.WithAddr("256.0.0.1:-1")).Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestMaxBodyBytes(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithMaxBodyBytes(8))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := io.ReadAll(r.Body); err != nil {
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
	}()
	<-srv.Ready()

	resp, err := http.Post("http://"+srv.Addr()+"/", "text/plain", strings.NewReader(strings.Repeat("x", 64)))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	cancel()
	require.NoError(t, <-done)
}

func TestHealthHandlers(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpserver.Liveness()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	ok := func(context.Context) error { return nil }
	bad := func(context.Context) error { return errors.New("redis down") }

	rec = httptest.NewRecorder()
	httpserver.Readiness(nil, map[string]httpserver.Check{"a": ok})(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())

	rec = httptest.NewRecorder()
	httpserver.Readiness(nil, map[string]httpserver.Check{"a": ok, "redis": bad})(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "NOT_READY", rec.Body.String())
}
