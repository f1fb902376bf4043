package ratelimit_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtailor/contactkit/pkg/clientip"
	"github.com/webtailor/contactkit/pkg/ratelimit"
)

func newLimiter(t *testing.T, cfg ratelimit.Config) *ratelimit.Memory {
	t.Helper()
	lim := ratelimit.New(cfg)
	t.Cleanup(func() { _ = lim.Close() })
	return lim
}

func TestMemoryAllow(t *testing.T) {
	t.Parallel()

	lim := newLimiter(t, ratelimit.Config{Requests: 3, Window: time.Hour})
	ctx := context.Background()

	for i := range 3 {
		res, err := lim.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := lim.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	res, err = lim.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "keys are independent")
}

func TestMemorySweep(t *testing.T) {
	t.Parallel()

	lim := newLimiter(t, ratelimit.Config{Requests: 1, Window: time.Minute, IdleTTL: time.Hour})
	_, err := lim.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 1, lim.Len())

	lim.Sweep()
	assert.Equal(t, 1, lim.Len(), "recently seen keys are kept")
}

func TestComposite(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/contact/send", nil)
	r.RemoteAddr = "192.0.2.4:9000"

	key := ratelimit.Composite(ratelimit.ByIP, ratelimit.ByPath)(r)
	assert.Equal(t, "192.0.2.4:/contact/send", key)

	long := ratelimit.Composite(func(*http.Request) string { return strings.Repeat("x", 100) })(r)
	assert.Len(t, long, 32)

	assert.Empty(t, ratelimit.Composite(func(*http.Request) string { return "" })(r))
}

func TestByIPPrefersContext(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(clientip.WithContext(r.Context(), "198.51.100.9"))
	assert.Equal(t, "198.51.100.9", ratelimit.ByIP(r))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	lim := newLimiter(t, ratelimit.Config{Requests: 1, Window: time.Hour})
	h := ratelimit.Middleware(lim, ratelimit.ByIP)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = "192.0.2.1:1"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, send().Code)

	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("backend down")
}

func TestMiddlewareFailsOpen(t *testing.T) {
	t.Parallel()

	var observed error
	h := ratelimit.Middleware(failingLimiter{}, ratelimit.ByIP,
		ratelimit.WithOnError(func(_ *http.Request, err error) { observed = err }),
	)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Error(t, observed)
}

func TestMiddlewarePanicsWithoutKeyFunc(t *testing.T) {
	t.Parallel()

	lim := newLimiter(t, ratelimit.Config{})
	assert.Panics(t, func() { ratelimit.Middleware(lim, nil) })
}
