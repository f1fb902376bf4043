package ratelimit

import (
	"math"
	"net/http"
	"strconv"
)

type middlewareConfig struct {
	onLimited func(w http.ResponseWriter, r *http.Request, res Result)
	onError   func(r *http.Request, err error)
}

type MiddlewareOption func(*middlewareConfig)

// WithOnLimited replaces the default plain 429 response.
func WithOnLimited(fn func(w http.ResponseWriter, r *http.Request, res Result)) MiddlewareOption {
	return func(c *middlewareConfig) { c.onLimited = fn }
}

// WithOnError observes limiter errors. Requests are let through on error.
func WithOnError(fn func(r *http.Request, err error)) MiddlewareOption {
	return func(c *middlewareConfig) { c.onError = fn }
}

func Middleware(limiter Limiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	if limiter == nil || keyFunc == nil {
		panic("ratelimit: limiter and keyFunc are required")
	}
	cfg := &middlewareConfig{
		onLimited: func(w http.ResponseWriter, _ *http.Request, _ Result) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				if cfg.onError != nil {
					cfg.onError(r, err)
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(1, secs)))
				cfg.onLimited(w, r, res)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
