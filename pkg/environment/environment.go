// Package environment names the deployment stage the service runs in and
// carries it through request contexts.
package environment

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse accepts the long names and their common short forms. Unknown values
// fall back to Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

func (e Environment) IsProduction() bool  { return e == Production }
func (e Environment) IsDevelopment() bool { return e == Development }

type contextKey struct{}

func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext returns the environment stored in ctx, or Development.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return Development
	}
	if env, ok := ctx.Value(contextKey{}).(Environment); ok {
		return env
	}
	return Development
}

// Middleware attaches env to every request context.
func Middleware(env Environment) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), env)))
		})
	}
}

// LoggerExtractor logs the environment stored in the request context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if env, ok := ctx.Value(contextKey{}).(Environment); ok {
			return slog.String("env", string(env)), true
		}
		return slog.Attr{}, false
	}
}
