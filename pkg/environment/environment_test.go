package environment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webtailor/contactkit/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]environment.Environment{
		"production":  environment.Production,
		"PROD":        environment.Production,
		" staging ":   environment.Staging,
		"stage":       environment.Staging,
		"development": environment.Development,
		"":            environment.Development,
		"qa":          environment.Development,
	}

	for in, want := range tests {
		assert.Equal(t, want, environment.Parse(in), "Parse(%q)", in)
	}
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, environment.Production.IsProduction())
	assert.False(t, environment.Production.IsDevelopment())
	assert.True(t, environment.Development.IsDevelopment())
	assert.False(t, environment.Staging.IsProduction())
	assert.False(t, environment.Staging.IsDevelopment())
}

func TestContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, environment.Development, environment.FromContext(context.Background()))

	ctx := environment.WithContext(context.Background(), environment.Production)
	assert.True(t, environment.FromContext(ctx).IsProduction())

	attr, ok := environment.LoggerExtractor()(ctx)
	assert.True(t, ok)
	assert.Equal(t, "production", attr.Value.String())

	_, ok = environment.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got environment.Environment
	h := environment.Middleware(environment.Staging)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = environment.FromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, environment.Staging, got)
}
