package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtailor/contactkit/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"generated when absent", "", false},
		{"valid id reused", "abc-123_DEF", true},
		{"invalid chars replaced", "bad id<script>", false},
		{"too long replaced", strings.Repeat("a", 129), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen string
			h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = requestid.FromContext(r.Context())
			}))

			r := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.incoming != "" {
				r.Header.Set(requestid.Header, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(requestid.Header))
			if tt.reuse {
				assert.Equal(t, tt.incoming, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromContextNil(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // nil context is part of the contract
	assert.Empty(t, requestid.FromContext(nil))
}
