package csrf_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtailor/contactkit/pkg/cookie"
	"github.com/webtailor/contactkit/pkg/csrf"
	"github.com/webtailor/contactkit/pkg/session"
)

func TestTokenIsStable(t *testing.T) {
	t.Parallel()

	s := &session.Session{}
	first, err := csrf.Token(s)
	require.NoError(t, err)
	assert.Len(t, first, 43)

	second, err := csrf.Token(s)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTokensDifferAcrossSessions(t *testing.T) {
	t.Parallel()

	a, err := csrf.Token(&session.Session{})
	require.NoError(t, err)
	b, err := csrf.Token(&session.Session{})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		issue     bool
		submitted func(token string) string
		wantErr   error
	}{
		{"match", true, func(tok string) string { return tok }, nil},
		{"mismatch", true, func(string) string { return "forged" }, csrf.ErrTokenMismatch},
		{"empty submitted", true, func(string) string { return "" }, csrf.ErrTokenMissing},
		{"no session token", false, func(string) string { return "anything" }, csrf.ErrTokenMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &session.Session{}
			var token string
			if tt.issue {
				var err error
				token, err = csrf.Token(s)
				require.NoError(t, err)
			}

			err := csrf.Verify(s, tt.submitted(token))
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			_, ok := s.GetString(csrf.SessionKey)
			assert.False(t, ok, "token must be consumed")
		})
	}
}

func TestVerifyIsSingleUse(t *testing.T) {
	t.Parallel()

	s := &session.Session{}
	token, err := csrf.Token(s)
	require.NoError(t, err)

	require.NoError(t, csrf.Verify(s, token))
	assert.ErrorIs(t, csrf.Verify(s, token), csrf.ErrTokenMissing)
}

func TestVerifyAcceptsTokenOnceAcrossConcurrentRequests(t *testing.T) {
	t.Parallel()

	cookies, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"}, cookie.WithSecure(false))
	require.NoError(t, err)
	m := session.New(session.WithCookieManager(cookies))
	ctx := context.Background()

	rec := httptest.NewRecorder()
	s, err := m.Ensure(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	token, err := csrf.Token(s)
	require.NoError(t, err)
	require.NoError(t, m.Save(ctx, s))
	jar := rec.Result().Cookies()

	var accepted atomic.Int32
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.MustFromContext(r.Context())
		if csrf.Verify(s, token) == nil {
			accepted.Add(1)
		}
		assert.NoError(t, m.Save(r.Context(), s))
		w.WriteHeader(http.StatusNoContent)
	}))

	const requests = 8
	start := make(chan struct{})
	var wg sync.WaitGroup
	for range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			for _, c := range jar {
				req.AddCookie(c)
			}
			<-start
			h.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
}
