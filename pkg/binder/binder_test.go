package binder_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtailor/contactkit/pkg/binder"
)

type contactForm struct {
	Name    string   `form:"name"`
	Email   string   `form:"email"`
	Privacy bool     `form:"privacy"`
	Tags    []string `form:"tags"`
	Age     *int     `form:"age"`
	Skipped string   `form:"-"`
	NoTag   string
}

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestFormURLEncoded(t *testing.T) {
	t.Parallel()

	r := formRequest(url.Values{
		"name":    {"山田 太郎"},
		"email":   {"taro@example.com"},
		"privacy": {"agree"},
		"tags":    {"a", "b"},
		"age":     {"42"},
		"-":       {"x"},
		"NoTag":   {"x"},
	})

	var got contactForm
	require.NoError(t, binder.Form()(r, &got))

	assert.Equal(t, "山田 太郎", got.Name)
	assert.Equal(t, "taro@example.com", got.Email)
	assert.True(t, got.Privacy)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
	require.NotNil(t, got.Age)
	assert.Equal(t, 42, *got.Age)
	assert.Empty(t, got.Skipped)
	assert.Empty(t, got.NoTag)
}

func TestFormMultipart(t *testing.T) {
	t.Parallel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Hanako"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	var got contactForm
	require.NoError(t, binder.Form()(r, &got))
	assert.Equal(t, "Hanako", got.Name)
}

func TestFormErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		target      any
		wantErr     error
	}{
		{"missing content type", "", "", &contactForm{}, binder.ErrMissingContentType},
		{"json not applicable", "application/json", "{}", &contactForm{}, binder.ErrNotApplicable},
		{"unsupported", "text/plain", "x", &contactForm{}, binder.ErrUnsupportedMediaType},
		{"bad int", "application/x-www-form-urlencoded", "age=old", &contactForm{}, binder.ErrInvalidForm},
		{"non pointer", "application/x-www-form-urlencoded", "name=x", contactForm{}, binder.ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			assert.ErrorIs(t, binder.Form()(r, tt.target), tt.wantErr)
		})
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Taro"}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	var got payload
	require.NoError(t, binder.JSON()(r, &got))
	assert.Equal(t, "Taro", got.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":1}`))
	r.Header.Set("Content-Type", "application/json")
	assert.ErrorIs(t, binder.JSON()(r, &got), binder.ErrInvalidJSON)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	r.Header.Set("Content-Type", "application/json")
	assert.ErrorIs(t, binder.JSON()(r, &got), binder.ErrInvalidJSON)

	r = formRequest(url.Values{"name": {"x"}})
	assert.ErrorIs(t, binder.JSON()(r, &got), binder.ErrNotApplicable)
}
