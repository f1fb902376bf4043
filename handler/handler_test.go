package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtailor/contactkit/handler"
	"github.com/webtailor/contactkit/pkg/binder"
	"github.com/webtailor/contactkit/pkg/logger"
	"github.com/webtailor/contactkit/pkg/requestid"
	"github.com/webtailor/contactkit/pkg/validator"
)

type greetRequest struct {
	Name string `form:"name" json:"name"`
}

func postForm(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/greet", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestWrapBindsAndRenders(t *testing.T) {
	t.Parallel()

	h := handler.Wrap(
		handler.HandlerFunc[handler.Context, greetRequest](func(ctx handler.Context, req greetRequest) handler.Response {
			return handler.JSON(map[string]string{"hello": req.Name})
		}),
		handler.WithBinders[handler.Context, greetRequest](binder.JSON(), binder.Form()),
	)

	rec := httptest.NewRecorder()
	h(rec, postForm(url.Values{"name": {"Taro"}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"hello":"Taro"}}`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestWrapBindError(t *testing.T) {
	t.Parallel()

	called := false
	h := handler.Wrap(
		handler.HandlerFunc[handler.Context, greetRequest](func(handler.Context, greetRequest) handler.Response {
			called = true
			return handler.Empty()
		}),
		handler.WithBinders[handler.Context, greetRequest](binder.Form()),
	)

	r := httptest.NewRequest(http.MethodPost, "/greet", strings.NewReader("x"))
	r.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h(rec, r)

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWrapNilResponse(t *testing.T) {
	t.Parallel()

	var got error
	h := handler.Wrap(
		handler.HandlerFunc[handler.Context, greetRequest](func(handler.Context, greetRequest) handler.Response { return nil }),
		handler.WithErrorHandler[handler.Context, greetRequest](func(ctx handler.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}),
	)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, got, handler.ErrNilResponse)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestDecoratorsOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) handler.Decorator[handler.Context, greetRequest] {
		return func(next handler.HandlerFunc[handler.Context, greetRequest]) handler.HandlerFunc[handler.Context, greetRequest] {
			return func(ctx handler.Context, req greetRequest) handler.Response {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := handler.Wrap(
		handler.HandlerFunc[handler.Context, greetRequest](func(handler.Context, greetRequest) handler.Response {
			order = append(order, "handler")
			return handler.Empty()
		}),
		handler.WithDecorators(mark("outer"), mark("inner")),
	)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRedirectIsSeeOther(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, handler.Redirect("/contact-thanks").Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contact-thanks", rec.Header().Get("Location"))
}

func TestJSONDoesNotEscapeHTML(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, handler.JSON("a&b").Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Contains(t, rec.Body.String(), `"a&b"`)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"plain", errors.New("db exploded"), http.StatusInternalServerError, "internal_server_error"},
		{"http error", handler.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"joined http error", errors.Join(handler.ErrBadRequest, errors.New("x")), http.StatusBadRequest, "bad_request"},
		{"validation", validator.ValidationErrors{{Field: "email", Message: "required"}}, http.StatusUnprocessableEntity, "validation_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := handler.Classify(tt.err)
			assert.Equal(t, tt.status, info.Status)
			assert.Equal(t, tt.code, info.Code)
			assert.NotContains(t, info.Message, "exploded")
		})
	}
}

func TestErrorHandlerJSON(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := logger.New(logger.WithOutput(&logs), logger.WithFormat(logger.FormatJSON),
		logger.WithContextExtractors(requestid.LoggerExtractor()))
	eh := handler.NewErrorHandler(log)

	r := httptest.NewRequest(http.MethodPost, "/contact/send", nil)
	r.Header.Set("Accept", "application/json")
	r = r.WithContext(requestid.WithContext(r.Context(), "req-1"))
	rec := httptest.NewRecorder()

	eh(handler.NewContext(rec, r), validator.ValidationErrors{{Field: "email", Message: "required"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body handler.JSONBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, map[string]string{"email": "required"}, body.Error.Fields)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "WARN", entry[slog.LevelKey])
	assert.Equal(t, "req-1", entry["request_id"])
}

func TestErrorHandlerPlain(t *testing.T) {
	t.Parallel()

	eh := handler.NewErrorHandler(logger.Discard())
	rec := httptest.NewRecorder()
	eh(handler.NewContext(rec, httptest.NewRequest(http.MethodGet, "/", nil)), errors.New("secret detail"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")
}
