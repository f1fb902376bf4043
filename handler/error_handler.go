package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/webtailor/contactkit/pkg/logger"
	"github.com/webtailor/contactkit/pkg/validator"
)

// ErrorInfo is the classification of an error for the client.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
	Level   slog.Level
}

// Classify maps err to a status and code. Unknown errors are 500s and
// their text is never exposed.
func Classify(err error) ErrorInfo {
	info := ErrorInfo{
		Status: http.StatusInternalServerError,
		Code:   ErrInternalServerError.Key,
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		info.Status = httpErr.Code
		info.Code = httpErr.Key
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		info.Status = http.StatusUnprocessableEntity
		info.Code = "validation_failed"
		info.Fields = verrs.Map()
	}

	info.Message = http.StatusText(info.Status)
	info.Level = slog.LevelError
	if info.Status < http.StatusInternalServerError {
		info.Level = slog.LevelWarn
	}
	return info
}

// NewErrorHandler logs through log; request ids come from its context
// extractors.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx Context, err error) {
		r := ctx.Request()
		info := Classify(err)

		log.LogAttrs(r.Context(), info.Level, "request error",
			logger.Error(err),
			slog.Int("status", info.Status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("http"),
		)

		w := ctx.ResponseWriter()
		if wantsJSON(r) {
			_ = JSONError(info.Status, ErrorDetail{
				Code:    info.Code,
				Message: info.Message,
				Fields:  info.Fields,
			}).Render(w, r)
			return
		}
		http.Error(w, info.Message, info.Status)
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
