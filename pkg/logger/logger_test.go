package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtailor/contactkit/pkg/logger"
)

type ctxKey struct{}

func TestNewJSONWithExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("app", "contactd")),
		logger.WithContextValue("request_id", ctxKey{}),
		logger.WithContextExtractors(nil),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.InfoContext(ctx, "hello", logger.Component("contact"), logger.Error(errors.New("boom")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "contactd", rec["app"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "contact", rec["component"])
	assert.Equal(t, "boom", rec["error"])
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("production logs json at info", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithEnvironment("prod", "contactd"), logger.WithOutput(&buf))
		log.Debug("hidden")
		log.Info("shown")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "shown", rec["msg"])
		assert.Equal(t, "production", rec["env"])
		assert.Equal(t, "contactd", rec["service"])
	})

	t.Run("development logs text at debug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithEnvironment("", "contactd"), logger.WithOutput(&buf))
		log.Debug("visible")
		assert.Contains(t, buf.String(), "msg=visible")
		assert.Contains(t, buf.String(), "env=development")
	})
}

func TestWithLevelOverridesEnvironment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithEnvironment("prod", "contactd"),
		logger.WithLevel(slog.LevelWarn),
		logger.WithOutput(&buf),
	)
	log.Info("hidden")
	log.Warn("shown")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
}

func TestWithFormatPanicsOnUnknown(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		logger.New(logger.WithFormat("xml"))
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.Equal(t, "t***@example.com", logger.MaskEmail("taro@example.com"))
	assert.Equal(t, "***", logger.MaskEmail("broken"))
	assert.Equal(t, "name,email", logger.Fields([]string{"name", "email"}).Value.String())
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		logger.Discard().Error("dropped")
	})
}
