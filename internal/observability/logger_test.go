package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchline-tv/touchline/internal/config"
)

func testConfig() config.LoggingConfig {
	return config.LoggingConfig{Level: "debug", Format: "json"}
}

func TestNewLoggerWithWriter(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(testConfig(), &buf)
		logger.Info("hello", slog.String("key", "value"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := testConfig()
		cfg.Format = "text"
		logger := NewLoggerWithWriter(cfg, &buf)
		logger.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := testConfig()
		cfg.Level = "warn"
		logger := NewLoggerWithWriter(cfg, &buf)

		logger.Info("dropped")
		assert.Empty(t, buf.String())

		logger.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("unknown level defaults to info", func(t *testing.T) {
		assert.Equal(t, slog.LevelInfo, parseLevel("chatty"))
	})
}

func TestSecretRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(testConfig(), &buf)

	cfg := config.HighlightsConfig{
		FootballDataURL:   "https://api.football-data.org/v4",
		FootballDataToken: "super-secret-token",
	}
	logger.Info("configured", slog.Any("highlights", cfg))

	out := buf.String()
	assert.NotContains(t, out, "super-secret-token")
	assert.Contains(t, out, "api.football-data.org")
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(testConfig(), &buf)

	WithComponent(WithRequestID(logger, "req-1"), "lineup").Info("attached")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "lineup", entry["component"])
}

func TestWithErrorNil(t *testing.T) {
	logger := slog.Default()
	assert.Same(t, logger, WithError(logger, nil))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "", RequestIDFromContext(ctx))
	ctx = ContextWithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", RequestIDFromContext(ctx))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx = ContextWithLogger(ctx, logger)
	assert.Same(t, logger, LoggerFromContext(ctx))

	assert.NotNil(t, LoggerFromContext(context.Background()))
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(testConfig(), &buf)

	done := TimedOperation(context.Background(), logger, "refresh_lineup")
	done()

	out := buf.String()
	assert.Contains(t, out, "operation started")
	assert.Contains(t, out, "operation completed")
	assert.Contains(t, out, "refresh_lineup")
}

func TestTimedOperationWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(testConfig(), &buf)

	var err error
	done := TimedOperationWithError(context.Background(), logger, "refresh_guide", &err)
	err = errors.New("upstream timeout")
	done()

	out := buf.String()
	assert.Contains(t, out, "operation failed")
	assert.Contains(t, out, "upstream timeout")
}
