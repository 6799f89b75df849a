package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"typoteka/internal/handler/http/requestid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info")

	logger.Debug("hidden")
	logger.Info("article created", slog.Int64("article_id", 3))

	assert.NotContains(t, buf.String(), "hidden", "debug is filtered at info level")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "article created", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, float64(3), entry["article_id"])
}

func TestNewLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "debug").Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := requestid.WithRequestID(context.Background(), "550e8400-e29b-41d4-a716-446655440000")
	WithRequestID(ctx, base).Info("test message")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", entry["request_id"])
}

func TestWithRequestID_EmptyRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	logger := WithRequestID(context.Background(), base)
	logger.Info("test message")

	assert.Same(t, base, logger)
	assert.NotContains(t, buf.String(), "request_id")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	stored := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := WithLogger(context.Background(), stored)
	assert.Same(t, stored, FromContext(ctx))

	assert.NotNil(t, FromContext(context.Background()), "falls back to the default logger")
}
