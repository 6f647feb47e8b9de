package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler("Ascendance", &buf, slog.LevelDebug))

	log.Info("Request completed",
		slog.String("type", "http"),
		slog.String("method", "GET"),
		slog.String("path", "/api/v1/cards"),
		slog.Int("status", 200),
		slog.String("request_id", "abc"),
	)

	out := buf.String()
	assert.Contains(t, out, "[Ascendance]")
	assert.Contains(t, out, "[HTTP]")
	assert.Contains(t, out, "[GET /api/v1/cards]")
	assert.Contains(t, out, "[Status: 200]")
	assert.Contains(t, out, "request_id=abc")
	assert.NotContains(t, out, "method=")
}

func TestCustomHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler("Ascendance", &buf, slog.LevelWarn))

	log.Info("hidden")
	log.Error("Upload failed", slog.String("type", "storage"), slog.Any("error", errors.New("disk full")))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[FS]")
	assert.Contains(t, out, "disk full")
}

func TestCustomHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler("Ascendance", &buf, slog.LevelInfo)).With(slog.String("type", "db"))

	log.Info("Schema ready")
	assert.Contains(t, buf.String(), "[DB]")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(New(Options{Format: FormatJSON, Writer: &buf}))

	log.Info("Server started", slog.Int("port", 8000))

	line := strings.TrimSpace(buf.String())
	require.True(t, strings.HasPrefix(line, "{"))
	assert.Contains(t, line, `"port":8000`)
}
