package logger

import (
	"log/slog"
	"time"
)

// LogRequest logs a finished HTTP request at a level derived from its status
func LogRequest(method, path string, status int, duration time.Duration, attrs ...any) {
	base := []any{
		slog.String("type", "http"),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("took", duration),
	}
	all := append(base, attrs...)

	switch {
	case status >= 500:
		slog.Error("Request failed", all...)
	case status >= 400:
		slog.Warn("Request rejected", all...)
	default:
		slog.Info("Request completed", all...)
	}
}

// LogStorage logs file storage operations
func LogStorage(operation, key string, err error) {
	attrs := []any{
		slog.String("type", "storage"),
		slog.String("operation", operation),
		slog.String("key", key),
	}

	if err != nil {
		slog.Error("Storage operation failed", append(attrs, slog.Any("error", err))...)
		return
	}
	slog.Debug("Storage operation", attrs...)
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
