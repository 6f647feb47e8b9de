package logger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
)

// QueryHook reports every bun query through slog with type=db.
// Successful queries are logged at debug level, failures at error level
// except for sql.ErrNoRows which callers translate into not-found errors.
type QueryHook struct {
	SlowThreshold time.Duration
}

var _ bun.QueryHook = (*QueryHook)(nil)

func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	NewQueryLogger(event.Operation(), event.Query).
		logAt(event.StartTime, event.Err, rowsAffected(event), h.SlowThreshold)
}

func rowsAffected(event *bun.QueryEvent) int64 {
	if event.Result == nil {
		return 0
	}
	n, err := event.Result.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}

type QueryLogger struct {
	Operation string
	Query     string
	Args      []interface{}
	StartTime time.Time
}

func NewQueryLogger(operation, query string, args ...any) *QueryLogger {
	return &QueryLogger{
		Operation: operation,
		Query:     query,
		Args:      args,
		StartTime: time.Now(),
	}
}

func (l *QueryLogger) Log(err error, rowsAffected int64) {
	l.logAt(l.StartTime, err, rowsAffected, 0)
}

func (l *QueryLogger) logAt(start time.Time, err error, rowsAffected int64, slow time.Duration) {
	duration := time.Since(start)

	if err != nil && !isNoRows(err) {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", l.Operation),
			slog.String("query", l.Query),
			slog.Any("args", l.Args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return
	}

	level := slog.LevelDebug
	if slow > 0 && duration > slow {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "Query executed",
		slog.String("type", "db"),
		slog.String("operation", l.Operation),
		slog.String("query", l.Query),
		slog.Any("args", l.Args),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", rowsAffected),
	)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
