package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeHTTP    LogType = "HTTP"
	TypeDB      LogType = "DB"
	TypeStorage LogType = "FS"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures the handler returned by New
type Options struct {
	AppName   string
	Format    string
	Level     slog.Leveler
	AddSource bool
	Writer    io.Writer
}

// New returns a JSON handler for machine consumption or the coloured
// console handler for everything else.
func New(opts Options) slog.Handler {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if strings.EqualFold(opts.Format, FormatJSON) {
		return slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: opts.AddSource,
		})
	}
	return NewHandler(opts.AppName, opts.Writer, opts.Level)
}

type CustomHandler struct {
	appName string
	out     io.Writer
	mu      *sync.Mutex
	opts    *slog.HandlerOptions
	attrs   []slog.Attr
	groups  []string
}

func NewHandler(appName string, out io.Writer, level slog.Leveler) *CustomHandler {
	return &CustomHandler{
		appName: appName,
		out:     out,
		mu:      &sync.Mutex{},
		opts:    &slog.HandlerOptions{Level: level},
		attrs:   make([]slog.Attr, 0),
		groups:  make([]string, 0),
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &CustomHandler{
		appName: h.appName,
		out:     h.out,
		mu:      h.mu,
		opts:    h.opts,
		attrs:   merged,
		groups:  h.groups,
	}
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &CustomHandler{
		appName: h.appName,
		out:     h.out,
		mu:      h.mu,
		opts:    h.opts,
		attrs:   h.attrs,
		groups:  groups,
	}
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	timestamp := r.Time.Format("15:04:05")
	if r.Time.IsZero() {
		timestamp = time.Now().Format("15:04:05")
	}

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor = colorRed
		levelText = "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor = colorYellow
		levelText = "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor = colorGreen
		levelText = "INFO"
	default:
		levelColor = colorPurple
		levelText = "DEBUG"
	}

	logType := getLogType(h.attrs, &r)
	errorDetails := findAttr(&r, "error")
	errorLocation := getErrorLocation(&r)

	// Format message with source info for errors
	message := r.Message
	if r.Level >= slog.LevelError {
		if errorLocation != "" {
			message = fmt.Sprintf("%s (%s)", message, errorLocation)
		}
		if errorDetails != "" {
			message = fmt.Sprintf("%s: %s", message, errorDetails)
		}
	}

	if method, path := findAttr(&r, "method"), findAttr(&r, "path"); method != "" && path != "" {
		message = fmt.Sprintf("%s [%s %s]", message, method, path)
	}
	if status := findAttr(&r, "status"); status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}
	if took := findAttr(&r, "took"); took != "" {
		message = fmt.Sprintf("%s (took %s)", message, took)
	}

	var attrsStr strings.Builder
	prefix := strings.Join(h.groups, ".")
	writeAttr := func(a slog.Attr) {
		if isInternalAttr(a.Key) {
			return
		}
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&attrsStr, " %s%s=%v", colorCyan, key, a.Value)
	}
	for _, attr := range h.attrs {
		writeAttr(attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.out, "%s[%s] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		h.appName,
		timestamp,
		levelColor,
		levelText,
		colorWhite,
		logType,
		message,
		attrsStr.String(),
		colorReset,
	)
	return err
}

func getLogType(handlerAttrs []slog.Attr, r *slog.Record) LogType {
	value := findAttr(r, "type")
	if value == "" {
		for _, a := range handlerAttrs {
			if a.Key == "type" {
				value = a.Value.String()
			}
		}
	}
	switch value {
	case "http":
		return TypeHTTP
	case "db":
		return TypeDB
	case "storage":
		return TypeStorage
	case "error":
		return TypeError
	}
	return TypeSystem
}

func getSourceLocation() (string, int) {
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}

func isInternalAttr(key string) bool {
	switch key {
	case "type", "status", "error", "error_location", "method", "path", "took":
		return true
	}
	return false
}

func findAttr(r *slog.Record, key string) string {
	var value string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			value = a.Value.String()
			return false
		}
		return true
	})
	return value
}

func getErrorLocation(r *slog.Record) string {
	location := findAttr(r, "error_location")
	if location == "" && r.Level >= slog.LevelError {
		if r.PC != 0 {
			frames := runtime.CallersFrames([]uintptr{r.PC})
			frame, _ := frames.Next()
			if frame.File != "" {
				return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
			}
		}
		if file, line := getSourceLocation(); file != "" {
			location = fmt.Sprintf("%s:%d", file, line)
		}
	}
	return location
}
