package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init picks a JSON handler at info level for production and a debug text handler otherwise.
func Init(env string) {
	if env == "production" {
		Configure("info", "json")
		return
	}
	Configure("debug", "text")
}

// Configure installs the default logger from the observability.logging settings.
func Configure(level, format string) {
	defaultLogger = New(os.Stdout, level, format)
	slog.SetDefault(defaultLogger)
}

func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Nop discards everything; tests use it.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}
