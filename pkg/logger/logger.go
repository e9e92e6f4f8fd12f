package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New constructs the process JSON logger. LOG_LEVEL selects the minimum level.
func New() *slog.Logger {
	return NewWithWriter(os.Stdout, os.Getenv("LOG_LEVEL"))
}

// NewWithWriter is New with an explicit sink, used by tests and tooling.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler).With("service", "faq-filter")
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
