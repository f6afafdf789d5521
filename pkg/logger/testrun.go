package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards everything; tests that only need a logger in ctx use it.
func NewTestHandler(level slog.Level) slog.Handler {
	return NewCaptureHandler(io.Discard, level)
}

// NewCaptureHandler writes JSON lines to w so tests can assert on log output.
func NewCaptureHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
