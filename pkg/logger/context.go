package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// ToContext stores a logger in the context.
func ToContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the request logger, or slog.Default() so callers never get nil.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// With enriches the context logger and returns both:
//
//	log, ctx := logger.With(ctx, "uid", uid)
func With(ctx context.Context, args ...any) (*slog.Logger, context.Context) {
	log := FromContext(ctx).With(args...)
	return log, ToContext(ctx, log)
}

// InContext reports whether ctx carries a logger set by ToContext.
func InContext(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	return ok
}
