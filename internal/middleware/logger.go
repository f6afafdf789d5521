package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type loggerMiddleware struct {
	Log       *slog.Logger
	clockNow  func() time.Time
	quietPath map[string]bool
}

// NewLoggerMiddleware builds the request logger. Requests to quietPaths still get
// a context logger but no completion line.
func NewLoggerMiddleware(log *slog.Logger, quietPaths ...string) *loggerMiddleware {
	quiet := make(map[string]bool, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = true
	}
	return &loggerMiddleware{Log: log, clockNow: time.Now, quietPath: quiet}
}

// LoggerMiddleware puts a logger carrying request_id, method and path in the
// context and logs one line per finished request. Must run after RequestID.
func (m *loggerMiddleware) LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := m.Log.With(
			"request_id", chimiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		ctx := logger.ToContext(r.Context(), log)

		if m.quietPath[r.URL.Path] {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := m.clockNow()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.Log(ctx, level, "request completed",
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", m.clockNow().Sub(start).Milliseconds(),
		)
	})
}
