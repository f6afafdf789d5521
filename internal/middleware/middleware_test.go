package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type stubVerifier struct {
	uid string
	err error
}

func (s *stubVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Token{UID: s.uid}, nil
}

func TestFirebaseAuthSetsUID(t *testing.T) {
	m := NewMiddleware(&stubVerifier{uid: "user-1"})

	var got string
	h := m.FirebaseAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/me/profile", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got != "user-1" {
		t.Fatalf("expected uid user-1, got %q", got)
	}
}

func TestFirebaseAuthRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{"missing header", "", nil},
		{"wrong scheme", "Basic abc", nil},
		{"bad token", "Bearer nope", errors.New("expired")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMiddleware(&stubVerifier{uid: "user-1", err: tt.err})
			called := false
			h := m.FirebaseAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if called {
				t.Fatal("next handler should not run")
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["code"] != "unauthorized" {
				t.Fatalf("expected json unauthorized body, got %q", rec.Body.String())
			}
		})
	}
}

func TestLoggerMiddlewareStoresLogger(t *testing.T) {
	base := slog.New(logger.NewTestHandler(slog.LevelDebug))
	m := NewLoggerMiddleware(base)

	var got *slog.Logger
	h := chimiddleware.RequestID(m.LoggerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.FromContext(r.Context())
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if got == nil || got == slog.Default() {
		t.Fatal("expected request logger in context")
	}
}

func TestLoggerMiddlewareLogsCompletion(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggerMiddleware(slog.New(logger.NewCaptureHandler(&buf, slog.LevelInfo)), "/health")

	h := chimiddleware.RequestID(m.LoggerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/campaigns", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json log line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "request completed" {
		t.Fatalf("unexpected message: %v", line["msg"])
	}
	if line["status"] != float64(http.StatusCreated) || line["bytes"] != float64(2) {
		t.Fatalf("unexpected status/bytes: %v %v", line["status"], line["bytes"])
	}
	if line["path"] != "/campaigns" || line["request_id"] == "" {
		t.Fatalf("missing request attributes: %v", line)
	}
}

func TestLoggerMiddlewareQuietPath(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggerMiddleware(slog.New(logger.NewCaptureHandler(&buf, slog.LevelDebug)), "/health")

	h := m.LoggerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if buf.Len() != 0 {
		t.Fatalf("expected no log output, got %q", buf.String())
	}
}

func TestRateLimitRejectsBurst(t *testing.T) {
	h := RateLimit(2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ai-chat", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes: %v", codes)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}
}
