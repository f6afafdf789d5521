package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/schoolfund-backend/internal/middleware"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error

	writeErrorCalled bool
	writeErrorStatus int

	writeJSONStatus int
	writeJSONBody   any
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeErrorCalled = true
	s.writeErrorStatus = status
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	s.writeJSONStatus = status
	s.writeJSONBody = body
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// newRequest builds a request carrying a test logger and, when uid is set, an authenticated caller.
func newRequest(method, target, body, uid string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := logger.ToContext(req.Context(), slog.New(logger.NewTestHandler(slog.LevelInfo)))
	if uid != "" {
		ctx = middleware.WithUID(ctx, uid)
	}
	return req.WithContext(ctx)
}

func withChiParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
