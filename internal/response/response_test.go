package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/pkg/helpers"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

func newTestHandler() *responseHandler {
	return New(slog.New(logger.NewTestHandler(slog.LevelError)))
}

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errs.NewNotFoundError("campaign not found"), http.StatusNotFound, "not_found"},
		{"exists", errs.NewAlreadyExistsError("dup"), http.StatusConflict, "already_exists"},
		{"validation", errs.NewValidationError("bad"), http.StatusBadRequest, "invalid_input"},
		{"forbidden", errs.NewForbiddenError("nope"), http.StatusForbidden, "forbidden"},
		{"transition", errs.NewInvalidTransitionError("completed", "draft"), http.StatusConflict, "invalid_transition"},
		{"processor", errs.NewPaymentProcessorError("declined", "card_error", "card_declined"), http.StatusBadRequest, "payment_error"},
		{"database", errs.NewDatabaseError("read", "failed", errors.New("boom")), http.StatusInternalServerError, "internal_error"},
		{"transient", errs.NewExternalServiceError("vertex", "down", true, nil), http.StatusServiceUnavailable, "service_unavailable"},
		{"permanent", errs.NewExternalServiceError("vertex", "down", false, nil), http.StatusBadGateway, "service_unavailable"},
		{"encryption", errs.NewEncryptionError("kms", nil), http.StatusInternalServerError, "internal_error"},
		{"wrapped", fmt.Errorf("load: %w", errs.NewNotFoundError("gone")), http.StatusNotFound, "not_found"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if body.Code != tt.code {
				t.Fatalf("expected code %q, got %q", tt.code, body.Code)
			}
		})
	}
}

func TestWriteSuccessEnvelope(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.WriteSuccess(rec, req, http.StatusCreated, map[string]string{"id": "c1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !body.Success || body.Data["id"] != "c1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestWriteJSONHasNoEnvelope(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/stripe", nil)
	rec := httptest.NewRecorder()

	h.WriteJSON(rec, req, http.StatusBadRequest, map[string]string{"error": "Invalid amount"})

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if body["error"] != "Invalid amount" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["success"]; ok {
		t.Fatal("did not expect success envelope")
	}
}
