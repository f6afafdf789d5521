package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/response"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type gatewayService interface {
	CreateIntent(ctx context.Context, req dto.PaymentIntentRequest) (dto.PaymentIntentResponse, error)
	PublishableKey() string
}

// stripeHandlers keeps the bare /api/stripe wire shapes; no success envelope.
type stripeHandlers struct {
	ResponseHandler response.ResponseHandler
	GatewaySvc      gatewayService
}

func NewStripeHandlers(deps *Deps) *stripeHandlers {
	return &stripeHandlers{
		ResponseHandler: deps.ResponseHandler,
		GatewaySvc:      deps.GatewaySvc,
	}
}

func (h *stripeHandlers) StripeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/config", h.Config)
	r.HandleFunc("/", h.CreateIntent)
	return r
}

func (h *stripeHandlers) CreateIntent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		h.ResponseHandler.WriteJSON(w, r, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	var req dto.PaymentIntentRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		h.ResponseHandler.WriteJSON(w, r, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	resp, err := h.GatewaySvc.CreateIntent(r.Context(), req)
	if err != nil {
		h.writeIntentError(w, r, err)
		return
	}
	h.ResponseHandler.WriteJSON(w, r, http.StatusOK, resp)
}

func (h *stripeHandlers) writeIntentError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *errs.ValidationError
		processor  *errs.PaymentProcessorError
	)
	switch {
	case errors.As(err, &validation):
		h.ResponseHandler.WriteJSON(w, r, http.StatusBadRequest, map[string]string{"error": validation.Message})
	case errors.As(err, &processor):
		h.ResponseHandler.WriteJSON(w, r, http.StatusBadRequest, map[string]string{
			"error": processor.Message,
			"type":  processor.Type,
			"code":  processor.Code,
		})
	default:
		logger.FromContext(r.Context()).Error("payment intent creation failed", "error", err)
		h.ResponseHandler.WriteJSON(w, r, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to create payment intent",
			"details": err.Error(),
		})
	}
}

func (h *stripeHandlers) Config(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteJSON(w, r, http.StatusOK, dto.StripeConfigResponse{PublishableKey: h.GatewaySvc.PublishableKey()})
}
