package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
	"github.com/GregMSThompson/schoolfund-backend/internal/response"
)

type paymentService interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*models.PaymentRecord, error)
	LogSuccessfulPayment(ctx context.Context, req dto.PaymentOutcomeRequest) (*models.PaymentRecord, error)
	LogFailedPayment(ctx context.Context, req dto.PaymentOutcomeRequest) error
}

type paymentHandlers struct {
	ResponseHandler response.ResponseHandler
	PaymentSvc      paymentService
}

func NewPaymentHandlers(deps *Deps) *paymentHandlers {
	return &paymentHandlers{
		ResponseHandler: deps.ResponseHandler,
		PaymentSvc:      deps.PaymentSvc,
	}
}

func (h *paymentHandlers) PaymentRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Post("/success", h.Success)
	r.Post("/failure", h.Failure)
	return r
}

func (h *paymentHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	record, err := h.PaymentSvc.CreatePayment(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, record)
}

func (h *paymentHandlers) Success(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentOutcomeRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	record, err := h.PaymentSvc.LogSuccessfulPayment(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, record)
}

func (h *paymentHandlers) Failure(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentOutcomeRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.PaymentSvc.LogFailedPayment(r.Context(), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
