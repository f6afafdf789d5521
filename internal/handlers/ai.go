package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/response"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type aiService interface {
	GenerateCampaign(ctx context.Context, req dto.AIGenerateRequest) (dto.AIGenerateResponse, error)
	Chat(ctx context.Context, req dto.AIChatRequest) (dto.AIChatResponse, error)
}

// aiHandlers answers with bare bodies: the result on 200, {error} otherwise.
type aiHandlers struct {
	ResponseHandler response.ResponseHandler
	AISvc           aiService
}

func NewAIHandlers(deps *Deps) *aiHandlers {
	return &aiHandlers{
		ResponseHandler: deps.ResponseHandler,
		AISvc:           deps.AISvc,
	}
}

func (h *aiHandlers) AIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/ai-generate", h.Generate)
	r.Post("/ai-chat", h.Chat)
	return r
}

func (h *aiHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.AIGenerateRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err, "Failed to generate campaign")
		return
	}
	resp, err := h.AISvc.GenerateCampaign(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, "Failed to generate campaign")
		return
	}
	h.ResponseHandler.WriteJSON(w, r, http.StatusOK, resp)
}

func (h *aiHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.AIChatRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err, "Failed to get AI response")
		return
	}
	resp, err := h.AISvc.Chat(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, "Failed to get AI response")
		return
	}
	h.ResponseHandler.WriteJSON(w, r, http.StatusOK, resp)
}

func (h *aiHandlers) writeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var validation *errs.ValidationError
	if errors.As(err, &validation) {
		h.ResponseHandler.WriteJSON(w, r, http.StatusBadRequest, map[string]string{"error": validation.Message})
		return
	}
	logger.FromContext(r.Context()).Error(message, "error", err)
	h.ResponseHandler.WriteJSON(w, r, http.StatusInternalServerError, map[string]string{"error": message})
}
