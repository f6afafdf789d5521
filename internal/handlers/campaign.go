package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/middleware"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
	"github.com/GregMSThompson/schoolfund-backend/internal/response"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type campaignService interface {
	Subscribe(ctx context.Context, ownerID string, deliver func([]models.Campaign) error) error
	List(ctx context.Context, ownerID string) ([]models.Campaign, error)
	GetByID(ctx context.Context, id string) (*models.Campaign, error)
	Create(ctx context.Context, uid string, req dto.CreateCampaignRequest) (*models.Campaign, error)
	Update(ctx context.Context, uid, id string, req dto.UpdateCampaignRequest) (*models.Campaign, error)
	Delete(ctx context.Context, uid, id string) error
}

type donationSummarizer interface {
	DonationSummary(ctx context.Context, campaignID string, limit int) (dto.DonationSummary, error)
}

type campaignHandlers struct {
	ResponseHandler response.ResponseHandler
	CampaignSvc     campaignService
	DonationSvc     donationSummarizer
}

func NewCampaignHandlers(deps *Deps) *campaignHandlers {
	return &campaignHandlers{
		ResponseHandler: deps.ResponseHandler,
		CampaignSvc:     deps.CampaignSvc,
		DonationSvc:     deps.DonationSvc,
	}
}

// CampaignRoutes serves reads publicly; writes go through auth.
func (h *campaignHandlers) CampaignRoutes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/stream", h.Stream)
	r.Get("/{campaignId}", h.Get)
	r.Get("/{campaignId}/donations", h.Donations)

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/", h.Create)
		r.Patch("/{campaignId}", h.Update)
		r.Delete("/{campaignId}", h.Delete)
	})
	return r
}

func (h *campaignHandlers) List(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.CampaignSvc.List(r.Context(), r.URL.Query().Get("schoolId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, campaigns)
}

// Stream sends the full campaign list as an SSE "snapshot" event on every change
// until the client disconnects. A subscription failure ends the stream with an "error" event.
func (h *campaignHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.ResponseHandler.WriteError(w, r, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ownerID := r.URL.Query().Get("schoolId")
	err := h.CampaignSvc.Subscribe(r.Context(), ownerID, func(campaigns []models.Campaign) error {
		return writeEvent(w, flusher, "snapshot", campaigns)
	})
	if err == nil || r.Context().Err() != nil {
		return
	}

	log.Error("campaign subscription failed", "school_id", ownerID, "error", err)
	if werr := writeEvent(w, flusher, "error", map[string]string{"message": "subscription failed"}); werr != nil {
		log.Warn("failed to write stream error event", "error", werr)
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func (h *campaignHandlers) Get(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.CampaignSvc.GetByID(r.Context(), chi.URLParam(r, "campaignId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if campaign == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewNotFoundError("campaign not found"))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, campaign)
}

func (h *campaignHandlers) Donations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	summary, err := h.DonationSvc.DonationSummary(r.Context(), chi.URLParam(r, "campaignId"), limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}

func (h *campaignHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCampaignRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	campaign, err := h.CampaignSvc.Create(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, campaign)
}

func (h *campaignHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCampaignRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	campaign, err := h.CampaignSvc.Update(r.Context(), uid, chi.URLParam(r, "campaignId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, campaign)
}

func (h *campaignHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.CampaignSvc.Delete(r.Context(), uid, chi.URLParam(r, "campaignId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
