package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/middleware"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
	"github.com/GregMSThompson/schoolfund-backend/internal/response"
)

type schoolService interface {
	Get(ctx context.Context, uid string) (*models.SchoolData, error)
	Update(ctx context.Context, uid string, req dto.SchoolDataUpdate) (*models.SchoolData, error)
	Stats(ctx context.Context, uid string) (dto.SchoolStats, error)
}

type profileService interface {
	Get(ctx context.Context, uid string) (*models.SchoolProfile, error)
	Update(ctx context.Context, uid string, req dto.SchoolProfileUpdate) (*models.SchoolProfile, error)
}

type notificationService interface {
	Get(ctx context.Context, uid string) (*models.NotificationSettings, error)
	Update(ctx context.Context, uid string, req dto.NotificationSettingsUpdate) (*models.NotificationSettings, error)
}

// schoolHandlers serves the signed-in school's own records under /me.
type schoolHandlers struct {
	ResponseHandler response.ResponseHandler
	SchoolSvc       schoolService
	ProfileSvc      profileService
	NotificationSvc notificationService
}

func NewSchoolHandlers(deps *Deps) *schoolHandlers {
	return &schoolHandlers{
		ResponseHandler: deps.ResponseHandler,
		SchoolSvc:       deps.SchoolSvc,
		ProfileSvc:      deps.ProfileSvc,
		NotificationSvc: deps.NotificationSvc,
	}
}

func (h *schoolHandlers) MeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/school-data", h.GetSchoolData)
	r.Patch("/school-data", h.UpdateSchoolData)
	r.Get("/school-stats", h.GetSchoolStats)
	r.Get("/profile", h.GetProfile)
	r.Patch("/profile", h.UpdateProfile)
	r.Get("/notifications", h.GetNotifications)
	r.Patch("/notifications", h.UpdateNotifications)
	return r
}

func (h *schoolHandlers) GetSchoolData(w http.ResponseWriter, r *http.Request) {
	data, err := h.SchoolSvc.Get(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

func (h *schoolHandlers) UpdateSchoolData(w http.ResponseWriter, r *http.Request) {
	var req dto.SchoolDataUpdate
	if err := decodeJSON(r, &req, false); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	data, err := h.SchoolSvc.Update(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

func (h *schoolHandlers) GetSchoolStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.SchoolSvc.Stats(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}

func (h *schoolHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.ProfileSvc.Get(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, profile)
}

func (h *schoolHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.SchoolProfileUpdate
	if err := decodeJSON(r, &req, false); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	profile, err := h.ProfileSvc.Update(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, profile)
}

func (h *schoolHandlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	settings, err := h.NotificationSvc.Get(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *schoolHandlers) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	var req dto.NotificationSettingsUpdate
	if err := decodeJSON(r, &req, false); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	settings, err := h.NotificationSvc.Update(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}
