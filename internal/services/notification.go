package services

import (
	"context"
	"errors"
	"time"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type notificationNSStore interface {
	Get(ctx context.Context, uid string) (*models.NotificationSettings, error)
	Save(ctx context.Context, n *models.NotificationSettings) error
}

type notificationService struct {
	store    notificationNSStore
	clockNow func() time.Time
}

func NewNotificationService(store notificationNSStore) *notificationService {
	return &notificationService{store: store, clockNow: time.Now}
}

// Get returns the user's settings, writing the defaults on first read.
func (s *notificationService) Get(ctx context.Context, uid string) (*models.NotificationSettings, error) {
	n, err := s.store.Get(ctx, uid)
	if err == nil {
		return n, nil
	}
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}

	n = models.DefaultNotificationSettings(uid, s.clockNow().UTC())
	if err := s.store.Save(ctx, n); err != nil {
		logger.FromContext(ctx).Error("failed to write default notification settings", "error", err)
		return nil, err
	}
	return n, nil
}

func (s *notificationService) Update(ctx context.Context, uid string, req dto.NotificationSettingsUpdate) (*models.NotificationSettings, error) {
	n, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.EmailDonations != nil {
		n.EmailDonations = *req.EmailDonations
	}
	if req.EmailCampaignUpdates != nil {
		n.EmailCampaignUpdates = *req.EmailCampaignUpdates
	}
	if req.EmailWeeklySummary != nil {
		n.EmailWeeklySummary = *req.EmailWeeklySummary
	}
	if req.PushEnabled != nil {
		n.PushEnabled = *req.PushEnabled
	}
	n.UpdatedAt = s.clockNow().UTC()

	if err := s.store.Save(ctx, n); err != nil {
		logger.FromContext(ctx).Error("failed to save notification settings", "error", err)
		return nil, err
	}
	return s.store.Get(ctx, uid)
}
