package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
)

type notificationStore struct {
	Collection *firestore.CollectionRef
}

func NewNotificationStore(client *firestore.Client) *notificationStore {
	return &notificationStore{Collection: client.Collection("notificationSettings")}
}

func (s *notificationStore) Get(ctx context.Context, uid string) (*models.NotificationSettings, error) {
	snap, err := s.Collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("notification settings not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get notification settings", err)
	}
	var n models.NotificationSettings
	if err := snap.DataTo(&n); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse notification settings", err)
	}
	if n.UserID == "" {
		n.UserID = uid
	}
	return &n, nil
}

func (s *notificationStore) Save(ctx context.Context, n *models.NotificationSettings) error {
	if _, err := s.Collection.Doc(n.UserID).Set(ctx, n); err != nil {
		return errs.NewDatabaseError("update", "failed to save notification settings", err)
	}
	return nil
}
