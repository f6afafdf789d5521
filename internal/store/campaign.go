package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
)

type campaignStore struct {
	client *firestore.Client
}

func NewCampaignStore(client *firestore.Client) *campaignStore {
	return &campaignStore{client: client}
}

func (s *campaignStore) collection() *firestore.CollectionRef {
	return s.client.Collection("campaigns")
}

// query filters by owner without ordering so no composite index is needed;
// callers sort owner-filtered results themselves.
func (s *campaignStore) query(ownerID string) firestore.Query {
	if ownerID != "" {
		return s.collection().Where("schoolId", "==", ownerID)
	}
	return s.collection().OrderBy("createdAt", firestore.Desc)
}

func (s *campaignStore) Create(ctx context.Context, doc *models.CampaignDocument) (string, error) {
	ref := s.collection().NewDoc()
	if _, err := ref.Create(ctx, doc); err != nil {
		return "", errs.NewDatabaseError("create", "failed to create campaign", err)
	}
	return ref.ID, nil
}

func (s *campaignStore) Get(ctx context.Context, id string) (*models.RawDocument, error) {
	snap, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("campaign not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get campaign", err)
	}
	return &models.RawDocument{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *campaignStore) List(ctx context.Context, ownerID string) ([]models.RawDocument, error) {
	iter := s.query(ownerID).Documents(ctx)
	defer iter.Stop()

	var out []models.RawDocument
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list campaigns", err)
		}
		out = append(out, models.RawDocument{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

// Watch delivers the full matching set on every change until ctx is cancelled
// or handle returns an error. Cancellation ends the watch without error.
func (s *campaignStore) Watch(ctx context.Context, ownerID string, handle func([]models.RawDocument) error) error {
	it := s.query(ownerID).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || err == iterator.Done || status.Code(err) == codes.Canceled {
				return nil
			}
			return errs.NewDatabaseError("watch", "campaign subscription failed", err)
		}

		docs, err := snap.Documents.GetAll()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errs.NewDatabaseError("watch", "failed to read campaign snapshot", err)
		}

		out := make([]models.RawDocument, 0, len(docs))
		for _, d := range docs {
			out = append(out, models.RawDocument{ID: d.Ref.ID, Data: d.Data()})
		}
		if err := handle(out); err != nil {
			return err
		}
	}
}

// Update writes only the given fields. A missing campaign is reported as not found.
func (s *campaignStore) Update(ctx context.Context, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	if _, ok := fields["updatedAt"]; !ok {
		updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})
	}

	if _, err := s.collection().Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("campaign not found")
		}
		return errs.NewDatabaseError("update", "failed to update campaign", err)
	}
	return nil
}

func (s *campaignStore) SetAmountRaised(ctx context.Context, id string, amount float64) error {
	return s.Update(ctx, id, map[string]any{"amountRaised": amount})
}

func (s *campaignStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection().Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete campaign", err)
	}
	return nil
}
