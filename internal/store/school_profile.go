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

// schoolProfileStore reads and writes schoolProfiles, and reads the legacy
// schools collection it was migrated from.
type schoolProfileStore struct {
	client *firestore.Client
}

func NewSchoolProfileStore(client *firestore.Client) *schoolProfileStore {
	return &schoolProfileStore{client: client}
}

func (s *schoolProfileStore) collection() *firestore.CollectionRef {
	return s.client.Collection("schoolProfiles")
}

func (s *schoolProfileStore) legacy() *firestore.CollectionRef {
	return s.client.Collection("schools")
}

func (s *schoolProfileStore) Get(ctx context.Context, schoolID string) (*models.SchoolProfile, error) {
	snap, err := s.collection().Doc(schoolID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("school profile not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get school profile", err)
	}
	var p models.SchoolProfile
	if err := snap.DataTo(&p); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse school profile", err)
	}
	if p.SchoolID == "" {
		p.SchoolID = schoolID
	}
	return &p, nil
}

// Create writes a profile only if none exists yet.
func (s *schoolProfileStore) Create(ctx context.Context, p *models.SchoolProfile) error {
	if _, err := s.collection().Doc(p.SchoolID).Create(ctx, p); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("school profile already exists")
		}
		return errs.NewDatabaseError("create", "failed to create school profile", err)
	}
	return nil
}

func (s *schoolProfileStore) Update(ctx context.Context, schoolID string, fields map[string]any) error {
	fields["updatedAt"] = time.Now()
	if _, err := s.collection().Doc(schoolID).Set(ctx, fields, firestore.MergeAll); err != nil {
		return errs.NewDatabaseError("update", "failed to update school profile", err)
	}
	return nil
}

func (s *schoolProfileStore) GetLegacy(ctx context.Context, schoolID string) (*models.RawDocument, error) {
	snap, err := s.legacy().Doc(schoolID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("school not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get school", err)
	}
	return &models.RawDocument{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

// ForEachLegacy walks every document in the legacy schools collection.
func (s *schoolProfileStore) ForEachLegacy(ctx context.Context, handle func(models.RawDocument) error) error {
	iter := s.legacy().Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to list schools", err)
		}
		if err := handle(models.RawDocument{ID: snap.Ref.ID, Data: snap.Data()}); err != nil {
			return err
		}
	}
}
