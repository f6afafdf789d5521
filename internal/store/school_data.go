package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
)

type schoolDataStore struct {
	client *firestore.Client
}

func NewSchoolDataStore(client *firestore.Client) *schoolDataStore {
	return &schoolDataStore{client: client}
}

func (s *schoolDataStore) collection() *firestore.CollectionRef {
	return s.client.Collection("schoolData")
}

func (s *schoolDataStore) history() *firestore.CollectionRef {
	return s.client.Collection("schoolDataHistory")
}

func historyID(schoolID, month string) string {
	return fmt.Sprintf("%s_%s", schoolID, month)
}

func (s *schoolDataStore) Get(ctx context.Context, schoolID string) (*models.SchoolData, error) {
	snap, err := s.collection().Doc(schoolID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("school data not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get school data", err)
	}
	var d models.SchoolData
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse school data", err)
	}
	if d.SchoolID == "" {
		d.SchoolID = schoolID
	}
	return &d, nil
}

// Save overwrites the school's data document with d.
func (s *schoolDataStore) Save(ctx context.Context, d *models.SchoolData) error {
	if _, err := s.collection().Doc(d.SchoolID).Set(ctx, d); err != nil {
		return errs.NewDatabaseError("update", "failed to save school data", err)
	}
	return nil
}

// AppendHistory records the month's snapshot unless one already exists.
// It reports whether a new record was written.
func (s *schoolDataStore) AppendHistory(ctx context.Context, snap *models.SchoolDataSnapshot) (bool, error) {
	ref := s.history().Doc(historyID(snap.SchoolID, snap.Month))
	if _, err := ref.Create(ctx, snap); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return false, nil
		}
		return false, errs.NewDatabaseError("create", "failed to write school history", err)
	}
	return true, nil
}

func (s *schoolDataStore) GetHistory(ctx context.Context, schoolID, month string) (*models.SchoolDataSnapshot, error) {
	doc, err := s.history().Doc(historyID(schoolID, month)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("school history not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get school history", err)
	}
	var out models.SchoolDataSnapshot
	if err := doc.DataTo(&out); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse school history", err)
	}
	return &out, nil
}
