package store

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
)

type paymentStore struct {
	client *firestore.Client
}

func NewPaymentStore(client *firestore.Client) *paymentStore {
	return &paymentStore{client: client}
}

func (s *paymentStore) collection() *firestore.CollectionRef {
	return s.client.Collection("payments")
}

// Create writes a new payment record keyed by its id. An existing id is AlreadyExists.
func (s *paymentStore) Create(ctx context.Context, p *models.PaymentRecord) error {
	_, err := s.collection().Doc(p.ID).Create(ctx, p)
	switch {
	case err == nil:
		return nil
	case status.Code(err) == codes.AlreadyExists:
		return errs.NewAlreadyExistsError("payment already recorded")
	default:
		return errs.NewDatabaseError("create", "failed to create payment record", err)
	}
}

func (s *paymentStore) Get(ctx context.Context, id string) (*models.PaymentRecord, error) {
	snap, err := s.collection().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, errs.NewNotFoundError("payment not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to get payment record", err)
	}
	var p models.PaymentRecord
	if err := snap.DataTo(&p); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse payment record", err)
	}
	if p.ID == "" {
		p.ID = snap.Ref.ID
	}
	return &p, nil
}

// RecordOutcome writes p under its id in one transaction. A missing record is
// created; an existing one is replaced only when its status may move to
// p.Status, keeping its createdAt. Otherwise InvalidTransitionError carries the
// stored status, so a replayed success reports From "succeeded".
func (s *paymentStore) RecordOutcome(ctx context.Context, p *models.PaymentRecord) error {
	ref := s.collection().Doc(p.ID)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return tx.Create(ref, p)
		}
		if err != nil {
			return err
		}

		var current models.PaymentRecord
		if err := snap.DataTo(&current); err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(p.Status) {
			return errs.NewInvalidTransitionError(string(current.Status), string(p.Status))
		}
		next := *p
		if !current.CreatedAt.IsZero() {
			next.CreatedAt = current.CreatedAt
		}
		return tx.Set(ref, &next)
	})

	var transition *errs.InvalidTransitionError
	if err == nil || errors.As(err, &transition) {
		return err
	}
	return errs.NewDatabaseError("update", "failed to record payment outcome", err)
}

// ForEachSucceeded streams every succeeded payment for a campaign.
func (s *paymentStore) ForEachSucceeded(ctx context.Context, campaignID string, handle func(*models.PaymentRecord) error) error {
	iter := s.collection().
		Where("campaignId", "==", campaignID).
		Where("status", "==", string(models.PaymentSucceeded)).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to list payments", err)
		}
		var p models.PaymentRecord
		if err := doc.DataTo(&p); err != nil {
			return errs.NewDatabaseError("read", "failed to parse payment record", err)
		}
		if p.ID == "" {
			p.ID = doc.Ref.ID
		}
		if err := handle(&p); err != nil {
			return err
		}
	}
}
