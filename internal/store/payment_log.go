package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
)

// paymentLogStore owns the audit trail (payment_logs) and its dead letter
// (payment_log_failures).
type paymentLogStore struct {
	client *firestore.Client
}

func NewPaymentLogStore(client *firestore.Client) *paymentLogStore {
	return &paymentLogStore{client: client}
}

func (s *paymentLogStore) Append(ctx context.Context, entry *models.PaymentLog) error {
	if _, err := s.client.Collection("payment_logs").Doc(entry.ID).Set(ctx, entry); err != nil {
		return errs.NewDatabaseError("create", "failed to write payment log", err)
	}
	return nil
}

func (s *paymentLogStore) AppendFailure(ctx context.Context, entry *models.PaymentLogFailure) error {
	if _, err := s.client.Collection("payment_log_failures").Doc(entry.ID).Set(ctx, entry); err != nil {
		return errs.NewDatabaseError("create", "failed to write payment log failure", err)
	}
	return nil
}
