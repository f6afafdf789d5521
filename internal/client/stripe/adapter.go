package stripeclient

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
)

type Adapter struct {
	client *client.API
}

func NewAdapter(secretKey string) *Adapter {
	return &Adapter{client: client.New(secretKey, nil)}
}

// CreatePaymentIntent creates an intent with automatic payment methods enabled.
// Errors reported by the processor come back as *errs.PaymentProcessorError.
func (a *Adapter) CreatePaymentIntent(ctx context.Context, in dto.CreateIntentParams) (dto.CreatedIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.AmountMinor),
		Currency: stripe.String(strings.ToLower(in.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if in.CampaignID != "" {
		params.AddMetadata("campaignId", in.CampaignID)
	}

	pi, err := a.client.PaymentIntents.New(params)
	if err != nil {
		return dto.CreatedIntent{}, toDomainError(err)
	}
	return dto.CreatedIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (a *Adapter) GetPaymentIntent(ctx context.Context, id string) (dto.PaymentIntentSnapshot, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := a.client.PaymentIntents.Get(id, params)
	if err != nil {
		return dto.PaymentIntentSnapshot{}, toDomainError(err)
	}
	return toSnapshot(pi), nil
}

func toSnapshot(pi *stripe.PaymentIntent) dto.PaymentIntentSnapshot {
	out := dto.PaymentIntentSnapshot{
		ID:          pi.ID,
		AmountMinor: pi.Amount,
		Currency:    string(pi.Currency),
		Status:      string(pi.Status),
		CampaignID:  pi.Metadata["campaignId"],
		Raw: map[string]any{
			"id":       pi.ID,
			"amount":   pi.Amount,
			"currency": string(pi.Currency),
			"status":   string(pi.Status),
			"created":  pi.Created,
			"livemode": pi.Livemode,
		},
	}
	if len(pi.Metadata) > 0 {
		meta := make(map[string]any, len(pi.Metadata))
		for k, v := range pi.Metadata {
			meta[k] = v
		}
		out.Raw["metadata"] = meta
	}
	return out
}

func toDomainError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = err.Error()
		}
		return errs.NewPaymentProcessorError(msg, string(se.Type), string(se.Code))
	}
	return errs.NewExternalServiceError("stripe", "payment processor request failed", true, err)
}
