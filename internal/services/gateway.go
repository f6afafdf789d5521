package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

// paymentProcessor is the Stripe adapter surface.
type paymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, in dto.CreateIntentParams) (dto.CreatedIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (dto.PaymentIntentSnapshot, error)
}

var (
	minimumCharge = decimal.RequireFromString("0.50")
	// largest charge the processor accepts; keeps minor units well inside int64
	maximumCharge = decimal.RequireFromString("999999.99")
	minorPerMajor = decimal.NewFromInt(100)
)

type gatewayService struct {
	processor      paymentProcessor
	currency       string
	publishableKey string
}

func NewGatewayService(processor paymentProcessor, currency, publishableKey string) *gatewayService {
	if currency == "" {
		currency = "usd"
	}
	return &gatewayService{
		processor:      processor,
		currency:       strings.ToLower(currency),
		publishableKey: publishableKey,
	}
}

// CreateIntent validates the amount, converts it to minor units and creates a
// payment intent. It keeps no state between calls.
func (s *gatewayService) CreateIntent(ctx context.Context, req dto.PaymentIntentRequest) (dto.PaymentIntentResponse, error) {
	log := logger.FromContext(ctx)

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return dto.PaymentIntentResponse{}, err
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.currency
	}
	if err := validate.Var(currency, "len=3,alpha"); err != nil {
		return dto.PaymentIntentResponse{}, errs.NewValidationError("Invalid currency")
	}

	minor := toMinorUnits(amount)
	intent, err := s.processor.CreatePaymentIntent(ctx, dto.CreateIntentParams{
		AmountMinor: minor,
		Currency:    currency,
		CampaignID:  req.CampaignID,
	})
	if err != nil {
		log.Error("failed to create payment intent", "amount_minor", minor, "campaign_id", req.CampaignID, "error", err)
		return dto.PaymentIntentResponse{}, err
	}

	log.Info("payment intent created", "payment_intent_id", intent.ID, "amount_minor", minor, "currency", currency, "campaign_id", req.CampaignID)
	return dto.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

func (s *gatewayService) PublishableKey() string {
	return s.publishableKey
}

// parseAmount accepts a JSON number or a numeric string between 0.50 and 999999.99.
func parseAmount(v any) (decimal.Decimal, error) {
	invalid := errs.NewValidationError("Invalid amount")

	var (
		d   decimal.Decimal
		err error
	)
	switch a := v.(type) {
	case float64:
		d = decimal.NewFromFloat(a)
	case json.Number:
		d, err = decimal.NewFromString(a.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(a))
	default:
		return decimal.Zero, invalid
	}
	if err != nil || d.LessThan(minimumCharge) || d.GreaterThan(maximumCharge) {
		return decimal.Zero, invalid
	}
	return d, nil
}

// toMinorUnits rounds half away from zero, so 12.345 becomes 1235.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorPerMajor).Round(0).IntPart()
}

func fromMinorUnits(minor int64) float64 {
	return decimal.NewFromInt(minor).Div(minorPerMajor).InexactFloat64()
}
