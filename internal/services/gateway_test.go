package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/pkg/helpers"
)

func TestCreateIntentConvertsToMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount any
		want   int64
	}{
		{"minimum charge", 0.50, 50},
		{"rounds half up", 12.345, 1235},
		{"whole amount", float64(100), 10000},
		{"numeric string", "25.10", 2510},
		{"json number", json.Number("7.5"), 750},
		{"maximum charge", "999999.99", 99999999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := &fakeProcessor{}
			svc := NewGatewayService(proc, "", "pk_test")

			got, err := svc.CreateIntent(helpers.TestCtx(), dto.PaymentIntentRequest{Amount: tt.amount, CampaignID: "c1"})
			if err != nil {
				t.Fatalf("CreateIntent error: %v", err)
			}
			if got.ClientSecret != "pi_1_secret" || got.PaymentIntentID != "pi_1" {
				t.Fatalf("unexpected response: %+v", got)
			}
			in := proc.created[0]
			if in.AmountMinor != tt.want || in.Currency != "usd" || in.CampaignID != "c1" {
				t.Fatalf("unexpected processor params: %+v", in)
			}
		})
	}
}

func TestCreateIntentRejectsInvalidAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount any
	}{
		{"missing", nil},
		{"below minimum", 0.49},
		{"zero", float64(0)},
		{"negative", float64(-5)},
		{"not numeric", "ten dollars"},
		{"boolean", true},
		{"above maximum", json.Number("1000000.00")},
		{"wraps int64 minor units", json.Number("184467440737095516.17")},
		{"negative minor units", "92233720368547758.09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := &fakeProcessor{}
			svc := NewGatewayService(proc, "usd", "")

			_, err := svc.CreateIntent(helpers.TestCtx(), dto.PaymentIntentRequest{Amount: tt.amount})
			var ve *errs.ValidationError
			if !errors.As(err, &ve) || ve.Message != "Invalid amount" {
				t.Fatalf("expected Invalid amount, got %v", err)
			}
			if len(proc.created) != 0 {
				t.Fatal("processor must not be called")
			}
		})
	}
}

func TestCreateIntentCurrency(t *testing.T) {
	proc := &fakeProcessor{}
	svc := NewGatewayService(proc, "EUR", "")
	ctx := helpers.TestCtx()

	if _, err := svc.CreateIntent(ctx, dto.PaymentIntentRequest{Amount: 5.0}); err != nil {
		t.Fatalf("CreateIntent error: %v", err)
	}
	if _, err := svc.CreateIntent(ctx, dto.PaymentIntentRequest{Amount: 5.0, Currency: " GBP "}); err != nil {
		t.Fatalf("CreateIntent error: %v", err)
	}
	if proc.created[0].Currency != "eur" || proc.created[1].Currency != "gbp" {
		t.Fatalf("unexpected currencies: %+v", proc.created)
	}

	for _, currency := range []string{"dollars", "1$x", "u5d"} {
		_, err := svc.CreateIntent(ctx, dto.PaymentIntentRequest{Amount: 5.0, Currency: currency})
		var ve *errs.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%q: expected validation error, got %v", currency, err)
		}
	}
	if len(proc.created) != 2 {
		t.Fatalf("invalid currencies must not reach the processor: %+v", proc.created)
	}
}

func TestCreateIntentPassesProcessorError(t *testing.T) {
	procErr := errs.NewPaymentProcessorError("Your card was declined.", "card_error", "card_declined")
	svc := NewGatewayService(&fakeProcessor{createErr: procErr}, "usd", "")

	_, err := svc.CreateIntent(helpers.TestCtx(), dto.PaymentIntentRequest{Amount: 10.0})
	var pe *errs.PaymentProcessorError
	if !errors.As(err, &pe) || pe.Code != "card_declined" {
		t.Fatalf("expected processor error, got %v", err)
	}
}

func TestPublishableKey(t *testing.T) {
	svc := NewGatewayService(&fakeProcessor{}, "usd", "pk_live_123")
	if svc.PublishableKey() != "pk_live_123" {
		t.Fatalf("unexpected key %q", svc.PublishableKey())
	}
}

func TestFromMinorUnits(t *testing.T) {
	if got := fromMinorUnits(1235); got != 12.35 {
		t.Fatalf("fromMinorUnits(1235) = %v", got)
	}
	if got := fromMinorUnits(50); got != 0.5 {
		t.Fatalf("fromMinorUnits(50) = %v", got)
	}
}
