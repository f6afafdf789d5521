package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
)

type stubPaymentService struct {
	createReq  dto.CreatePaymentRequest
	outcomeReq dto.PaymentOutcomeRequest
	failed     bool
	err        error
}

func (s *stubPaymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*models.PaymentRecord, error) {
	s.createReq = req
	return &models.PaymentRecord{ID: "p1", Status: models.PaymentPending}, s.err
}

func (s *stubPaymentService) LogSuccessfulPayment(ctx context.Context, req dto.PaymentOutcomeRequest) (*models.PaymentRecord, error) {
	s.outcomeReq = req
	return &models.PaymentRecord{ID: "p2", Status: models.PaymentSucceeded}, s.err
}

func (s *stubPaymentService) LogFailedPayment(ctx context.Context, req dto.PaymentOutcomeRequest) error {
	s.outcomeReq = req
	s.failed = true
	return s.err
}

func TestPaymentSuccess(t *testing.T) {
	svc := &stubPaymentService{}
	resp := &stubResponseHandler{}
	h := NewPaymentHandlers(&Deps{ResponseHandler: resp, PaymentSvc: svc})

	body := `{"paymentIntentId":"pi_1","campaignId":"c1","donor":{"firstName":"Ada"}}`
	h.Success(httptest.NewRecorder(), newRequest(http.MethodPost, "/payments/success", body, ""))

	if svc.outcomeReq.PaymentIntentID != "pi_1" || svc.outcomeReq.Donor.FirstName != "Ada" {
		t.Fatalf("unexpected request: %+v", svc.outcomeReq)
	}
	if rec, ok := resp.writeSuccessData.(*models.PaymentRecord); !ok || rec.Status != models.PaymentSucceeded {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestPaymentFailure(t *testing.T) {
	svc := &stubPaymentService{}
	resp := &stubResponseHandler{}
	h := NewPaymentHandlers(&Deps{ResponseHandler: resp, PaymentSvc: svc})

	body := `{"paymentIntentId":"pi_1","campaignId":"c1","errorCode":"card_declined"}`
	h.Failure(httptest.NewRecorder(), newRequest(http.MethodPost, "/payments/failure", body, ""))

	if !svc.failed || svc.outcomeReq.ErrorCode != "card_declined" {
		t.Fatalf("unexpected request: %+v", svc.outcomeReq)
	}
	if resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.writeSuccessStatus)
	}
}

func TestPaymentCreate(t *testing.T) {
	svc := &stubPaymentService{}
	resp := &stubResponseHandler{}
	h := NewPaymentHandlers(&Deps{ResponseHandler: resp, PaymentSvc: svc})

	h.Create(httptest.NewRecorder(), newRequest(http.MethodPost, "/payments", `{"paymentIntentId":"pi_1","amount":20,"campaignId":"c1"}`, ""))
	if svc.createReq.Amount != 20 || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("unexpected create: %+v status=%d", svc.createReq, resp.writeSuccessStatus)
	}

	svc.err = errs.NewValidationError("invalid fields: amount (gt)")
	h.Create(httptest.NewRecorder(), newRequest(http.MethodPost, "/payments", `{"amount":0}`, ""))
	var ve *errs.ValidationError
	if !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}
