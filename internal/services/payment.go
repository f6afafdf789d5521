package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type paymentRecordStore interface {
	Create(ctx context.Context, p *models.PaymentRecord) error
	Get(ctx context.Context, id string) (*models.PaymentRecord, error)
	RecordOutcome(ctx context.Context, p *models.PaymentRecord) error
	ForEachSucceeded(ctx context.Context, campaignID string, handle func(*models.PaymentRecord) error) error
}

type paymentAuditStore interface {
	Append(ctx context.Context, entry *models.PaymentLog) error
	AppendFailure(ctx context.Context, entry *models.PaymentLogFailure) error
}

type raisedAmountWriter interface {
	SetAmountRaised(ctx context.Context, campaignID string, amount float64) error
}

type intentReader interface {
	GetPaymentIntent(ctx context.Context, id string) (dto.PaymentIntentSnapshot, error)
}

type fieldEncrypter interface {
	KmsEncrypt(ctx context.Context, plaintext string) (string, error)
}

const defaultRecentDonors = 5

// paymentService keeps the best-effort audit trail. Audit and record writes on
// the logging paths never fail the caller; failures go to the dead letter.
type paymentService struct {
	payments  paymentRecordStore
	audit     paymentAuditStore
	campaigns raisedAmountWriter
	intents   intentReader
	crypto    fieldEncrypter
	clockNow  func() time.Time
	newID     func() string
}

func NewPaymentService(payments paymentRecordStore, audit paymentAuditStore, campaigns raisedAmountWriter, intents intentReader, crypto fieldEncrypter) *paymentService {
	return &paymentService{
		payments:  payments,
		audit:     audit,
		campaigns: campaigns,
		intents:   intents,
		crypto:    crypto,
		clockNow:  time.Now,
		newID:     uuid.NewString,
	}
}

// CreatePayment is the explicit write path for a payment that has been started
// but not confirmed. Records are keyed by payment intent id and always start
// pending; only LogSuccessfulPayment, after checking with the processor, moves
// them on. Unlike the logging paths its errors reach the caller.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*models.PaymentRecord, error) {
	log := logger.FromContext(ctx)

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Status != "" && models.PaymentStatus(req.Status) != models.PaymentPending {
		return nil, errs.NewValidationError("new payments start as pending; confirm them through /payments/success")
	}

	record := s.newRecord(req.PaymentIntentID, req.CampaignID, req.Amount, req.Currency, req.Donor, models.PaymentPending, nil)
	email, err := s.crypto.KmsEncrypt(ctx, req.Donor.Email)
	if err != nil {
		return nil, err
	}
	record.Donor.Email = email

	if err := s.payments.Create(ctx, record); err != nil {
		log.Error("failed to create payment record", "payment_intent_id", req.PaymentIntentID, "error", err)
		return nil, err
	}

	log.Info("payment record created", "payment_id", record.ID, "status", record.Status)
	return record, nil
}

// LogSuccessfulPayment confirms the intent with the processor, then writes the
// payment record and the audit entry. Only validation and processor lookups
// can fail the call. Logging the same intent again returns the stored record
// and writes nothing.
func (s *paymentService) LogSuccessfulPayment(ctx context.Context, req dto.PaymentOutcomeRequest) (*models.PaymentRecord, error) {
	log := logger.FromContext(ctx).With("payment_intent_id", req.PaymentIntentID, "campaign_id", req.CampaignID)

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	intent, err := s.intents.GetPaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		log.Error("failed to retrieve payment intent", "error", err)
		return nil, err
	}
	if intent.CampaignID != "" && intent.CampaignID != req.CampaignID {
		return nil, errs.NewValidationError("payment intent belongs to another campaign")
	}
	if intent.Status != string(models.PaymentSucceeded) {
		return nil, errs.NewValidationError("payment intent has not succeeded")
	}

	amount := fromMinorUnits(intent.AmountMinor)
	record := s.newRecord(intent.ID, req.CampaignID, amount, intent.Currency, req.Donor, models.PaymentSucceeded, intent.Raw)
	if email, err := s.crypto.KmsEncrypt(ctx, req.Donor.Email); err != nil {
		// keep the payment, drop the address
		s.deadLetter(ctx, "donor_email", intent.ID, req.CampaignID, err)
	} else {
		record.Donor.Email = email
	}

	// the record is keyed by intent id, so a replayed success finds it already succeeded
	err = s.payments.RecordOutcome(ctx, record)
	var transition *errs.InvalidTransitionError
	switch {
	case errors.As(err, &transition) && transition.From == string(models.PaymentSucceeded):
		log.Info("payment already logged")
		if existing, gerr := s.payments.Get(ctx, record.ID); gerr == nil {
			return existing, nil
		}
		return record, nil
	case err != nil:
		s.deadLetter(ctx, "payments", intent.ID, req.CampaignID, err)
	}

	entry := &models.PaymentLog{
		ID:              s.newID(),
		Event:           models.PaymentEventSucceeded,
		PaymentIntentID: intent.ID,
		CampaignID:      req.CampaignID,
		Amount:          amount,
		Currency:        record.Currency,
		DonorName:       donorName(req.Donor),
		CreatedAt:       s.clockNow().UTC(),
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.deadLetter(ctx, "payment_logs", intent.ID, req.CampaignID, err)
	}

	s.refreshRaised(ctx, req.CampaignID)
	log.Info("successful payment logged", "amount", amount, "currency", record.Currency)
	return record, nil
}

// LogFailedPayment writes one audit entry. It never fails the caller for store errors.
func (s *paymentService) LogFailedPayment(ctx context.Context, req dto.PaymentOutcomeRequest) error {
	log := logger.FromContext(ctx).With("payment_intent_id", req.PaymentIntentID, "campaign_id", req.CampaignID)

	if err := validateStruct(req); err != nil {
		return err
	}

	entry := &models.PaymentLog{
		ID:              s.newID(),
		Event:           models.PaymentEventFailed,
		PaymentIntentID: req.PaymentIntentID,
		CampaignID:      req.CampaignID,
		DonorName:       donorName(req.Donor),
		ErrorMessage:    req.ErrorMessage,
		ErrorCode:       req.ErrorCode,
		CreatedAt:       s.clockNow().UTC(),
	}
	if intent, err := s.intents.GetPaymentIntent(ctx, req.PaymentIntentID); err == nil {
		entry.Amount = fromMinorUnits(intent.AmountMinor)
		entry.Currency = strings.ToUpper(intent.Currency)
	} else {
		log.Warn("could not read failed payment intent", "error", err)
	}

	if err := s.audit.Append(ctx, entry); err != nil {
		s.deadLetter(ctx, "payment_logs", req.PaymentIntentID, req.CampaignID, err)
		return nil
	}
	log.Info("failed payment logged", "error_code", req.ErrorCode)
	return nil
}

// RaisedAmount sums every succeeded payment for the campaign.
func (s *paymentService) RaisedAmount(ctx context.Context, campaignID string) (float64, error) {
	summary, err := s.summarize(ctx, campaignID, 0)
	return summary.AmountRaised, err
}

func (s *paymentService) DonationCount(ctx context.Context, campaignID string) (int, error) {
	summary, err := s.summarize(ctx, campaignID, 0)
	return summary.DonationCount, err
}

func (s *paymentService) RecentDonors(ctx context.Context, campaignID string, limit int) ([]models.RecentDonor, error) {
	summary, err := s.summarize(ctx, campaignID, limit)
	return summary.RecentDonors, err
}

// DonationSummary computes raised amount, count and recent donors in one pass.
func (s *paymentService) DonationSummary(ctx context.Context, campaignID string, limit int) (dto.DonationSummary, error) {
	return s.summarize(ctx, campaignID, limit)
}

func (s *paymentService) summarize(ctx context.Context, campaignID string, limit int) (dto.DonationSummary, error) {
	if limit <= 0 {
		limit = defaultRecentDonors
	}
	out := dto.DonationSummary{CampaignID: campaignID, RecentDonors: []models.RecentDonor{}}

	total := decimal.Zero
	var donors []models.RecentDonor
	seen := map[string]bool{}
	err := s.payments.ForEachSucceeded(ctx, campaignID, func(p *models.PaymentRecord) error {
		// records written before intent-keyed ids can repeat an intent
		if p.PaymentIntentID != "" {
			if seen[p.PaymentIntentID] {
				return nil
			}
			seen[p.PaymentIntentID] = true
		}
		total = total.Add(decimal.NewFromFloat(p.Amount))
		out.DonationCount++
		donors = append(donors, models.RecentDonor{
			Name:      donorName(dto.DonorInfo{FirstName: p.Donor.FirstName, LastName: p.Donor.LastName}),
			Amount:    p.Amount,
			Currency:  p.Currency,
			DonatedAt: p.CreatedAt,
		})
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to aggregate payments", "campaign_id", campaignID, "error", err)
		return out, err
	}

	sort.SliceStable(donors, func(i, j int) bool {
		return donors[i].DonatedAt.After(donors[j].DonatedAt)
	})
	if len(donors) > limit {
		donors = donors[:limit]
	}
	if donors != nil {
		out.RecentDonors = donors
	}
	out.AmountRaised = total.InexactFloat64()
	return out, nil
}

// refreshRaised writes the recomputed total back to the campaign. Failures are logged only.
func (s *paymentService) refreshRaised(ctx context.Context, campaignID string) {
	log := logger.FromContext(ctx)

	raised, err := s.RaisedAmount(ctx, campaignID)
	if err != nil {
		log.Warn("skipping amount raised refresh", "campaign_id", campaignID, "error", err)
		return
	}
	if err := s.campaigns.SetAmountRaised(ctx, campaignID, raised); err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			log.Warn("payment logged for unknown campaign", "campaign_id", campaignID)
			return
		}
		log.Warn("failed to write amount raised", "campaign_id", campaignID, "error", err)
	}
}

// newRecord builds a record keyed by its payment intent id. Donor e-mail is left
// empty for the caller to fill with ciphertext.
func (s *paymentService) newRecord(intentID, campaignID string, amount float64, currency string, donor dto.DonorInfo, status models.PaymentStatus, payload map[string]any) *models.PaymentRecord {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	now := s.clockNow().UTC()
	return &models.PaymentRecord{
		ID:               intentID,
		PaymentIntentID:  intentID,
		Amount:           amount,
		Currency:         strings.ToUpper(currency),
		CampaignID:       campaignID,
		Donor:            models.Donor{FirstName: donor.FirstName, LastName: donor.LastName},
		Status:           status,
		ProcessorPayload: payload,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (s *paymentService) deadLetter(ctx context.Context, target, intentID, campaignID string, cause error) {
	log := logger.FromContext(ctx)
	log.Error("payment audit write failed", "target", target, "payment_intent_id", intentID, "campaign_id", campaignID, "error", cause)

	err := s.audit.AppendFailure(ctx, &models.PaymentLogFailure{
		ID:              s.newID(),
		Target:          target,
		PaymentIntentID: intentID,
		CampaignID:      campaignID,
		Error:           cause.Error(),
		CreatedAt:       s.clockNow().UTC(),
	})
	if err != nil {
		log.Error("dead letter write failed", "target", target, "payment_intent_id", intentID, "error", err)
	}
}

func donorName(d dto.DonorInfo) string {
	name := strings.TrimSpace(strings.TrimSpace(d.FirstName) + " " + strings.TrimSpace(d.LastName))
	if name == "" {
		return "Anonymous"
	}
	return name
}
