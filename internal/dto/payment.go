package dto

// PaymentIntentRequest is the body of POST /api/stripe. Amount is left untyped so
// missing and non-numeric values can be told apart and rejected with 400.
type PaymentIntentRequest struct {
	Amount     any    `json:"amount"`
	Currency   string `json:"currency,omitempty"`
	CampaignID string `json:"campaignId,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// CreateIntentParams is what the gateway hands the processor; AmountMinor is in minor units.
type CreateIntentParams struct {
	AmountMinor int64
	Currency    string
	CampaignID  string
}

type CreatedIntent struct {
	ID           string
	ClientSecret string
}

// PaymentIntentSnapshot is the processor's view of an intent.
type PaymentIntentSnapshot struct {
	ID          string
	AmountMinor int64
	Currency    string
	Status      string
	CampaignID  string
	Raw         map[string]any
}

type DonorInfo struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// CreatePaymentRequest backs the explicit "create" write path (POST /payments).
type CreatePaymentRequest struct {
	PaymentIntentID string    `json:"paymentIntentId" validate:"required"`
	Amount          float64   `json:"amount" validate:"gt=0"`
	Currency        string    `json:"currency" validate:"omitempty,len=3,alpha"`
	CampaignID      string    `json:"campaignId" validate:"required"`
	Status          string    `json:"status" validate:"omitempty,oneof=pending succeeded failed"`
	Donor           DonorInfo `json:"donor"`
}

// PaymentOutcomeRequest is sent by the client after confirmation succeeds or fails.
type PaymentOutcomeRequest struct {
	PaymentIntentID string    `json:"paymentIntentId" validate:"required"`
	CampaignID      string    `json:"campaignId" validate:"required"`
	Donor           DonorInfo `json:"donor"`
	ErrorMessage    string    `json:"errorMessage,omitempty" validate:"max=500"`
	ErrorCode       string    `json:"errorCode,omitempty" validate:"max=100"`
}

type StripeConfigResponse struct {
	PublishableKey string `json:"publishableKey"`
}
