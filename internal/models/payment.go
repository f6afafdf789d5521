package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// CanTransitionTo allows pending → succeeded|failed only.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == PaymentPending && (next == PaymentSucceeded || next == PaymentFailed)
}

type Donor struct {
	FirstName string `firestore:"firstName" json:"firstName"`
	LastName  string `firestore:"lastName" json:"lastName"`
	// Email holds KMS ciphertext at rest when a key is configured.
	Email string `firestore:"email" json:"email,omitempty"`
}

// PaymentRecord is one attempted or completed donation in the payments collection.
// Amount is in major currency units.
type PaymentRecord struct {
	ID               string         `firestore:"id" json:"id"`
	PaymentIntentID  string         `firestore:"paymentIntentId" json:"paymentIntentId"`
	Amount           float64        `firestore:"amount" json:"amount"`
	Currency         string         `firestore:"currency" json:"currency"`
	CampaignID       string         `firestore:"campaignId" json:"campaignId"`
	Donor            Donor          `firestore:"donor" json:"donor"`
	Status           PaymentStatus  `firestore:"status" json:"status"`
	ProcessorPayload map[string]any `firestore:"processorPayload,omitempty" json:"-"`
	CreatedAt        time.Time      `firestore:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time      `firestore:"updatedAt" json:"updatedAt"`
}

const (
	PaymentEventSucceeded = "payment_succeeded"
	PaymentEventFailed    = "payment_failed"
)

// PaymentLog is a best-effort audit entry in payment_logs; it is not authoritative.
type PaymentLog struct {
	ID              string    `firestore:"id" json:"id"`
	Event           string    `firestore:"event" json:"event"`
	PaymentIntentID string    `firestore:"paymentIntentId" json:"paymentIntentId"`
	CampaignID      string    `firestore:"campaignId" json:"campaignId"`
	Amount          float64   `firestore:"amount" json:"amount"`
	Currency        string    `firestore:"currency" json:"currency"`
	DonorName       string    `firestore:"donorName,omitempty" json:"donorName,omitempty"`
	ErrorMessage    string    `firestore:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	ErrorCode       string    `firestore:"errorCode,omitempty" json:"errorCode,omitempty"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
}

// PaymentLogFailure is the dead-letter entry written when an audit write is swallowed.
type PaymentLogFailure struct {
	ID              string    `firestore:"id"`
	Target          string    `firestore:"target"` // collection that failed
	PaymentIntentID string    `firestore:"paymentIntentId"`
	CampaignID      string    `firestore:"campaignId"`
	Error           string    `firestore:"error"`
	CreatedAt       time.Time `firestore:"createdAt"`
}

// RecentDonor is the public view of a succeeded payment.
type RecentDonor struct {
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	DonatedAt time.Time `json:"donatedAt"`
}
