package models

import (
	"math"
	"strings"
	"time"
)

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
)

const (
	DefaultCampaignName     = "Untitled Campaign"
	DefaultCampaignCategory = "General"
	DefaultCurrency         = "USD"
	UnknownLocation         = "Unknown"
)

// ParseCampaignStatus reports whether s names one of the three lifecycle states.
func ParseCampaignStatus(s string) (CampaignStatus, bool) {
	switch st := CampaignStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case CampaignDraft, CampaignActive, CampaignCompleted:
		return st, true
	default:
		return "", false
	}
}

// CanTransitionTo allows draft → active → completed and same-state writes.
func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case CampaignDraft:
		return next == CampaignActive
	case CampaignActive:
		return next == CampaignCompleted
	default:
		return false
	}
}

// Campaign is the canonical read shape served to clients.
type Campaign struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Category        string         `json:"category"`
	DonationTarget  float64        `json:"donationTarget"`
	AmountRaised    float64        `json:"amountRaised"`
	ProgressPercent float64        `json:"progressPercent"`
	Status          CampaignStatus `json:"status"`
	Currency        string         `json:"currency"`
	MediaURL        string         `json:"mediaUrl"`
	AdditionalMedia []string       `json:"additionalMedia"`
	SchoolID        string         `json:"schoolId"`
	Location        string         `json:"location"`
	Featured        bool           `json:"featured"`
	CreatedAt       time.Time      `json:"createdAt"`
	StartDate       *time.Time     `json:"startDate,omitempty"`
	EndDate         *time.Time     `json:"endDate,omitempty"`
}

// CampaignDocument is the write shape stored in the campaigns collection.
// Goal duplicates DonationTarget for older readers.
type CampaignDocument struct {
	Name            string    `firestore:"name"`
	Description     string    `firestore:"description"`
	Category        string    `firestore:"category"`
	DonationTarget  float64   `firestore:"donationTarget"`
	Goal            float64   `firestore:"goal"`
	AmountRaised    float64   `firestore:"amountRaised"`
	Status          string    `firestore:"status"`
	Currency        string    `firestore:"currency"`
	MediaURL        string    `firestore:"mediaUrl"`
	AdditionalMedia []string  `firestore:"additionalMedia"`
	SchoolID        string    `firestore:"schoolId"`
	Location        string    `firestore:"location"`
	Featured        bool      `firestore:"featured"`
	CreatedAt       time.Time `firestore:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt"`
	StartDate       time.Time `firestore:"startDate"`
	EndDate         time.Time `firestore:"endDate"`
}

// RawDocument is an untyped Firestore document plus its id.
type RawDocument struct {
	ID   string
	Data map[string]any
}

// ProgressPercent is min(raised/target, 1) * 100; a non-positive target yields 0.
func ProgressPercent(raised, target float64) float64 {
	if target <= 0 || raised <= 0 {
		return 0
	}
	return math.Min(raised/target, 1) * 100
}

// CampaignSchoolID reads the owning school id from a raw document.
func CampaignSchoolID(doc RawDocument) string {
	return docString(doc.Data, "schoolId", "schoolID")
}

// CampaignFromDocument is the only mapping from a stored campaign to the read
// shape. Missing fields get defaults; the location prefers the owning school's
// profile, then the location embedded on the campaign, then "Unknown".
func CampaignFromDocument(doc RawDocument, school *SchoolLocation) Campaign {
	data := doc.Data
	if data == nil {
		data = map[string]any{}
	}

	target, _ := docFloat(data, "donationTarget", "goal")
	raised, _ := docFloat(data, "amountRaised")
	if raised < 0 {
		raised = 0
	}

	status, ok := ParseCampaignStatus(docString(data, "status"))
	if !ok {
		status = CampaignDraft
	}

	currency := strings.ToUpper(docString(data, "currency"))
	if currency == "" {
		currency = DefaultCurrency
	}

	name := docString(data, "name", "title")
	if name == "" {
		name = DefaultCampaignName
	}
	category := docString(data, "category")
	if category == "" {
		category = DefaultCampaignCategory
	}

	var createdAt time.Time
	if t := docTime(data, "createdAt"); t != nil {
		createdAt = *t
	}

	return Campaign{
		ID:              doc.ID,
		Name:            name,
		Description:     docString(data, "description"),
		Category:        category,
		DonationTarget:  target,
		AmountRaised:    raised,
		ProgressPercent: ProgressPercent(raised, target),
		Status:          status,
		Currency:        currency,
		MediaURL:        docString(data, "mediaUrl", "imageUrl"),
		AdditionalMedia: docStrings(data, "additionalMedia"),
		SchoolID:        CampaignSchoolID(doc),
		Location:        resolveLocation(school, docString(data, "location")),
		Featured:        docBool(data, "featured"),
		CreatedAt:       createdAt,
		StartDate:       docTime(data, "startDate"),
		EndDate:         docTime(data, "endDate"),
	}
}

func resolveLocation(school *SchoolLocation, embedded string) string {
	if school != nil {
		if loc := school.String(); loc != "" {
			return loc
		}
	}
	if embedded != "" {
		return embedded
	}
	return UnknownLocation
}

// Raw returns the stored document in the untyped form read paths map from.
func (d *CampaignDocument) Raw(id string) RawDocument {
	additional := make([]any, 0, len(d.AdditionalMedia))
	for _, m := range d.AdditionalMedia {
		additional = append(additional, m)
	}
	return RawDocument{ID: id, Data: map[string]any{
		"name":            d.Name,
		"description":     d.Description,
		"category":        d.Category,
		"donationTarget":  d.DonationTarget,
		"goal":            d.Goal,
		"amountRaised":    d.AmountRaised,
		"status":          d.Status,
		"currency":        d.Currency,
		"mediaUrl":        d.MediaURL,
		"additionalMedia": additional,
		"schoolId":        d.SchoolID,
		"location":        d.Location,
		"featured":        d.Featured,
		"createdAt":       d.CreatedAt,
		"updatedAt":       d.UpdatedAt,
		"startDate":       d.StartDate,
		"endDate":         d.EndDate,
	}}
}
