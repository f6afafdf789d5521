package dto

import "github.com/GregMSThompson/schoolfund-backend/internal/models"

// CreateCampaignRequest uses the creation vocabulary; Title is accepted as an alias for Name.
type CreateCampaignRequest struct {
	Name            string   `json:"name" validate:"required_without=Title,max=120"`
	Title           string   `json:"title" validate:"max=120"`
	Description     string   `json:"description" validate:"max=5000"`
	Category        string   `json:"category" validate:"max=60"`
	DonationTarget  float64  `json:"donationTarget" validate:"gt=0"`
	Currency        string   `json:"currency" validate:"omitempty,len=3,alpha"`
	MediaURL        string   `json:"mediaUrl" validate:"omitempty,url"`
	AdditionalMedia []string `json:"additionalMedia" validate:"omitempty,max=10,dive,url"`
	Featured        bool     `json:"featured"`
}

// UpdateCampaignRequest carries only the fields to write.
type UpdateCampaignRequest struct {
	Title           *string   `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Name            *string   `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description     *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category        *string   `json:"category,omitempty" validate:"omitempty,max=60"`
	DonationTarget  *float64  `json:"donationTarget,omitempty" validate:"omitempty,gt=0"`
	Status          *string   `json:"status,omitempty"`
	MediaURL        *string   `json:"mediaUrl,omitempty" validate:"omitempty,url"`
	AdditionalMedia *[]string `json:"additionalMedia,omitempty" validate:"omitempty,max=10,dive,url"`
	Featured        *bool     `json:"featured,omitempty"`
}

type DonationSummary struct {
	CampaignID    string               `json:"campaignId"`
	AmountRaised  float64              `json:"amountRaised"`
	DonationCount int                  `json:"donationCount"`
	RecentDonors  []models.RecentDonor `json:"recentDonors"`
}
