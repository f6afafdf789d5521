package models

import "time"

type NotificationSettings struct {
	UserID               string    `firestore:"userId" json:"userId"`
	EmailDonations       bool      `firestore:"emailDonations" json:"emailDonations"`
	EmailCampaignUpdates bool      `firestore:"emailCampaignUpdates" json:"emailCampaignUpdates"`
	EmailWeeklySummary   bool      `firestore:"emailWeeklySummary" json:"emailWeeklySummary"`
	PushEnabled          bool      `firestore:"pushEnabled" json:"pushEnabled"`
	UpdatedAt            time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func DefaultNotificationSettings(uid string, now time.Time) *NotificationSettings {
	return &NotificationSettings{
		UserID:               uid,
		EmailDonations:       true,
		EmailCampaignUpdates: true,
		UpdatedAt:            now,
	}
}
