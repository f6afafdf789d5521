package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/schoolfund-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	CampaignSvc     campaignService
	DonationSvc     donationSummarizer
	SchoolSvc       schoolService
	ProfileSvc      profileService
	NotificationSvc notificationService
	UserSvc         userService
	GatewaySvc      gatewayService
	PaymentSvc      paymentService
	AISvc           aiService
}
