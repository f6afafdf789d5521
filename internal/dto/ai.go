package dto

type AIGenerateRequest struct {
	SchoolName     string   `json:"schoolName" validate:"required,max=200"`
	Location       string   `json:"location" validate:"required,max=200"`
	Category       string   `json:"category" validate:"required,max=60"`
	TargetAmount   *float64 `json:"targetAmount,omitempty" validate:"omitempty,gt=0"`
	AdditionalInfo string   `json:"additionalInfo,omitempty" validate:"max=2000"`
}

type AIGenerateResponse struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	DonationTarget float64  `json:"donationTarget"`
	SuggestedMedia []string `json:"suggestedMedia"`
}

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

type AIChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,max=40,dive"`
}

type AIChatResponse struct {
	Message string `json:"message"`
}
