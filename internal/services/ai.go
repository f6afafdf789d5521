package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/pkg/helpers"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type aiService struct {
	vertex vertexClient
}

func NewAIService(vertex vertexClient) *aiService {
	return &aiService{vertex: vertex}
}

// GenerateCampaign drafts campaign copy. The model is asked for JSON and its
// reply is parsed into title, description, target and media suggestions.
func (s *aiService) GenerateCampaign(ctx context.Context, req dto.AIGenerateRequest) (dto.AIGenerateResponse, error) {
	log := logger.FromContext(ctx)

	if err := validateStruct(req); err != nil {
		return dto.AIGenerateResponse{}, err
	}

	resp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:           generateSystemPrompt,
		UserMessage:      generatePrompt(req),
		ResponseMIMEType: "application/json",
		Temperature:      helpers.Ptr(float32(0.7)),
	})
	if err != nil {
		log.Error("campaign generation failed", "error", err)
		return dto.AIGenerateResponse{}, errs.NewExternalServiceError("vertex", "failed to generate campaign", true, err)
	}

	out, err := parseGeneratedCampaign(resp.Text)
	if err != nil {
		log.Error("campaign generation returned malformed JSON", "error", err)
		return dto.AIGenerateResponse{}, errs.NewExternalServiceError("vertex", "model returned malformed campaign", false, err)
	}
	if out.DonationTarget <= 0 {
		out.DonationTarget = helpers.Value(req.TargetAmount)
	}

	log.Info("campaign generated", "category", req.Category)
	return out, nil
}

// Chat answers the last user message with the earlier messages as history.
// Nothing is stored between calls.
func (s *aiService) Chat(ctx context.Context, req dto.AIChatRequest) (dto.AIChatResponse, error) {
	log := logger.FromContext(ctx)

	if err := validateStruct(req); err != nil {
		return dto.AIChatResponse{}, err
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != "user" {
		return dto.AIChatResponse{}, errs.NewValidationError("last message must come from the user")
	}

	history := make([]dto.VertexMessage, 0, len(req.Messages)-1)
	for _, m := range req.Messages[:len(req.Messages)-1] {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		history = append(history, dto.VertexMessage{Role: role, Text: m.Content})
	}

	resp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:      chatSystemPrompt,
		History:     history,
		UserMessage: last.Content,
	})
	if err != nil {
		log.Error("ai chat failed", "error", err)
		return dto.AIChatResponse{}, errs.NewExternalServiceError("vertex", "failed to generate reply", true, err)
	}

	log.Info("ai chat completed", "turns", len(req.Messages))
	return dto.AIChatResponse{Message: strings.TrimSpace(resp.Text)}, nil
}

const generateSystemPrompt = "You write fundraising campaigns for schools. " +
	"Respond only with a JSON object with the keys title (string, under 80 characters), " +
	"description (string, two to four short paragraphs), donationTarget (number, in US dollars) " +
	"and suggestedMedia (array of short descriptions of photos or videos the school could add). " +
	"Do not invent statistics about the school."

const chatSystemPrompt = "You are a helpful assistant for school administrators building fundraising campaigns. " +
	"Help them describe their needs, pick a realistic donation target and write clear, honest campaign copy. " +
	"Keep answers short and ask one question at a time when details are missing."

func generatePrompt(req dto.AIGenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "School: %s\n", req.SchoolName)
	fmt.Fprintf(&b, "Location: %s\n", req.Location)
	fmt.Fprintf(&b, "Category: %s\n", req.Category)
	if req.TargetAmount != nil {
		fmt.Fprintf(&b, "Target amount: %.2f\n", *req.TargetAmount)
	}
	if info := strings.TrimSpace(req.AdditionalInfo); info != "" {
		fmt.Fprintf(&b, "Additional information: %s\n", info)
	}
	b.WriteString("Write the campaign.")
	return b.String()
}

func parseGeneratedCampaign(text string) (dto.AIGenerateResponse, error) {
	var out dto.AIGenerateResponse

	text = strings.TrimSpace(text)
	// some models still wrap JSON mode output in a fenced block
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err != nil {
		return out, err
	}
	if out.Title == "" || out.Description == "" {
		return out, fmt.Errorf("generated campaign is missing title or description")
	}
	if out.SuggestedMedia == nil {
		out.SuggestedMedia = []string{}
	}
	return out, nil
}
