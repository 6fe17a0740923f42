package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers without any payload.
var ErrEmptyResponse = errors.New("empty response from Gemini model")

// StructuredRequest is one schema-constrained generation call.
type StructuredRequest struct {
	SystemInstruction string
	Content           string
	Schema            *genai.Schema
	Temperature       float32
}

type GeminiService interface {
	GenerateJSON(ctx context.Context, req StructuredRequest) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
	logger    zerolog.Logger
}

// NewGeminiClient builds the process-wide client handle. It is created once in
// main and passed down explicitly.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

func NewGeminiService(client *genai.Client, modelName string, logger zerolog.Logger) GeminiService {
	return &geminiService{
		client:    client,
		modelName: modelName,
		logger:    logger.With().Str("component", "gemini").Str("model", modelName).Logger(),
	}
}

// GenerateJSON implements GeminiService.
func (g *geminiService) GenerateJSON(ctx context.Context, req StructuredRequest) (string, error) {
	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    req.Schema,
		Temperature:       &temperature,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(req.Content), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w (nil response)", ErrEmptyResponse)
	}

	text := resp.Text()
	if text == "" {
		finish := ""
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			finish = string(resp.Candidates[0].FinishReason)
		}
		g.logger.Warn().Str("finish_reason", finish).Msg("❌ No text content in response")
		return "", ErrEmptyResponse
	}

	g.logger.Debug().Int("chars", len(text)).Msg("📊 Gemini response received")

	return text, nil
}
