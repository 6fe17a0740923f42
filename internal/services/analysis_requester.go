package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"alfredoptarigan/ats-resume-analyzer/internal/schemas"
)

// RequestPolicy bounds the provider round trip.
type RequestPolicy struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

type AnalysisRequester interface {
	Request(ctx context.Context, resumeText, jobDescription string) ([]byte, error)
}

type analysisRequester struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	policy        RequestPolicy
	logger        zerolog.Logger
}

func NewAnalysisRequester(gemini GeminiService, policy RequestPolicy, logger zerolog.Logger) AnalysisRequester {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &analysisRequester{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		policy:        policy,
		logger:        logger.With().Str("component", "requester").Logger(),
	}
}

// Request implements AnalysisRequester. It returns the raw JSON payload; every
// failure is a ProviderError.
func (a *analysisRequester) Request(ctx context.Context, resumeText, jobDescription string) ([]byte, error) {
	req := StructuredRequest{
		SystemInstruction: a.promptBuilder.BuildAnalysisInstruction(jobDescription),
		Content:           resumeText,
		Schema:            schemas.GeminiSchema(),
		Temperature:       0.2,
	}

	a.logger.Debug().Int("prompt_chars", len(req.SystemInstruction)+len(req.Content)).Msg("📝 Requesting analysis")

	response, err := a.generateWithRetry(ctx, req)
	if err != nil {
		return nil, ErrProvider(err)
	}

	raw := []byte(extractJSON(response))
	if !json.Valid(raw) {
		return nil, ErrProvider(fmt.Errorf("response is not valid JSON (%d chars)", len(response)))
	}

	return raw, nil
}

// generateWithRetry retries transport failures only. Empty payloads and
// cancelled contexts end the loop immediately.
func (a *analysisRequester) generateWithRetry(ctx context.Context, req StructuredRequest) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= a.policy.MaxAttempts; attempt++ {
		result, err := a.attempt(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if errors.Is(err, ErrEmptyResponse) {
			return "", err
		}

		if ctx.Err() != nil {
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		if attempt < a.policy.MaxAttempts {
			a.logger.Warn().Err(err).Int("attempt", attempt).Msg("⚠️  Gemini call failed. Retrying...")
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(a.policy.RetryDelay):
			}
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", a.policy.MaxAttempts, lastErr)
}

func (a *analysisRequester) attempt(ctx context.Context, req StructuredRequest) (string, error) {
	if a.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.policy.Timeout)
		defer cancel()
	}
	return a.gemini.GenerateJSON(ctx, req)
}

// extractJSON strips markdown fences the model sometimes wraps around JSON.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
