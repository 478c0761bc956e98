package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/draftforge/draftforge-backend/internal/logger"
)

// Sentinel responses returned in place of generated content when the AI
// backend is unavailable. Stored and displayed verbatim, so the wording is
// part of the product surface.
const (
	ErrMsgNoAPIKey  = "⚠️ Error: GEMINI_API_KEY not configured. Please set your API key in the .env file."
	ErrMsgRateLimit = "⚠️ API rate limit reached. The free tier allows 15 requests per minute. Please wait a moment and try again."
)

// ErrMsgGeneration wraps an upstream failure in the displayable error form.
func ErrMsgGeneration(err error) string {
	return fmt.Sprintf("⚠️ Error generating content: %v. Please try again.", err)
}

// IsAIErrorMessage reports whether stored content is one of the sentinel
// error strings rather than real generated content.
func IsAIErrorMessage(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "⚠️")
}

// IsRateLimitError matches upstream failures that mean the free-tier quota
// was exhausted.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, keyword := range []string{"429", "quota", "rate limit", "too many requests"} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// TextModel is the text completion surface the generation services depend
// on. The production implementation talks to Gemini; tests substitute a
// scripted model.
type TextModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Configured() bool
	ModelName() string
}

const defaultGeminiModel = "gemini-flash-latest"

type geminiModel struct {
	log       *logger.Logger
	apiKey    string
	modelName string
}

// NewGeminiModel builds the Gemini-backed TextModel. A missing API key is
// not an error at construction time: the model reports itself unconfigured
// and callers substitute the sentinel message.
func NewGeminiModel(log *logger.Logger, apiKey, modelName string) TextModel {
	serviceLog := log.With("service", "GeminiModel")
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	if apiKey == "" {
		serviceLog.Warn("GEMINI_API_KEY not set, generation will return configuration errors")
	}
	return &geminiModel{
		log:       serviceLog,
		apiKey:    apiKey,
		modelName: modelName,
	}
}

func (gm *geminiModel) Configured() bool {
	return gm.apiKey != ""
}

func (gm *geminiModel) ModelName() string {
	return gm.modelName
}

func (gm *geminiModel) Complete(ctx context.Context, prompt string) (string, error) {
	if gm.apiKey == "" {
		return "", fmt.Errorf("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(gm.apiKey))
	if err != nil {
		return "", fmt.Errorf("Failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(gm.modelName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini generation error: %w", err)
	}
	return strings.TrimSpace(responseText(resp)), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
