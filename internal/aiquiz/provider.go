package aiquiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/saulo-duarte/aizzler/internal/config"
	"google.golang.org/genai"
)

// Provider is the only thing the generator knows about the model: a prompt goes
// in, free-form text comes out.
type Provider interface {
	SendPrompt(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
}

var harmCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

type geminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiProvider{client: client}, nil
}

func contentConfig(cfg GenerationConfig) *genai.GenerateContentConfig {
	safety := make([]*genai.SafetySetting, 0, len(harmCategories))
	for _, c := range harmCategories {
		safety = append(safety, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		TopK:            genai.Ptr(cfg.TopK),
		TopP:            genai.Ptr(cfg.TopP),
		MaxOutputTokens: cfg.MaxOutputTokens,
		SafetySettings:  safety,
	}
}

func (p *geminiProvider) SendPrompt(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	log := config.WithContext(ctx).WithField("model", cfg.Model)

	result, err := p.client.Models.GenerateContent(ctx, cfg.Model, genai.Text(prompt), contentConfig(cfg))
	if err != nil {
		log.WithError(err).Error("Gemini GenerateContent failed")
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if result == nil {
		return "", ErrEmptyResponse
	}
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		log.WithField("block_reason", result.PromptFeedback.BlockReason).Warn("Prompt blocked by Gemini")
		return "", ErrBlocked
	}
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonSafety {
		log.Warn("Gemini reply stopped by safety filters")
		return "", ErrBlocked
	}

	raw := result.Text()
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyResponse
	}
	return raw, nil
}

// unconfiguredProvider stands in when no API key is set so the server still
// starts and each generation request fails with ErrNotConfigured.
type unconfiguredProvider struct{}

func (unconfiguredProvider) SendPrompt(context.Context, string, GenerationConfig) (string, error) {
	return "", ErrNotConfigured
}
