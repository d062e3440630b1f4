package aiquiz

import (
	"context"

	"github.com/saulo-duarte/aizzler/internal/config"
)

type AIQuizContainer struct {
	Handler *Handler
	Service Service
}

func NewAIQuizContainer(ctx context.Context, apiKey string, cfg GenerationConfig) *AIQuizContainer {
	var provider Provider = unconfiguredProvider{}
	if apiKey == "" {
		config.WithContext(ctx).Warn("GEMINI_API_KEY is not set; quiz generation will fail until it is configured")
	} else if p, err := NewGeminiProvider(ctx, apiKey); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to create Gemini provider")
	} else {
		provider = p
	}

	service := NewService(provider, cfg)
	handler := NewHandler(service)

	return &AIQuizContainer{
		Handler: handler,
		Service: service,
	}
}
