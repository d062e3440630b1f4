package aiquiz

import (
	"context"

	"github.com/saulo-duarte/aizzler/internal/config"
)

type Service interface {
	GenerateQuestions(ctx context.Context, req GenerateRequest) ([]Question, error)
}

type service struct {
	provider Provider
	cfg      GenerationConfig
}

func NewService(provider Provider, cfg GenerationConfig) Service {
	return &service{provider: provider, cfg: cfg}
}

func (s *service) GenerateQuestions(ctx context.Context, req GenerateRequest) ([]Question, error) {
	log := config.WithContext(ctx)

	if err := req.Validate(); err != nil {
		log.WithError(err).Warn("Rejected quiz generation request")
		return nil, err
	}

	raw, err := s.provider.SendPrompt(ctx, BuildPrompt(req), s.cfg)
	if err != nil {
		log.WithError(err).Error("[AIQUIZ] Model call failed")
		return nil, err
	}
	log.Debugf("[AIQUIZ] Raw model reply:\n%s", raw)

	questions, err := ExtractQuestions(raw)
	if err != nil {
		log.WithError(err).WithField("raw_response", raw).Error("[AIQUIZ] Could not extract quiz from model reply")
		return nil, err
	}

	log.Infof("[AIQUIZ] Generated %d questions (%d requested)", len(questions), req.NumQuestions)
	return questions, nil
}
