package aiquiz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saulo-duarte/aizzler/internal/aiquiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply   string
	err     error
	calls   int
	prompt  string
	lastCfg aiquiz.GenerationConfig
}

func (f *fakeProvider) SendPrompt(ctx context.Context, prompt string, cfg aiquiz.GenerationConfig) (string, error) {
	f.calls++
	f.prompt = prompt
	f.lastCfg = cfg
	return f.reply, f.err
}

func validRequest() aiquiz.GenerateRequest {
	return aiquiz.GenerateRequest{
		InputText:      "The Nile is the longest river in Africa.",
		NumQuestions:   2,
		QuestionFormat: aiquiz.FormatMixed,
		Language:       "English",
	}
}

func TestGenerateQuestions(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		provider := &fakeProvider{reply: "```json\n" + bareQuiz + "\n```"}
		cfg := aiquiz.DefaultGenerationConfig()
		svc := aiquiz.NewService(provider, cfg)

		questions, err := svc.GenerateQuestions(ctx, validRequest())
		require.NoError(t, err)
		assert.Len(t, questions, 2)
		assert.Equal(t, 1, provider.calls)
		assert.Equal(t, cfg, provider.lastCfg)
		assert.Contains(t, provider.prompt, "The Nile is the longest river in Africa.")
	})

	t.Run("InvalidRequestSkipsProvider", func(t *testing.T) {
		provider := &fakeProvider{reply: bareQuiz}
		svc := aiquiz.NewService(provider, aiquiz.DefaultGenerationConfig())

		req := validRequest()
		req.InputText = ""
		_, err := svc.GenerateQuestions(ctx, req)
		assert.ErrorIs(t, err, aiquiz.ErrInvalidRequest)
		assert.Zero(t, provider.calls)
	})

	t.Run("ProviderFailurePropagates", func(t *testing.T) {
		provider := &fakeProvider{err: aiquiz.ErrBlocked}
		svc := aiquiz.NewService(provider, aiquiz.DefaultGenerationConfig())

		_, err := svc.GenerateQuestions(ctx, validRequest())
		assert.ErrorIs(t, err, aiquiz.ErrBlocked)
		assert.ErrorIs(t, err, aiquiz.ErrUpstream)
	})

	t.Run("UnparsableReply", func(t *testing.T) {
		provider := &fakeProvider{reply: "Sorry, I can't do that."}
		svc := aiquiz.NewService(provider, aiquiz.DefaultGenerationConfig())

		questions, err := svc.GenerateQuestions(ctx, validRequest())
		assert.Nil(t, questions)
		assert.True(t, errors.Is(err, aiquiz.ErrUnparsable))
	})
}

func TestContainerWithoutAPIKey(t *testing.T) {
	c := aiquiz.NewAIQuizContainer(context.Background(), "", aiquiz.DefaultGenerationConfig())

	_, err := c.Service.GenerateQuestions(context.Background(), validRequest())
	assert.ErrorIs(t, err, aiquiz.ErrNotConfigured)
}
