package aiquiz_test

import (
	"encoding/json"
	"testing"

	"github.com/saulo-duarte/aizzler/internal/aiquiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsPreserveOrder(t *testing.T) {
	var q aiquiz.Question
	err := json.Unmarshal([]byte(`{"question":"Q","type":"multiple_choice","options":{"D":"four","B":"two","A":"one"},"answer":"B"}`), &q)
	require.NoError(t, err)

	labels := []string{}
	for _, o := range q.Options {
		labels = append(labels, o.Label)
	}
	assert.Equal(t, []string{"D", "B", "A"}, labels)

	out, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"question":"Q","type":"multiple_choice","options":{"D":"four","B":"two","A":"one"},"answer":"B"}`, string(out))
	assert.Contains(t, string(out), `{"D":"four","B":"two","A":"one"}`)
}

func TestOptionsOmittedForRestrictedResponse(t *testing.T) {
	out, err := json.Marshal(aiquiz.Question{Question: "Q", Type: aiquiz.RestrictedResponse, Answer: "a"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "options")
}

func TestSettingsValidate(t *testing.T) {
	valid := aiquiz.DefaultSettings()
	require.NoError(t, valid.Validate())

	cases := map[string]func(s *aiquiz.Settings){
		"ZeroQuestions":   func(s *aiquiz.Settings) { s.NumQuestions = 0 },
		"NegativeMinutes": func(s *aiquiz.Settings) { s.TimeLimitMinutes = -1 },
		"BlankLanguage":   func(s *aiquiz.Settings) { s.Language = "  " },
		"UnknownFormat":   func(s *aiquiz.Settings) { s.QuestionFormat = "essay" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := aiquiz.DefaultSettings()
			mutate(&s)
			err := s.Validate()
			assert.ErrorIs(t, err, aiquiz.ErrInvalidSettings)
		})
	}
}

func TestGenerateRequestValidate(t *testing.T) {
	ok := aiquiz.GenerateRequest{InputText: "text", NumQuestions: 2, QuestionFormat: aiquiz.FormatMixed, Language: "English"}
	require.NoError(t, ok.Validate())

	missing := []aiquiz.GenerateRequest{
		{NumQuestions: 2, QuestionFormat: aiquiz.FormatMixed, Language: "English"},
		{InputText: "text", QuestionFormat: aiquiz.FormatMixed, Language: "English"},
		{InputText: "text", NumQuestions: 2, Language: "English"},
		{InputText: "text", NumQuestions: 2, QuestionFormat: aiquiz.FormatMixed},
		{InputText: "   ", NumQuestions: 2, QuestionFormat: aiquiz.FormatMixed, Language: "English"},
	}
	for _, req := range missing {
		assert.ErrorIs(t, req.Validate(), aiquiz.ErrInvalidRequest, "%+v", req)
	}
}
