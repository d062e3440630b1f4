package session_test

import (
	"testing"

	"github.com/saulo-duarte/aizzler/internal/aiquiz"
	"github.com/saulo-duarte/aizzler/internal/session"
	"github.com/stretchr/testify/assert"
)

func str(s string) *string { return &s }

func TestScore(t *testing.T) {
	questions := []aiquiz.Question{
		{Question: "Pick C", Type: aiquiz.MultipleChoice, Answer: "C"},
		{Question: "Capital of France", Type: aiquiz.RestrictedResponse, Answer: "Paris"},
	}

	t.Run("CaseAndWhitespaceInsensitive", func(t *testing.T) {
		assert.Equal(t, 2, session.Score(questions, []*string{str("c"), str("  paris ")}))
	})

	t.Run("AbsentAnswerIsIncorrect", func(t *testing.T) {
		assert.Equal(t, 1, session.Score(questions, []*string{nil, str("PARIS")}))
		assert.Equal(t, 0, session.Score(questions, nil))
	})

	t.Run("NoPartialCredit", func(t *testing.T) {
		assert.Equal(t, 0, session.Score(questions, []*string{str("C."), str("Paris, France")}))
	})
}

func TestEvaluate(t *testing.T) {
	questions := []aiquiz.Question{
		{Question: "Q1", Type: aiquiz.RestrictedResponse, Answer: "one"},
		{Question: "Q2", Type: aiquiz.RestrictedResponse, Answer: "two"},
		{Question: "Q3", Type: aiquiz.RestrictedResponse, Answer: "three"},
		{Question: "Q4", Type: aiquiz.RestrictedResponse, Answer: "four"},
	}
	report := session.Evaluate(questions, []*string{str("One"), nil, str("3"), str("four")})

	assert.Equal(t, 2, report.Score)
	assert.Equal(t, 4, report.Total)
	assert.InDelta(t, 50.0, report.Percentage, 1e-9)
	assert.True(t, report.Results[0].Correct)
	assert.False(t, report.Results[1].Answered)
	assert.False(t, report.Results[1].Correct)
	assert.Equal(t, "3", report.Results[2].Given)
	assert.False(t, report.Results[2].Correct)

	empty := session.Evaluate(nil, nil)
	assert.Zero(t, empty.Percentage)
}
