package quiz_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/aizzler/internal/config"
	"github.com/saulo-duarte/aizzler/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&quiz.SavedQuiz{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func record(owner uuid.UUID, ts time.Time) *quiz.SavedQuiz {
	return &quiz.SavedQuiz{
		UserID:         owner,
		Name:           "quiz",
		Timestamp:      ts,
		QuizData:       datatypes.JSON(`[{"question":"Q","type":"restricted_response","answer":"a"}]`),
		UserAnswers:    datatypes.JSON(`[null]`),
		TotalQuestions: 1,
		Settings:       datatypes.JSON(`{"numQuestions":1,"timeLimitMinutes":1,"questionFormat":"mixed","language":"English"}`),
	}
}

func TestRepository(t *testing.T) {
	repo := quiz.NewRepository(newDB(t))
	owner, other := uuid.New(), uuid.New()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	empty, err := repo.ListByUser(owner)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	older := record(owner, base)
	newer := record(owner, base.Add(time.Hour))
	foreign := record(other, base.Add(2*time.Hour))
	for _, r := range []*quiz.SavedQuiz{older, newer, foreign} {
		require.NoError(t, repo.Create(r))
		assert.NotEqual(t, uuid.Nil, r.ID)
	}

	list, err := repo.ListByUser(owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	found, err := repo.FindByIDAndUser(older.ID, owner)
	require.NoError(t, err)
	assert.JSONEq(t, `[null]`, string(found.UserAnswers))

	_, err = repo.FindByIDAndUser(older.ID, other)
	assert.ErrorIs(t, err, quiz.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(older.ID, other), quiz.ErrNotFound)
	_, err = repo.FindByIDAndUser(older.ID, owner)
	require.NoError(t, err, "foreign delete leaves the record intact")

	require.NoError(t, repo.Delete(older.ID, owner))
	assert.ErrorIs(t, repo.Delete(older.ID, owner), quiz.ErrNotFound)
}
