package quiz

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/aizzler/internal/aiquiz"
)

type SaveQuizDTO struct {
	Name        string            `json:"name" validate:"max=200"`
	QuizData    []aiquiz.Question `json:"quiz_data" validate:"required,min=1"`
	UserAnswers []*string         `json:"user_answers"`
	Score       int               `json:"score" validate:"gte=0"`
	Settings    aiquiz.Settings   `json:"settings"`
	Timestamp   *time.Time        `json:"timestamp,omitempty"`
}

type SavedQuizResponse struct {
	ID             uuid.UUID         `json:"id" swaggertype:"string" format:"uuid"`
	Name           string            `json:"name"`
	Timestamp      time.Time         `json:"timestamp"`
	QuizData       []aiquiz.Question `json:"quiz_data"`
	UserAnswers    []*string         `json:"user_answers"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	Settings       aiquiz.Settings   `json:"settings"`
}
