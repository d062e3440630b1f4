package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SavedQuiz is one finished attempt. Rows are never updated after insert.
type SavedQuiz struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string         `gorm:"type:text;not null" json:"name"`
	Timestamp      time.Time      `gorm:"not null;index" json:"timestamp"`
	QuizData       datatypes.JSON `gorm:"not null" json:"quiz_data"`
	UserAnswers    datatypes.JSON `gorm:"not null" json:"user_answers"`
	Score          int            `gorm:"not null;default:0" json:"score"`
	TotalQuestions int            `gorm:"not null;default:0" json:"total_questions"`
	Settings       datatypes.JSON `gorm:"not null" json:"settings"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SavedQuiz) TableName() string {
	return "saved_quizzes"
}

func (q *SavedQuiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
