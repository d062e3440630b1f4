package quiz

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("saved quiz not found")

type Repository interface {
	Create(q *SavedQuiz) error
	ListByUser(userID uuid.UUID) ([]SavedQuiz, error)
	FindByIDAndUser(id, userID uuid.UUID) (*SavedQuiz, error)
	Delete(id, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(q *SavedQuiz) error {
	return r.db.Create(q).Error
}

func (r *repository) ListByUser(userID uuid.UUID) ([]SavedQuiz, error) {
	quizzes := []SavedQuiz{}
	if err := r.db.
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *repository) FindByIDAndUser(id, userID uuid.UUID) (*SavedQuiz, error) {
	var q SavedQuiz
	if err := r.db.First(&q, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// Delete removes the row only when it belongs to userID.
func (r *repository) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&SavedQuiz{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
