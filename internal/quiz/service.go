package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/saulo-duarte/aizzler/internal/auth"
	"github.com/saulo-duarte/aizzler/internal/config"
	"github.com/saulo-duarte/aizzler/internal/session"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

var (
	ErrQuizNotFound = errors.New("quiz not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidID    = errors.New("invalid id format")
	ErrInvalidQuiz  = errors.New("invalid quiz data")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type QuizService interface {
	SaveQuiz(ctx context.Context, dto SaveQuizDTO) (*SavedQuizResponse, error)
	ListQuizzes(ctx context.Context) ([]SavedQuizResponse, error)
	GetQuiz(ctx context.Context, id string) (*SavedQuizResponse, error)
	DeleteQuiz(ctx context.Context, id string) error
}

type quizService struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) QuizService {
	return &quizService{repo: repo, now: time.Now}
}

func getUserIDFromContext(ctx context.Context, log logrus.FieldLogger, action string) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		log.WithError(err).Warnf("Attempt to %s without authentication", action)
		return uuid.Nil, ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		log.WithError(err).Warn("Invalid user id in token")
		return uuid.Nil, ErrUnauthorized
	}
	return userID, nil
}

func parseUUID(log logrus.FieldLogger, id string) (uuid.UUID, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		log.WithError(err).Warn("Invalid quiz id")
		return uuid.Nil, ErrInvalidID
	}
	return parsedID, nil
}

// DefaultName is the name given to a saved quiz when the caller sends none.
func DefaultName(t time.Time) string {
	return "Quiz taken on " + t.Format(time.RFC1123)
}

func validateSave(dto SaveQuizDTO) error {
	if err := validate.Struct(dto); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidQuiz, err.Error())
	}
	if len(dto.UserAnswers) != len(dto.QuizData) {
		return fmt.Errorf("%w: %d answers for %d questions", ErrInvalidQuiz, len(dto.UserAnswers), len(dto.QuizData))
	}
	if want := session.Score(dto.QuizData, dto.UserAnswers); dto.Score != want {
		return fmt.Errorf("%w: score %d does not match the answers (%d correct)", ErrInvalidQuiz, dto.Score, want)
	}
	if err := dto.Settings.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidQuiz, err.Error())
	}
	return nil
}

func (s *quizService) SaveQuiz(ctx context.Context, dto SaveQuizDTO) (*SavedQuizResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "save quiz")
	if err != nil {
		return nil, err
	}

	if err := validateSave(dto); err != nil {
		log.WithError(err).Warn("Invalid quiz data")
		return nil, err
	}

	timestamp := s.now().UTC()
	if dto.Timestamp != nil && !dto.Timestamp.IsZero() {
		timestamp = dto.Timestamp.UTC()
	}
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		name = DefaultName(timestamp)
	}

	quizData, err := json.Marshal(dto.QuizData)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuiz, err.Error())
	}
	answers, err := json.Marshal(dto.UserAnswers)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuiz, err.Error())
	}
	settings, err := json.Marshal(dto.Settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuiz, err.Error())
	}

	record := SavedQuiz{
		UserID:         userID,
		Name:           name,
		Timestamp:      timestamp,
		QuizData:       datatypes.JSON(quizData),
		UserAnswers:    datatypes.JSON(answers),
		Score:          dto.Score,
		TotalQuestions: len(dto.QuizData),
		Settings:       datatypes.JSON(settings),
	}

	log.Info("Saving quiz...")
	if err := s.repo.Create(&record); err != nil {
		log.WithError(err).Error("Error saving quiz")
		return nil, err
	}

	log.WithField("quiz_id", record.ID).Info("Quiz saved successfully")
	return toResponse(&record)
}

func (s *quizService) ListQuizzes(ctx context.Context) ([]SavedQuizResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "list quizzes")
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListByUser(userID)
	if err != nil {
		log.WithError(err).Error("Error listing user quizzes")
		return nil, err
	}

	responses := make([]SavedQuizResponse, 0, len(records))
	for i := range records {
		resp, err := toResponse(&records[i])
		if err != nil {
			log.WithError(err).WithField("quiz_id", records[i].ID).Error("Saved quiz has corrupted data")
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *quizService) GetQuiz(ctx context.Context, id string) (*SavedQuizResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "fetch quiz")
	if err != nil {
		return nil, err
	}

	quizID, err := parseUUID(log, id)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindByIDAndUser(quizID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WithFields(logrus.Fields{
				"quiz_id": id,
				"user_id": userID,
			}).Warn("Quiz not found or not owned by user")
			return nil, ErrQuizNotFound
		}
		log.WithError(err).Error("Error fetching quiz")
		return nil, err
	}
	return toResponse(record)
}

func (s *quizService) DeleteQuiz(ctx context.Context, id string) error {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "delete quiz")
	if err != nil {
		return err
	}

	quizID, err := parseUUID(log, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(quizID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WithFields(logrus.Fields{
				"quiz_id": id,
				"user_id": userID,
			}).Warn("Quiz to delete not found or not owned by user")
			return ErrQuizNotFound
		}
		log.WithError(err).Error("Error deleting quiz")
		return err
	}

	log.WithField("quiz_id", id).Info("Quiz deleted successfully")
	return nil
}

func toResponse(q *SavedQuiz) (*SavedQuizResponse, error) {
	resp := &SavedQuizResponse{
		ID:             q.ID,
		Name:           q.Name,
		Timestamp:      q.Timestamp,
		Score:          q.Score,
		TotalQuestions: q.TotalQuestions,
	}
	if err := json.Unmarshal(q.QuizData, &resp.QuizData); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(q.UserAnswers, &resp.UserAnswers); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(q.Settings, &resp.Settings); err != nil {
		return nil, err
	}
	return resp, nil
}
