package quiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/aizzler/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

// writeServiceError maps service errors to responses. Storage failures keep
// the operation prefix the client shows inline.
func writeServiceError(w http.ResponseWriter, err error, prefix string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		config.Error(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ErrQuizNotFound):
		config.Error(w, http.StatusNotFound, "quiz not found")
	case errors.Is(err, ErrInvalidID):
		config.Error(w, http.StatusBadRequest, "invalid quiz id")
	case errors.Is(err, ErrInvalidQuiz):
		config.Error(w, http.StatusBadRequest, err.Error())
	default:
		config.Error(w, http.StatusInternalServerError, prefix+": "+err.Error())
	}
}

// @Summary      Save a finished quiz
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        quiz  body      SaveQuizDTO  true  "Questions, answers, score and settings"
// @Success      201   {object}  SavedQuizResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /quizzes [post]
func (h *Handler) SaveQuiz(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto SaveQuizDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body for save quiz")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.service.SaveQuiz(r.Context(), dto)
	if err != nil {
		writeServiceError(w, err, "Error saving quiz")
		return
	}

	config.JSON(w, http.StatusCreated, saved)
}

// @Summary      List saved quizzes
// @Description  Newest first. An account without saved quizzes gets an empty array.
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   SavedQuizResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /quizzes [get]
func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.ListQuizzes(r.Context())
	if err != nil {
		writeServiceError(w, err, "Error fetching saved quizzes")
		return
	}

	config.JSON(w, http.StatusOK, quizzes)
}

// @Summary      Get a saved quiz
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Quiz ID"
// @Success      200  {object}  SavedQuizResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /quizzes/{id} [get]
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	saved, err := h.service.GetQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Error fetching quiz")
		return
	}

	config.JSON(w, http.StatusOK, saved)
}

// @Summary      Delete a saved quiz
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Quiz ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /quizzes/{id} [delete]
func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteQuiz(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "Error deleting quiz")
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "quiz deleted successfully",
	})
}
