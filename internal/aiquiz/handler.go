package aiquiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saulo-duarte/aizzler/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// @Summary      Generate a quiz
// @Description  Builds one prompt from the study text and settings and returns the questions the model produced.
// @Tags         generation
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateRequest  true  "Study text and quiz settings"
// @Success      200      {array}   Question
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/generate-quiz [post]
func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid generate-quiz request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	questions, err := h.service.GenerateQuestions(r.Context(), req)
	if err != nil {
		status, message := errorResponse(err)
		config.Error(w, status, message)
		return
	}

	config.JSON(w, http.StatusOK, questions)
}

// errorResponse maps generation failures to client-safe messages. Model output
// never leaves the server.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "Missing required fields in request body."
	case errors.Is(err, ErrNotConfigured):
		return http.StatusInternalServerError, "API Key not configured on the server."
	case errors.Is(err, ErrUnparsable):
		return http.StatusInternalServerError, "Failed to parse quiz data from API response."
	case errors.Is(err, ErrMalformed):
		return http.StatusInternalServerError, "Invalid quiz data structure received from API."
	case errors.Is(err, ErrUpstream):
		return http.StatusInternalServerError, "The quiz generation service did not return a usable reply."
	default:
		return http.StatusInternalServerError, "An unexpected error occurred during quiz generation."
	}
}
