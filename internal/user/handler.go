package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/saulo-duarte/aizzler/internal/auth"
	"github.com/saulo-duarte/aizzler/internal/config"
)

const userRole = "user"

type Handler struct {
	service  UserService
	tokenTTL time.Duration
}

func NewHandler(s UserService, tokenTTL time.Duration) *Handler {
	return &Handler{service: s, tokenTTL: tokenTTL}
}

// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      CredentialsDTO  true  "Email and password (at least 6 characters)"
// @Success      201          {object}  AuthResponse
// @Failure      400          {object}  map[string]string
// @Failure      409          {object}  map[string]string
// @Router       /auth/signup [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid sign-up body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.service.Register(r.Context(), dto)
	switch {
	case errors.Is(err, ErrInvalidInput):
		config.Error(w, http.StatusBadRequest, "a valid email and a password of at least 6 characters are required")
		return
	case errors.Is(err, ErrEmailTaken):
		config.Error(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		config.Error(w, http.StatusInternalServerError, "failed to sign up")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, u)
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      CredentialsDTO  true  "Email and password"
// @Success      200          {object}  AuthResponse
// @Failure      400          {object}  map[string]string
// @Failure      401          {object}  map[string]string
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid login body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.service.Authenticate(r.Context(), dto)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		config.Error(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		config.Error(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, u)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, u *User) {
	token, err := auth.GenerateJWT(u.ID.String(), userRole, h.tokenTTL)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to generate JWT")
		config.Error(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	config.JSON(w, status, AuthResponse{Token: token, User: u})
}

// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/me [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetCurrentUser(r.Context())
	switch {
	case errors.Is(err, ErrUnauthorized):
		config.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	case errors.Is(err, ErrUserNotFound):
		config.Error(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		config.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	config.JSON(w, http.StatusOK, u)
}
