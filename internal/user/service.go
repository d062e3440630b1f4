package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/saulo-duarte/aizzler/internal/auth"
	"github.com/saulo-duarte/aizzler/internal/config"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid credentials payload")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type UserService interface {
	Register(ctx context.Context, dto CredentialsDTO) (*User, error)
	Authenticate(ctx context.Context, dto CredentialsDTO) (*User, error)
	GetCurrentUser(ctx context.Context) (*User, error)
}

type userService struct {
	repo UserRepository
}

func NewService(repo UserRepository) UserService {
	return &userService{repo: repo}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, dto CredentialsDTO) (*User, error) {
	log := config.WithContext(ctx)

	dto.Email = normalizeEmail(dto.Email)
	if err := validate.Struct(dto); err != nil {
		log.WithError(err).Warn("Invalid sign-up payload")
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	if _, err := s.repo.FindByEmail(dto.Email); err == nil {
		log.Warn("Sign-up with an email that is already registered")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		log.WithError(err).Error("Failed to look up user by email")
		return nil, err
	}

	u := &User{Email: dto.Email}
	if err := u.SetPassword(dto.Password); err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, err
	}
	if err := s.repo.Create(u); err != nil {
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User registered")
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, dto CredentialsDTO) (*User, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.FindByEmail(normalizeEmail(dto.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to look up user by email")
		return nil, err
	}
	if !u.CheckPassword(dto.Password) {
		log.WithField("user_id", u.ID).Warn("Wrong password")
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) GetCurrentUser(ctx context.Context) (*User, error) {
	log := config.WithContext(ctx)

	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		log.Warn("User not authenticated")
		return nil, ErrUnauthorized
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	u, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		log.WithError(err).Error("Failed to load current user")
		return nil, err
	}
	return u, nil
}
