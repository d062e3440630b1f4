package user

import (
	"time"

	"gorm.io/gorm"
)

type UserContainer struct {
	Handler *Handler
	Service UserService
	Repo    UserRepository
}

func NewUserContainer(db *gorm.DB, tokenTTL time.Duration) *UserContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service, tokenTTL)

	return &UserContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
