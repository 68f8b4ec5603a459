package user

import (
	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
)

type UserContainer struct {
	Repo    UserRepository
	Service UserService
	Handler *Handler
}

func NewUserContainer(db *gorm.DB, tokens *auth.TokenManager) *UserContainer {
	repo := NewRepository(db)
	service := NewService(repo, tokens)
	handler := NewHandler(service)

	return &UserContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
