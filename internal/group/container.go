package group

import (
	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

type GroupContainer struct {
	Repo    GroupRepository
	Service GroupService
	Handler *Handler
}

func NewGroupContainer(db *gorm.DB, users user.UserService, assigner BookAssigner) *GroupContainer {
	repo := NewRepository(db)
	service := NewService(db, repo, users, assigner)
	handler := NewHandler(service)

	return &GroupContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
