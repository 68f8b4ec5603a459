package progress

import (
	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

type ProgressContainer struct {
	Repo    ProgressRepository
	Service ProgressService
	Handler *Handler
}

func NewProgressContainer(db *gorm.DB, groups group.GroupRepository, books book.BookRepository, users user.UserService) *ProgressContainer {
	repo := NewRepository(db)
	service := NewService(db, repo, groups, books, users)
	handler := NewHandler(service)

	return &ProgressContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
