package book

import (
	"time"

	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

type BookContainer struct {
	Repo    BookRepository
	Service BookService
	Handler *Handler
}

func NewBookContainer(db *gorm.DB, groups group.GroupService, users user.UserService, loc *time.Location) *BookContainer {
	repo := NewRepository(db)
	service := NewService(repo, groups, users, loc)
	handler := NewHandler(service)

	return &BookContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
