package quiz

import (
	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

type QuizContainer struct {
	Service QuizService
	Handler *Handler
}

func NewQuizContainer(
	db *gorm.DB,
	books book.BookService,
	groups group.GroupService,
	prog progress.ProgressService,
	users user.UserService,
) *QuizContainer {
	repo := NewRepository(db)
	service := NewService(db, repo, books, groups, prog, users)
	handler := NewHandler(service)

	return &QuizContainer{
		Service: service,
		Handler: handler,
	}
}
