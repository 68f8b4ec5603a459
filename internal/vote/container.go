package vote

import (
	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/metrics"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

type VoteContainer struct {
	Repo    VoteRepository
	Service VoteService
	Handler *Handler
}

func NewVoteContainer(
	db *gorm.DB,
	groups group.GroupService,
	books book.BookRepository,
	prog progress.ProgressService,
	users user.UserService,
	m *metrics.Metrics,
) *VoteContainer {
	repo := NewRepository(db)
	service := NewService(db, repo, groups, books, prog, users, m)
	handler := NewHandler(service)

	return &VoteContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
