package container

import (
	"context"

	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/auth"
	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/metrics"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
	"github.com/JoachimHamraoui/bibliomania/internal/quiz"
	"github.com/JoachimHamraoui/bibliomania/internal/quizgen"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
	"github.com/JoachimHamraoui/bibliomania/internal/vote"
)

type Container struct {
	DB      *gorm.DB
	Tokens  *auth.TokenManager
	Metrics *metrics.Metrics

	UserContainer     *user.UserContainer
	GroupContainer    *group.GroupContainer
	BookContainer     *book.BookContainer
	ProgressContainer *progress.ProgressContainer
	VoteContainer     *vote.VoteContainer
	QuizContainer     *quiz.QuizContainer
	QuizGenContainer  *quizgen.QuizGenContainer
}

// New wires every feature on top of an open database.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB) (*Container, error) {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	m := metrics.NewMetrics()

	userContainer := user.NewUserContainer(db, tokens)

	// Progress is built on the group and book repositories so that the group
	// service can hand late joiners their in-progress books.
	groupRepo := group.NewRepository(db)
	bookRepo := book.NewRepository(db)
	progressContainer := progress.NewProgressContainer(db, groupRepo, bookRepo, userContainer.Service)

	groupContainer := group.NewGroupContainer(db, userContainer.Service, progressContainer.Service)
	bookContainer := book.NewBookContainer(db, groupContainer.Service, userContainer.Service, cfg.Location)
	voteContainer := vote.NewVoteContainer(
		db,
		groupContainer.Service,
		bookContainer.Repo,
		progressContainer.Service,
		userContainer.Service,
		m,
	)
	quizContainer := quiz.NewQuizContainer(
		db,
		bookContainer.Service,
		groupContainer.Service,
		progressContainer.Service,
		userContainer.Service,
	)
	quizGenContainer := quizgen.NewQuizGenContainer(
		ctx,
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		bookContainer.Service,
		groupContainer.Service,
		quizContainer.Service,
	)

	return &Container{
		DB:                db,
		Tokens:            tokens,
		Metrics:           m,
		UserContainer:     userContainer,
		GroupContainer:    groupContainer,
		BookContainer:     bookContainer,
		ProgressContainer: progressContainer,
		VoteContainer:     voteContainer,
		QuizContainer:     quizContainer,
		QuizGenContainer:  quizGenContainer,
	}, nil
}
