package quizgen

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/quiz"
)

var ErrGeneratorDisabled = errors.New("question generation is not configured")

type Service interface {
	Generate(ctx context.Context, userID, bookID uuid.UUID, req GenerateRequest) (*GenerateResponse, error)
}

type service struct {
	provider Provider
	books    book.BookService
	groups   group.GroupService
	quizzes  quiz.QuizService
}

// NewService accepts a nil provider; Generate then fails with ErrGeneratorDisabled.
func NewService(provider Provider, books book.BookService, groups group.GroupService, quizzes quiz.QuizService) Service {
	return &service{provider: provider, books: books, groups: groups, quizzes: quizzes}
}

func (s *service) Generate(ctx context.Context, userID, bookID uuid.UUID, req GenerateRequest) (*GenerateResponse, error) {
	log := config.WithContext(ctx)

	if s.provider == nil {
		return nil, ErrGeneratorDisabled
	}

	b, err := s.books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if _, err := s.groups.RequireOwner(ctx, b.GroupID, userID); err != nil {
		return nil, err
	}

	drafts, err := s.provider.SendPrompt(ctx, systemPrompt, BuildUserPrompt(b.Title, b.Author, req))
	if err != nil {
		return nil, err
	}
	log.WithField("book_id", bookID).Infof("Generated %d question drafts", len(drafts))

	resp := &GenerateResponse{Drafts: drafts}
	if !req.Save {
		return resp, nil
	}

	for _, d := range drafts {
		q, err := s.quizzes.AddQuestion(ctx, userID, bookID, quiz.CreateQuestionDTO{Question: d.Question, Options: d.Options})
		if err != nil {
			return nil, err
		}
		resp.Saved = append(resp.Saved, q)
	}
	return resp, nil
}
