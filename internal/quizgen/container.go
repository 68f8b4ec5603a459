package quizgen

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/quiz"
)

type QuizGenContainer struct {
	Service Service
	Handler *Handler
}

func NewQuizGenContainer(ctx context.Context, apiKey, model string, books book.BookService, groups group.GroupService, quizzes quiz.QuizService) *QuizGenContainer {
	var provider Provider
	if apiKey != "" {
		p, err := NewGeminiProvider(ctx, apiKey, model)
		if err != nil {
			logrus.WithError(err).Warn("Question generation disabled")
		} else {
			provider = p
		}
	}

	service := NewService(provider, books, groups, quizzes)
	handler := NewHandler(service)

	return &QuizGenContainer{
		Service: service,
		Handler: handler,
	}
}
