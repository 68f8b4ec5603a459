package quiz

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoachimHamraoui/bibliomania/internal/book"
	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/group"
	"github.com/JoachimHamraoui/bibliomania/internal/progress"
	"github.com/JoachimHamraoui/bibliomania/internal/user"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")
	ErrOptionMismatch   = errors.New("option does not belong to this question")
)

type QuizService interface {
	AddQuestion(ctx context.Context, userID, bookID uuid.UUID, dto CreateQuestionDTO) (*Question, error)
	AddOption(ctx context.Context, userID, questionID uuid.UUID, dto CreateOptionDTO) (*QuestionOption, error)
	ListBookQuestions(ctx context.Context, bookID uuid.UUID) (*BookQuestionsResponse, error)
	QuestionDetail(ctx context.Context, questionID uuid.UUID) (*QuestionDetail, error)
	RecordAnswer(ctx context.Context, userID uuid.UUID, dto AnswerDTO) (*UserAnswer, error)
	Progress(ctx context.Context, userID, bookID uuid.UUID) (*ProgressResponse, error)
}

type quizService struct {
	db       *gorm.DB
	repo     QuizRepository
	books    book.BookService
	groups   group.GroupService
	progress progress.ProgressService
	users    user.UserService
}

func NewService(
	db *gorm.DB,
	repo QuizRepository,
	books book.BookService,
	groups group.GroupService,
	prog progress.ProgressService,
	users user.UserService,
) QuizService {
	return &quizService{db: db, repo: repo, books: books, groups: groups, progress: prog, users: users}
}

// AddQuestion stores a question and its initial options in one transaction.
// Only the creator of the book's group may author questions.
func (s *quizService) AddQuestion(ctx context.Context, userID, bookID uuid.UUID, dto CreateQuestionDTO) (*Question, error) {
	log := config.WithContext(ctx)

	b, err := s.books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if _, err := s.groups.RequireOwner(ctx, b.GroupID, userID); err != nil {
		return nil, err
	}

	q := &Question{BookID: b.ID, Question: strings.TrimSpace(dto.Question), CreatedBy: userID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := repo.CreateQuestion(ctx, q); err != nil {
			log.WithError(err).Error("Failed to create question")
			return err
		}
		for _, text := range dto.Options {
			o := &QuestionOption{QuestionID: q.ID, Text: strings.TrimSpace(text)}
			if err := repo.AddOption(ctx, o); err != nil {
				log.WithError(err).Error("Failed to create question option")
				return err
			}
			q.Options = append(q.Options, *o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("question_id", q.ID).WithField("book_id", bookID).Info("Question added")
	return q, nil
}

func (s *quizService) AddOption(ctx context.Context, userID, questionID uuid.UUID, dto CreateOptionDTO) (*QuestionOption, error) {
	q, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	b, err := s.books.Get(ctx, q.BookID)
	if err != nil {
		return nil, err
	}
	if _, err := s.groups.RequireOwner(ctx, b.GroupID, userID); err != nil {
		return nil, err
	}

	o := &QuestionOption{QuestionID: q.ID, Text: strings.TrimSpace(dto.Option)}
	if err := s.repo.AddOption(ctx, o); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to add option")
		return nil, err
	}
	return o, nil
}

func (s *quizService) ListBookQuestions(ctx context.Context, bookID uuid.UUID) (*BookQuestionsResponse, error) {
	if _, err := s.books.Get(ctx, bookID); err != nil {
		return nil, err
	}

	questions, err := s.repo.ListQuestionsByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	perOption, err := s.repo.CountAnswersByOption(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &BookQuestionsResponse{BookID: bookID, Questions: make([]QuestionStats, 0, len(questions))}
	for _, q := range questions {
		var total int64
		for _, o := range q.Options {
			total += perOption[o.ID]
		}

		stats := QuestionStats{QuestionID: q.ID, Question: q.Question, Options: make([]OptionStats, 0, len(q.Options))}
		for _, o := range q.Options {
			stats.Options = append(stats.Options, OptionStats{
				OptionID:   o.ID,
				Option:     o.Text,
				Percentage: Percentage(perOption[o.ID], total),
			})
		}
		resp.Questions = append(resp.Questions, stats)
	}
	return resp, nil
}

// Percentage rounds part/total to a whole percent; an empty total is 0.
func Percentage(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

func (s *quizService) QuestionDetail(ctx context.Context, questionID uuid.UUID) (*QuestionDetail, error) {
	q, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.repo.ListAnswers(ctx, questionID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(answers))
	for _, a := range answers {
		userIDs = append(userIDs, a.UserID)
	}
	users, err := s.users.Resolve(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	byOption := make(map[uuid.UUID]*OptionChoosers, len(q.Options))
	detail := &QuestionDetail{Options: make([]OptionChoosers, len(q.Options))}
	detail.Question.ID = q.ID
	detail.Question.Question = q.Question
	for i, o := range q.Options {
		detail.Options[i] = OptionChoosers{OptionID: o.ID, Option: o.Text, Users: []Chooser{}}
		byOption[o.ID] = &detail.Options[i]
	}
	for _, a := range answers {
		opt, ok := byOption[a.OptionID]
		u, known := users[a.UserID]
		if !ok || !known {
			continue
		}
		opt.Users = append(opt.Users, Chooser{Username: u.Username, ProfilePicture: u.ProfilePicture})
	}
	return detail, nil
}

func (s *quizService) RecordAnswer(ctx context.Context, userID uuid.UUID, dto AnswerDTO) (*UserAnswer, error) {
	log := config.WithContext(ctx)

	q, err := s.repo.GetQuestion(ctx, dto.QuestionID)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetOption(ctx, dto.OptionID)
	if err != nil {
		if errors.Is(err, ErrOptionNotFound) {
			return nil, ErrOptionMismatch
		}
		return nil, err
	}
	if o.QuestionID != q.ID {
		log.WithField("question_id", q.ID).Warn("Answer with option from another question")
		return nil, ErrOptionMismatch
	}

	a := &UserAnswer{UserID: userID, QuestionID: q.ID, OptionID: o.ID}
	if err := s.repo.CreateAnswer(ctx, a); err != nil {
		log.WithError(err).Error("Failed to record answer")
		return nil, err
	}
	return a, nil
}

func (s *quizService) Progress(ctx context.Context, userID, bookID uuid.UUID) (*ProgressResponse, error) {
	if _, err := s.books.Get(ctx, bookID); err != nil {
		return nil, err
	}

	total, err := s.repo.CountQuestions(ctx, bookID)
	if err != nil {
		return nil, err
	}
	answered, err := s.repo.CountAnswered(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	read, err := s.progress.HasRead(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	return &ProgressResponse{BookID: bookID, Answered: answered, Total: total, Read: read}, nil
}
