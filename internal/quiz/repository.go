package quiz

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRepository interface {
	CreateQuestion(ctx context.Context, q *Question) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error)
	ListQuestionsByBook(ctx context.Context, bookID uuid.UUID) ([]*Question, error)
	CountQuestions(ctx context.Context, bookID uuid.UUID) (int64, error)
	AddOption(ctx context.Context, o *QuestionOption) error
	GetOption(ctx context.Context, id uuid.UUID) (*QuestionOption, error)
	CreateAnswer(ctx context.Context, a *UserAnswer) error
	ListAnswers(ctx context.Context, questionID uuid.UUID) ([]*UserAnswer, error)
	CountAnswersByOption(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	CountAnswered(ctx context.Context, userID, bookID uuid.UUID) (int64, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) CreateQuestion(ctx context.Context, q *Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quizRepository) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	var q Question
	if err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) ListQuestionsByBook(ctx context.Context, bookID uuid.UUID) ([]*Question, error) {
	var questions []*Question
	if err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("book_id = ?", bookID).
		Order("created_at ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *quizRepository) CountQuestions(ctx context.Context, bookID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Question{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

func (r *quizRepository) AddOption(ctx context.Context, o *QuestionOption) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *quizRepository) GetOption(ctx context.Context, id uuid.UUID) (*QuestionOption, error) {
	var o QuestionOption
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *quizRepository) CreateAnswer(ctx context.Context, a *UserAnswer) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *quizRepository) ListAnswers(ctx context.Context, questionID uuid.UUID) ([]*UserAnswer, error) {
	var answers []*UserAnswer
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *quizRepository) CountAnswersByOption(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	if len(questionIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		OptionID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).Model(&UserAnswer{}).
		Select("chosen_option_id AS option_id, COUNT(*) AS total").
		Where("question_id IN ?", questionIDs).
		Group("chosen_option_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.OptionID] = row.Total
	}
	return out, nil
}

func (r *quizRepository) CountAnswered(ctx context.Context, userID, bookID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&UserAnswer{}).
		Joins("JOIN questions ON questions.id = user_answers.question_id").
		Where("user_answers.user_id = ? AND questions.book_id = ?", userID, bookID).
		Distinct("user_answers.question_id").
		Count(&count).Error
	return count, err
}
