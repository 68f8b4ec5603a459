package book

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Book, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Book, error)
	ListRemaining(ctx context.Context, groupID uuid.UUID) ([]*Book, error)
	IsRemaining(ctx context.Context, groupID, bookID uuid.UUID) (bool, error)
	ListHistory(ctx context.Context, groupID uuid.UUID) ([]HistoryEntry, error)
	CreateComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, groupID, bookID uuid.UUID) ([]*Comment, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	var b Book
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Book, error) {
	var books []*Book
	if len(ids) == 0 {
		return books, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Book, error) {
	var books []*Book
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) remaining(ctx context.Context, groupID uuid.UUID) *gorm.DB {
	promoted := r.db.Table("group_book_history").Select("book_id").Where("group_id = ?", groupID)
	return r.db.WithContext(ctx).Model(&Book{}).
		Where("group_id = ?", groupID).
		Where("id NOT IN (?)", promoted)
}

func (r *bookRepository) ListRemaining(ctx context.Context, groupID uuid.UUID) ([]*Book, error) {
	var books []*Book
	if err := r.remaining(ctx, groupID).Order("created_at ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) IsRemaining(ctx context.Context, groupID, bookID uuid.UUID) (bool, error) {
	var count int64
	if err := r.remaining(ctx, groupID).Where("id = ?", bookID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookRepository) ListHistory(ctx context.Context, groupID uuid.UUID) ([]HistoryEntry, error) {
	likes := r.db.Table("user_books ub").Select("COUNT(*)").
		Where("ub.group_id = h.group_id AND ub.book_id = h.book_id").
		Where(map[string]interface{}{"ub.liked": true})
	reads := r.db.Table("user_books ub").Select("COUNT(*)").
		Where("ub.group_id = h.group_id AND ub.book_id = h.book_id").
		Where(map[string]interface{}{"ub.read": true})
	comments := r.db.Table("book_comments bc").Select("COUNT(*)").
		Where("bc.group_id = h.group_id AND bc.book_id = h.book_id")

	var entries []HistoryEntry
	err := r.db.WithContext(ctx).
		Table("group_book_history h").
		Select("books.id AS book_id, books.title, books.author, books.description, books.cover, "+
			"h.completed, h.created_at AS added_at, (?) AS likes, (?) AS reads, (?) AS comments",
			likes, reads, comments).
		Joins("JOIN books ON books.id = h.book_id").
		Where("h.group_id = ?", groupID).
		Order("h.created_at DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *bookRepository) CreateComment(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *bookRepository) ListComments(ctx context.Context, groupID, bookID uuid.UUID) ([]*Comment, error) {
	var comments []*Comment
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND book_id = ?", groupID, bookID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
