package progress

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	InsertHistory(ctx context.Context, h *GroupBookHistory) (bool, error)
	GetHistory(ctx context.Context, groupID, bookID uuid.UUID) (*GroupBookHistory, error)
	MarkCompleted(ctx context.Context, groupID, bookID uuid.UUID) (bool, error)
	InProgressBookIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
	InsertUserBook(ctx context.Context, ub *UserBook) (bool, error)
	GetUserBook(ctx context.Context, userID, bookID, groupID uuid.UUID) (*UserBook, error)
	FindUserBook(ctx context.Context, userID, bookID uuid.UUID) (*UserBook, error)
	SetFlag(ctx context.Context, ub *UserBook, column string, value bool) error
	CountMemberReads(ctx context.Context, groupID, bookID uuid.UUID) (int64, error)
	FlaggedUserIDs(ctx context.Context, groupID, bookID uuid.UUID, column string) ([]uuid.UUID, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db, which may be a transaction.
func NewRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// InsertHistory reports whether a new row was written; an existing (group, book) row is kept.
func (r *progressRepository) InsertHistory(ctx context.Context, h *GroupBookHistory) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "book_id"}},
			DoNothing: true,
		}).
		Create(h)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *progressRepository) GetHistory(ctx context.Context, groupID, bookID uuid.UUID) (*GroupBookHistory, error) {
	var h GroupBookHistory
	if err := r.db.WithContext(ctx).
		First(&h, "group_id = ? AND book_id = ?", groupID, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotPromoted
		}
		return nil, err
	}
	return &h, nil
}

func (r *progressRepository) MarkCompleted(ctx context.Context, groupID, bookID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&GroupBookHistory{}).
		Where("group_id = ? AND book_id = ?", groupID, bookID).
		Where(map[string]interface{}{"completed": false}).
		Update("completed", true)
	return res.RowsAffected > 0, res.Error
}

func (r *progressRepository) InProgressBookIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&GroupBookHistory{}).
		Where("group_id = ?", groupID).
		Where(map[string]interface{}{"completed": false}).
		Pluck("book_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *progressRepository) InsertUserBook(ctx context.Context, ub *UserBook) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}, {Name: "group_id"}},
			DoNothing: true,
		}).
		Create(ub)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *progressRepository) GetUserBook(ctx context.Context, userID, bookID, groupID uuid.UUID) (*UserBook, error) {
	var ub UserBook
	if err := r.db.WithContext(ctx).
		First(&ub, "user_id = ? AND book_id = ? AND group_id = ?", userID, bookID, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	return &ub, nil
}

func (r *progressRepository) FindUserBook(ctx context.Context, userID, bookID uuid.UUID) (*UserBook, error) {
	var ub UserBook
	if err := r.db.WithContext(ctx).
		First(&ub, "user_id = ? AND book_id = ?", userID, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	return &ub, nil
}

func (r *progressRepository) SetFlag(ctx context.Context, ub *UserBook, column string, value bool) error {
	return r.db.WithContext(ctx).Model(ub).Update(column, value).Error
}

// CountMemberReads counts current members of the group that have read the book.
func (r *progressRepository) CountMemberReads(ctx context.Context, groupID, bookID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&UserBook{}).
		Joins("JOIN user_groups ON user_groups.user_id = user_books.user_id AND user_groups.group_id = user_books.group_id").
		Where("user_books.group_id = ? AND user_books.book_id = ?", groupID, bookID).
		Where(map[string]interface{}{"user_books.read": true}).
		Count(&count).Error
	return count, err
}

func (r *progressRepository) FlaggedUserIDs(ctx context.Context, groupID, bookID uuid.UUID, column string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&UserBook{}).
		Where("group_id = ? AND book_id = ?", groupID, bookID).
		Where(map[string]interface{}{column: true}).
		Order("updated_at ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
