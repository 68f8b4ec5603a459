package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupBookHistory records that a group has started a book. Completed never
// goes back to false.
type GroupBookHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_book_history" json:"group_id"`
	BookID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_book_history" json:"book_id"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GroupBookHistory) TableName() string {
	return "group_book_history"
}

func (h *GroupBookHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// UserBook is a member's assignment of a group book.
type UserBook struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_book_group" json:"user_id"`
	BookID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_book_group" json:"book_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_book_group;index" json:"group_id"`
	Liked     bool      `gorm:"not null;default:false" json:"liked"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserBook) TableName() string {
	return "user_books"
}

func (u *UserBook) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
