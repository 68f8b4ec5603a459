package book

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book belongs to exactly one group and is never updated once added.
type Book struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Author      string    `gorm:"type:varchar(255);not null" json:"author"`
	Description string    `gorm:"type:text" json:"description"`
	Cover       string    `gorm:"type:text" json:"cover"`
	GroupID     uuid.UUID `gorm:"type:uuid;not null;index" json:"group_id"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index:idx_comment_group_book" json:"group_id"`
	BookID    uuid.UUID `gorm:"type:uuid;not null;index:idx_comment_group_book" json:"book_id"`
	Comment   string    `gorm:"type:varchar(280);not null" json:"comment"`
	Image     string    `gorm:"type:text" json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "book_comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
