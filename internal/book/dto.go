package book

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookDTO struct {
	Title       string `json:"title" validate:"required,max=255"`
	Author      string `json:"author" validate:"required,max=255"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
}

type CreateCommentDTO struct {
	GroupID uuid.UUID `json:"group_id" validate:"required"`
	BookID  uuid.UUID `json:"book_id" validate:"required"`
	Comment string    `json:"comment" validate:"required,max=280"`
	Image   string    `json:"image"`
}

// HistoryEntry is a book the group has read or is reading, with engagement counts.
type HistoryEntry struct {
	BookID      uuid.UUID `json:"book_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Cover       string    `json:"cover"`
	Completed   bool      `json:"completed"`
	AddedAt     time.Time `json:"added_at"`
	Likes       int64     `json:"likes"`
	Reads       int64     `json:"reads"`
	Comments    int64     `json:"comments"`
}

type CommentResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	GroupID        uuid.UUID `json:"group_id"`
	BookID         uuid.UUID `json:"book_id"`
	Comment        string    `json:"comment"`
	Image          string    `json:"image"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture"`
	Rank           string    `json:"rank"`
	You            bool      `json:"you"`
	Time           string    `json:"time"`
	Date           string    `json:"date"`
	CreatedAt      time.Time `json:"created_at"`
}
