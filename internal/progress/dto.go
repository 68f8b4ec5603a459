package progress

import "github.com/google/uuid"

type AssignBookDTO struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	BookID  uuid.UUID `json:"book_id" validate:"required"`
	GroupID uuid.UUID `json:"group_id" validate:"required"`
}

type PromoteDTO struct {
	GroupID uuid.UUID `json:"group_id" validate:"required"`
	BookID  uuid.UUID `json:"book_id" validate:"required"`
}

type UpdateReadDTO struct {
	BookID  uuid.UUID `json:"book_id" validate:"required"`
	GroupID uuid.UUID `json:"group_id" validate:"required"`
	Read    *bool     `json:"read" validate:"required"`
}

type UpdateLikedDTO struct {
	BookID  uuid.UUID `json:"book_id" validate:"required"`
	GroupID uuid.UUID `json:"group_id" validate:"required"`
	Liked   *bool     `json:"liked" validate:"required"`
}

// MemberAssignment is the outcome of assigning a book to one member.
type MemberAssignment struct {
	UserID uuid.UUID `json:"user_id"`
	OK     bool      `json:"ok"`
	Error  string    `json:"error,omitempty"`
}

type AssignResult struct {
	GroupID  uuid.UUID          `json:"group_id"`
	BookID   uuid.UUID          `json:"book_id"`
	Members  []MemberAssignment `json:"members"`
	Complete bool               `json:"complete"`
}

type StatusResponse struct {
	GroupID uuid.UUID    `json:"group_id"`
	BookID  uuid.UUID    `json:"book_id"`
	State   ReadingState `json:"state"`
}

type ReadersResponse struct {
	Readers   []ReaderResponse `json:"data"`
	Members   int64            `json:"members"`
	Completed bool             `json:"completed"`
}

type ReaderResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profile_picture"`
	Rank           string    `json:"rank"`
}

// Complete reports whether every member received the book.
func Complete(results []MemberAssignment) bool {
	for _, r := range results {
		if !r.OK {
			return false
		}
	}
	return true
}
